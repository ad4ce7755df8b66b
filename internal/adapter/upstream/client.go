// Package upstream holds the HTTP plumbing shared by the platform adapters.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Sentinel errors for upstream status classes
var (
	ErrAuth        = errors.New("upstream rejected credentials")
	ErrRateLimited = errors.New("upstream rate limit exceeded")
	ErrUnavailable = errors.New("upstream unavailable")
)

// maxBodySize bounds how much of a response is read
const maxBodySize = 8 << 20

// HTTPClient interface for making HTTP requests (allows injection for testing)
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is a non-200 upstream response
type StatusError struct {
	Service    string
	StatusCode int
	kind       error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error (status %d)", e.Service, e.StatusCode)
}

// Unwrap exposes the status class so callers can use errors.Is
func (e *StatusError) Unwrap() error {
	return e.kind
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// Client performs GET requests against one upstream JSON API
type Client struct {
	service    string
	baseURL    string
	httpClient HTTPClient
	limiter    *rate.Limiter
}

// NewClient creates a client for the named service
func NewClient(service, baseURL string, opts ...Option) *Client {
	c := &Client{
		service:    service,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get requests path with the given query and returns the response body.
// It waits on the rate limiter first, so a cancelled context aborts queued calls.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s rate limiter: %w", c.service, err)
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", c.service, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode)
	}

	return body, nil
}

func (c *Client) statusError(statusCode int) error {
	err := &StatusError{Service: c.service, StatusCode: statusCode}
	switch {
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		err.kind = ErrAuth
	case statusCode == http.StatusTooManyRequests:
		err.kind = ErrRateLimited
	case statusCode >= 500:
		err.kind = ErrUnavailable
	}
	return err
}
