// Package serpapi finds short-form videos on sites without a public search
// API through SerpAPI's Google video search.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"trendlab/internal/adapter/upstream"
	"trendlab/internal/domain/geo"
	"trendlab/internal/domain/trend"
)

const defaultBaseURL = "https://serpapi.com"

// noResults is the error SerpAPI reports for an empty result page
const noResults = "hasn't returned any results"

// Config contains configuration for a SerpAPI adapter
type Config struct {
	APIKey    string
	BaseURL   string
	RateLimit float64
}

// Adapter implements trend.Adapter for one site restriction
type Adapter struct {
	client   *upstream.Client
	config   Config
	platform trend.Platform
	site     string
	idAfter  string
}

// NewTikTok creates an adapter for TikTok videos
func NewTikTok(config Config, opts ...upstream.Option) *Adapter {
	return newAdapter(trend.PlatformTikTok, "tiktok.com", "video", config, opts)
}

// NewInstagram creates an adapter for Instagram reels
func NewInstagram(config Config, opts ...upstream.Option) *Adapter {
	return newAdapter(trend.PlatformInstagram, "instagram.com/reel", "reel", config, opts)
}

func newAdapter(platform trend.Platform, site, idAfter string, config Config, opts []upstream.Option) *Adapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}

	all := append([]upstream.Option{upstream.WithRateLimit(config.RateLimit, 1)}, opts...)

	return &Adapter{
		client:   upstream.NewClient("SerpAPI", config.BaseURL, all...),
		config:   config,
		platform: platform,
		site:     site,
		idAfter:  idAfter,
	}
}

func (a *Adapter) Platform() trend.Platform { return a.platform }

func (a *Adapter) Source() trend.Source { return trend.SourceSerpAPI }

// SupportsDateFilter is false: Google video search has no publish date range
func (a *Adapter) SupportsDateFilter() bool { return false }

func (a *Adapter) Search(ctx context.Context, q trend.Query) ([]trend.RawVideo, error) {
	body, err := a.client.Get(ctx, "/search.json", a.searchParams(q))
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	if resp.Error != "" {
		if strings.Contains(resp.Error, noResults) {
			return []trend.RawVideo{}, nil
		}
		return nil, fmt.Errorf("SerpAPI error: %s", resp.Error)
	}

	videos := make([]trend.RawVideo, 0, len(resp.VideoResults))
	for _, item := range resp.VideoResults {
		if q.MaxResults > 0 && len(videos) == q.MaxResults {
			break
		}

		v := trend.RawVideo{
			ID:           a.videoID(item.Link),
			Title:        item.Title,
			URL:          item.Link,
			ThumbnailURL: item.Thumbnail,
			Duration:     item.Duration,
			ChannelName:  firstNonEmpty(item.Channel.Name, item.Source),
			Description:  item.Snippet,
			ClipURL:      item.VideoLink,
		}
		// relative dates ("3 days ago") are left unset
		if item.Date != "" && !strings.HasSuffix(item.Date, " ago") {
			if published, err := dateparse.ParseIn(item.Date, time.UTC); err == nil {
				published = published.UTC()
				v.PublishedAt = &published
			}
		}

		videos = append(videos, v)
	}

	return videos, nil
}

func (a *Adapter) searchParams(q trend.Query) url.Values {
	params := url.Values{}
	params.Set("engine", "google_videos")
	params.Set("q", fmt.Sprintf("%s site:%s", q.Keyword, a.site))
	params.Set("num", strconv.Itoa(q.MaxResults))
	params.Set("api_key", a.config.APIKey)

	if q.Country != "" {
		params.Set("gl", geo.Locale{Country: q.Country}.GoogleCountry())
	}
	if q.Language != "" {
		params.Set("hl", q.Language)
	}

	return params
}

// videoID takes the path segment after the site's marker, e.g. the number in
// /@user/video/123. Links without one use the whole link.
func (a *Adapter) videoID(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, segment := range segments {
		if segment == a.idAfter && i+1 < len(segments) && segments[i+1] != "" {
			return segments[i+1]
		}
	}
	return link
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
