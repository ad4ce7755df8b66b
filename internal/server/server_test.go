package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendlab/internal/config"
	"trendlab/internal/domain/content"
	"trendlab/internal/domain/creator"
	"trendlab/internal/domain/trend"
	authmw "trendlab/internal/server/middleware"
)

const testSecret = "server-secret"

type stubTrends struct{}

func (stubTrends) SaveTrends(context.Context, []trend.Trend) error { return nil }
func (stubTrends) GetTrend(context.Context, string) (*trend.Trend, error) {
	return nil, trend.ErrNotFound
}
func (stubTrends) FindTrends(context.Context, trend.Filter) ([]trend.Trend, int, error) {
	return []trend.Trend{}, 0, nil
}
func (stubTrends) SaveRun(context.Context, trend.CollectionRun) error { return nil }
func (stubTrends) FindRuns(context.Context, string, int, int) ([]trend.CollectionRun, int, error) {
	return []trend.CollectionRun{}, 0, nil
}

type stubCollector struct{}

func (stubCollector) Collect(_ context.Context, _ string, opts trend.CollectionOptions) (*trend.CollectionResult, error) {
	return &trend.CollectionResult{Keyword: opts.Keyword, Videos: []trend.NormalizedVideo{}, Breakdown: map[trend.Platform]int{}}, nil
}
func (stubCollector) History(context.Context, string, int, int) ([]trend.CollectionRun, int, error) {
	return []trend.CollectionRun{}, 0, nil
}
func (stubCollector) Platforms() []trend.Platform { return []trend.Platform{trend.PlatformYouTube} }

type stubContent struct{}

func (stubContent) FindIdeas(context.Context, content.Filter) ([]content.Idea, int, error) {
	return []content.Idea{}, 0, nil
}
func (stubContent) GetIdea(context.Context, string) (*content.Idea, error) {
	return nil, content.ErrNotFound
}
func (stubContent) CreateIdea(context.Context, content.Idea) error { return nil }
func (stubContent) DeleteIdea(context.Context, string) error        { return content.ErrNotFound }

type stubCreators struct{}

func (stubCreators) FindCreators(context.Context, creator.Filter) ([]creator.Creator, int, error) {
	return []creator.Creator{}, 0, nil
}
func (stubCreators) GetCreator(context.Context, string) (*creator.Creator, error) {
	return nil, creator.ErrNotFound
}

func newTestServer() *Server {
	cfg := config.ServerConfig{
		Host:           "127.0.0.1",
		Port:           0,
		CorsOrigins:    []string{"*"},
		RequestTimeout: 5 * time.Second,
	}
	return NewServer(cfg, Dependencies{
		Trends:    stubTrends{},
		Collector: stubCollector{},
		Content:   stubContent{},
		Creators:  stubCreators{},
		Verifier:  authmw.NewJWTVerifier(testSecret, "authenticated", ""),
	}, zerolog.Nop())
}

func bearer(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, authmw.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestServer_Routes(t *testing.T) {
	handler := newTestServer().Handler()

	tests := []struct {
		name       string
		method     string
		path       string
		auth       bool
		wantStatus int
	}{
		{"health is public", http.MethodGet, "/api/health", false, http.StatusOK},
		{"metrics are public", http.MethodGet, "/metrics", false, http.StatusOK},
		{"trends need auth", http.MethodGet, "/api/v1/trends", false, http.StatusUnauthorized},
		{"trends", http.MethodGet, "/api/v1/trends", true, http.StatusOK},
		{"platforms", http.MethodGet, "/api/v1/trends/platforms", true, http.StatusOK},
		{"trend not found", http.MethodGet, "/api/v1/trends/abc", true, http.StatusNotFound},
		{"collections", http.MethodGet, "/api/v1/collections", true, http.StatusOK},
		{"content ideas", http.MethodGet, "/api/v1/content-ideas", true, http.StatusOK},
		{"delete missing idea", http.MethodDelete, "/api/v1/content-ideas/abc", true, http.StatusNotFound},
		{"creators", http.MethodGet, "/api/v1/creators", true, http.StatusOK},
		{"creator not found", http.MethodGet, "/api/v1/creators/abc", true, http.StatusNotFound},
		{"stream not mounted without bus", http.MethodGet, "/ws/collections", true, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth {
				req.Header.Set("Authorization", bearer(t))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestServer_HealthBody(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, "OK", rec.Body.String())
}
