package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendlab/internal/domain/trend"
)

const trendID = "8d5e4c2a-1f3b-4a6e-9c7d-2b1a0f9e8d7c"

func newTrendRepo() *fakeTrendRepo {
	return &fakeTrendRepo{trends: map[string]trend.Trend{
		trendID: {
			ID:          trendID,
			Keyword:     "불닭",
			Platform:    trend.PlatformYouTube,
			Source:      trend.SourceYouTubeAPI,
			VideoID:     "y1",
			Title:       "Buldak challenge",
			VideoURL:    "https://www.youtube.com/watch?v=y1",
			Tags:        []string{},
			CollectedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
}

func TestTrendHandler_GetTrends(t *testing.T) {
	repo := newTrendRepo()
	h := NewTrendHandler(repo, &fakeCollector{})

	rec := serve(t, http.MethodGet, "/trends", "/trends?keyword=%20%EB%B6%88%EB%8B%AD%20&platform=youtube&country=kr&sort=view_count&order=asc&page=3&limit=10", "", h.GetTrends)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	var data struct {
		Trends []trend.Trend `json:"trends"`
		Total  int           `json:"total"`
		Page   int           `json:"page"`
		Limit  int           `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Trends, 1)
	assert.Equal(t, 1, data.Total)
	assert.Equal(t, 3, data.Page)
	assert.Equal(t, 10, data.Limit)

	assert.Equal(t, trend.Filter{
		Keyword:  "불닭",
		Platform: trend.PlatformYouTube,
		Country:  trend.CountryKR,
		Sort:     "view_count",
		Desc:     false,
		Limit:    10,
		Offset:   20,
	}, repo.lastFilter)
}

func TestTrendHandler_GetTrends_Defaults(t *testing.T) {
	repo := newTrendRepo()
	h := NewTrendHandler(repo, &fakeCollector{})

	rec := serve(t, http.MethodGet, "/trends", "/trends?page=0&limit=500", "", h.GetTrends)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "collected_at", repo.lastFilter.Sort)
	assert.True(t, repo.lastFilter.Desc)
	assert.Equal(t, maxPageLimit, repo.lastFilter.Limit)
	assert.Equal(t, 0, repo.lastFilter.Offset)
}

func TestTrendHandler_GetTrends_BadParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"platform", "platform=vimeo", "Invalid platform"},
		{"country", "country=FR", "Invalid country"},
		{"sort", "sort=title", "Invalid sort field"},
		{"order", "order=sideways", "Invalid sort order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTrendHandler(newTrendRepo(), &fakeCollector{})

			rec := serve(t, http.MethodGet, "/trends", "/trends?"+tt.query, "", h.GetTrends)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tt.want, env.Error)
		})
	}
}

func TestTrendHandler_GetTrends_StoreFailure(t *testing.T) {
	repo := newTrendRepo()
	repo.findErr = errors.New("connection refused")
	h := NewTrendHandler(repo, &fakeCollector{})

	rec := serve(t, http.MethodGet, "/trends", "/trends", "", h.GetTrends)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Failed to get trends", env.Error)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestTrendHandler_GetTrend(t *testing.T) {
	h := NewTrendHandler(newTrendRepo(), &fakeCollector{})

	rec := serve(t, http.MethodGet, "/trends/{id}", "/trends/"+trendID, "", h.GetTrend)
	require.Equal(t, http.StatusOK, rec.Code)
	var got trend.Trend
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &got))
	assert.Equal(t, "y1", got.VideoID)

	rec = serve(t, http.MethodGet, "/trends/{id}", "/trends/missing", "", h.GetTrend)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Trend not found", decodeEnvelope(t, rec).Error)
}

func TestTrendHandler_GetPlatforms(t *testing.T) {
	h := NewTrendHandler(newTrendRepo(), &fakeCollector{})

	rec := serve(t, http.MethodGet, "/trends/platforms", "/trends/platforms", "", h.GetPlatforms)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"platforms":["youtube","tiktok"]}`, string(decodeEnvelope(t, rec).Data))
}

func TestTrendHandler_CollectTrends(t *testing.T) {
	collector := &fakeCollector{result: &trend.CollectionResult{
		Keyword:     "불닭",
		TotalVideos: 0,
		Videos:      []trend.NormalizedVideo{},
		Breakdown:   map[trend.Platform]int{},
		CollectedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Errors: []trend.CollectionError{
			{Platform: trend.PlatformTikTok, Source: trend.SourceSerpAPI, Error: "rate limited"},
		},
	}}
	h := NewTrendHandler(newTrendRepo(), collector)

	rec := serve(t, http.MethodPost, "/trends/collect", "/trends/collect",
		`{"keyword":"불닭","maxResults":5,"includeTikTok":true,"country":"KR"}`, h.CollectTrends)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{
		"keyword": "불닭",
		"totalVideos": 0,
		"videos": [],
		"breakdown": {},
		"collectedAt": "2024-05-01T00:00:00Z",
		"errors": [{"platform": "tiktok", "source": "serpapi", "error": "rate limited"}]
	}`, string(env.Data))

	assert.Equal(t, "user-1", collector.lastUserID)
	assert.Equal(t, trend.CollectionOptions{
		Keyword:       "불닭",
		MaxResults:    5,
		IncludeTikTok: true,
		Country:       trend.CountryKR,
	}, collector.lastOpts)
}

func TestTrendHandler_CollectTrends_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "malformed body",
			body:       `{"keyword":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
		{
			name:       "validation",
			body:       `{"keyword":"  "}`,
			err:        &trend.ValidationError{Field: "keyword", Reason: "must not be empty"},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid keyword: must not be empty",
		},
		{
			name:       "cancelled",
			body:       `{"keyword":"불닭"}`,
			err:        errors.Join(errors.New("collection cancelled"), context.Canceled),
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "Collection cancelled",
		},
		{
			name:       "unexpected",
			body:       `{"keyword":"불닭"}`,
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to collect trends",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTrendHandler(newTrendRepo(), &fakeCollector{err: tt.err})

			rec := serve(t, http.MethodPost, "/trends/collect", "/trends/collect", tt.body, h.CollectTrends)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, decodeEnvelope(t, rec).Error)
		})
	}
}

func TestTrendHandler_GetCollections(t *testing.T) {
	collector := &fakeCollector{runs: []trend.CollectionRun{
		{ID: "run-1", UserID: "user-1", Keyword: "불닭", Breakdown: map[trend.Platform]int{}, Errors: []trend.CollectionError{}},
	}}
	h := NewTrendHandler(newTrendRepo(), collector)

	rec := serve(t, http.MethodGet, "/collections", "/collections?page=2&limit=5", "", h.GetCollections)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", collector.lastUserID)
	assert.Equal(t, 5, collector.lastLimit)
	assert.Equal(t, 5, collector.lastOffset)

	var data struct {
		Collections []trend.CollectionRun `json:"collections"`
		Total       int                   `json:"total"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.Len(t, data.Collections, 1)
	assert.Equal(t, 1, data.Total)
}
