package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendlab/internal/adapter/upstream"
	"trendlab/internal/domain/trend"
)

const searchBody = `{
  "items": [
    {
      "id": {"videoId": "vid1"},
      "snippet": {
        "title": "Buldak challenge",
        "description": "spicy",
        "channelId": "UC1",
        "channelTitle": "Chef",
        "publishedAt": "2026-02-01T10:00:00Z",
        "thumbnails": {"default": {"url": "https://i.ytimg.com/vi/vid1/default.jpg"}, "high": {"url": "https://i.ytimg.com/vi/vid1/hq.jpg"}}
      }
    },
    {
      "id": {"videoId": "vid2"},
      "snippet": {"title": "Second", "channelTitle": "Other", "publishedAt": "not a date"}
    },
    {
      "id": {"channelId": "UCskip"},
      "snippet": {"title": "A channel result"}
    }
  ]
}`

const videosBody = `{
  "items": [
    {
      "id": "vid1",
      "snippet": {"tags": ["food", "spicy"]},
      "statistics": {"viewCount": "1500", "likeCount": "120", "commentCount": "9"},
      "contentDetails": {"duration": "PT4M13S"}
    },
    {
      "id": "vid2",
      "statistics": {"viewCount": "42"},
      "contentDetails": {"duration": "PT45S"}
    }
  ]
}`

func newTestServer(t *testing.T, videosStatus int, inspect func(r *http.Request)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/youtube/v3/search":
			if inspect != nil {
				inspect(r)
			}
			w.Write([]byte(searchBody))
		case "/youtube/v3/videos":
			if videosStatus != http.StatusOK {
				w.WriteHeader(videosStatus)
				return
			}
			w.Write([]byte(videosBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSearch_LongForm(t *testing.T) {
	server := newTestServer(t, http.StatusOK, func(r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "불닭", q.Get("q"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "10", q.Get("maxResults"))
		assert.Equal(t, "JP", q.Get("regionCode"))
		assert.Equal(t, "ja", q.Get("relevanceLanguage"))
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Empty(t, q.Get("videoDuration"))
	})
	a := NewLongForm(Config{APIKey: "test-key", BaseURL: server.URL})

	videos, err := a.Search(context.Background(), trend.Query{
		Keyword:    "불닭",
		MaxResults: 10,
		Country:    trend.CountryJP,
		Language:   "ja",
	})
	require.NoError(t, err)
	require.Len(t, videos, 2)

	v := videos[0]
	assert.Equal(t, "vid1", v.ID)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid1", v.URL)
	assert.Equal(t, "https://i.ytimg.com/vi/vid1/hq.jpg", v.ThumbnailURL)
	assert.Equal(t, "Chef", v.ChannelName)
	require.NotNil(t, v.PublishedAt)
	assert.Equal(t, time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC), *v.PublishedAt)
	assert.Equal(t, int64(1500), *v.ViewCount)
	assert.Equal(t, int64(120), *v.LikeCount)
	assert.Equal(t, int64(9), *v.CommentCount)
	assert.Equal(t, "PT4M13S", v.Duration)
	assert.Equal(t, []string{"food", "spicy"}, v.Tags)

	assert.Nil(t, videos[1].PublishedAt)
	assert.Nil(t, videos[1].LikeCount)
	assert.Equal(t, int64(42), *videos[1].ViewCount)
}

func TestSearch_ShortsAndDateFilter(t *testing.T) {
	after := time.Date(2026, 1, 1, 0, 0, 0, 0, time.FixedZone("KST", 9*60*60))
	server := newTestServer(t, http.StatusOK, func(r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "short", q.Get("videoDuration"))
		assert.Equal(t, "2025-12-31T15:00:00Z", q.Get("publishedAfter"))
		assert.Empty(t, q.Get("publishedBefore"))
	})
	a := NewShorts(Config{APIKey: "k", BaseURL: server.URL})

	videos, err := a.Search(context.Background(), trend.Query{
		Keyword:    "noodles",
		MaxResults: 10,
		DateFilter: &trend.DateFilter{PublishedAfter: &after},
	})
	require.NoError(t, err)

	assert.Equal(t, trend.PlatformYouTubeShorts, a.Platform())
	assert.True(t, a.SupportsDateFilter())
	assert.Equal(t, "https://www.youtube.com/shorts/vid1", videos[0].URL)
}

func TestSearch_CapsToMaxResults(t *testing.T) {
	server := newTestServer(t, http.StatusOK, nil)
	a := NewLongForm(Config{BaseURL: server.URL})

	videos, err := a.Search(context.Background(), trend.Query{Keyword: "x", MaxResults: 1})

	require.NoError(t, err)
	assert.Len(t, videos, 1)
}

func TestSearch_StatisticsFailureIsPartial(t *testing.T) {
	server := newTestServer(t, http.StatusServiceUnavailable, nil)
	a := NewLongForm(Config{BaseURL: server.URL})

	videos, err := a.Search(context.Background(), trend.Query{Keyword: "x", MaxResults: 10})

	assert.ErrorIs(t, err, upstream.ErrUnavailable)
	require.Len(t, videos, 2)
	assert.Nil(t, videos[0].ViewCount)
}

func TestSearch_QuotaExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()
	a := NewLongForm(Config{BaseURL: server.URL})

	videos, err := a.Search(context.Background(), trend.Query{Keyword: "x", MaxResults: 10})

	assert.Nil(t, videos)
	assert.True(t, errors.Is(err, upstream.ErrAuth))
}

func TestSearch_EmptyResultSkipsLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/youtube/v3/search" {
			t.Errorf("unexpected call to %s", r.URL.Path)
		}
		w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()
	a := NewLongForm(Config{BaseURL: server.URL})

	videos, err := a.Search(context.Background(), trend.Query{Keyword: "x", MaxResults: 10})

	require.NoError(t, err)
	assert.Empty(t, videos)
}
