// Package youtube searches the YouTube Data API v3 for long-form videos
// and Shorts.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trendlab/internal/adapter/upstream"
	"trendlab/internal/domain/trend"
)

const defaultBaseURL = "https://www.googleapis.com"

// Config contains configuration for a YouTube adapter
type Config struct {
	APIKey  string
	BaseURL string
	// Order is the search ranking, e.g. relevance or viewCount
	Order     string
	RateLimit float64
}

// Adapter implements trend.Adapter over the search and videos endpoints
type Adapter struct {
	client   *upstream.Client
	config   Config
	platform trend.Platform
}

// NewLongForm creates an adapter for regular YouTube videos
func NewLongForm(config Config, opts ...upstream.Option) *Adapter {
	return newAdapter(trend.PlatformYouTube, config, opts)
}

// NewShorts creates an adapter restricted to short videos, reported as Shorts
func NewShorts(config Config, opts ...upstream.Option) *Adapter {
	return newAdapter(trend.PlatformYouTubeShorts, config, opts)
}

func newAdapter(platform trend.Platform, config Config, opts []upstream.Option) *Adapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Order == "" {
		config.Order = "relevance"
	}

	all := append([]upstream.Option{upstream.WithRateLimit(config.RateLimit, 1)}, opts...)

	return &Adapter{
		client:   upstream.NewClient("YouTube", config.BaseURL, all...),
		config:   config,
		platform: platform,
	}
}

func (a *Adapter) Platform() trend.Platform { return a.platform }

func (a *Adapter) Source() trend.Source { return trend.SourceYouTubeAPI }

func (a *Adapter) SupportsDateFilter() bool { return true }

// Search runs one search page and enriches the hits with statistics. When
// the statistics lookup fails the hits are still returned with the error.
func (a *Adapter) Search(ctx context.Context, q trend.Query) ([]trend.RawVideo, error) {
	body, err := a.client.Get(ctx, "/youtube/v3/search", a.searchParams(q))
	if err != nil {
		return nil, err
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	videos := make([]trend.RawVideo, 0, len(searchResp.Items))
	videoIDs := make([]string, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.ID.VideoID == "" {
			continue
		}

		v := trend.RawVideo{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			URL:          a.videoURL(item.ID.VideoID),
			ThumbnailURL: firstNonEmpty(item.Snippet.Thumbnails.High.URL, item.Snippet.Thumbnails.Medium.URL, item.Snippet.Thumbnails.Default.URL),
			ChannelName:  item.Snippet.ChannelTitle,
			ChannelID:    item.Snippet.ChannelID,
			Description:  item.Snippet.Description,
		}
		if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			v.PublishedAt = &publishedAt
		}

		videos = append(videos, v)
		videoIDs = append(videoIDs, item.ID.VideoID)
	}

	if len(videos) > q.MaxResults && q.MaxResults > 0 {
		videos = videos[:q.MaxResults]
		videoIDs = videoIDs[:q.MaxResults]
	}

	if len(videos) == 0 {
		return videos, nil
	}

	details, err := a.fetchDetails(ctx, videoIDs)
	if err != nil {
		return videos, fmt.Errorf("statistics lookup failed: %w", err)
	}

	for i := range videos {
		d, ok := details[videos[i].ID]
		if !ok {
			continue
		}
		videos[i].ViewCount = d.viewCount
		videos[i].LikeCount = d.likeCount
		videos[i].CommentCount = d.commentCount
		videos[i].Duration = d.duration
		videos[i].Tags = d.tags
	}

	return videos, nil
}

func (a *Adapter) searchParams(q trend.Query) url.Values {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", q.Keyword)
	params.Set("maxResults", strconv.Itoa(q.MaxResults))
	params.Set("order", a.config.Order)
	params.Set("key", a.config.APIKey)

	if q.Country != "" {
		params.Set("regionCode", strings.ToUpper(string(q.Country)))
	}
	if q.Language != "" {
		params.Set("relevanceLanguage", q.Language)
	}
	if a.platform == trend.PlatformYouTubeShorts {
		params.Set("videoDuration", "short")
	}

	if df := q.DateFilter; df != nil {
		if df.PublishedAfter != nil {
			params.Set("publishedAfter", df.PublishedAfter.UTC().Format(time.RFC3339))
		}
		if df.PublishedBefore != nil {
			params.Set("publishedBefore", df.PublishedBefore.UTC().Format(time.RFC3339))
		}
	}

	return params
}

func (a *Adapter) fetchDetails(ctx context.Context, ids []string) (map[string]videoDetails, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("id", strings.Join(ids, ","))
	params.Set("key", a.config.APIKey)

	body, err := a.client.Get(ctx, "/youtube/v3/videos", params)
	if err != nil {
		return nil, err
	}

	var videosResp videosResponse
	if err := json.Unmarshal(body, &videosResp); err != nil {
		return nil, fmt.Errorf("failed to parse videos response: %w", err)
	}

	details := make(map[string]videoDetails, len(videosResp.Items))
	for _, item := range videosResp.Items {
		details[item.ID] = videoDetails{
			viewCount:    parseCount(item.Statistics.ViewCount),
			likeCount:    parseCount(item.Statistics.LikeCount),
			commentCount: parseCount(item.Statistics.CommentCount),
			duration:     item.ContentDetails.Duration,
			tags:         item.Snippet.Tags,
		}
	}
	return details, nil
}

func (a *Adapter) videoURL(id string) string {
	if a.platform == trend.PlatformYouTubeShorts {
		return "https://www.youtube.com/shorts/" + id
	}
	return "https://www.youtube.com/watch?v=" + id
}

// parseCount returns nil for hidden or missing statistics
func parseCount(s string) *int64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
