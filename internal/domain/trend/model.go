package trend

import (
	"encoding/json"
	"time"
)

// Platform identifies the video platform a record was discovered on
type Platform string

const (
	PlatformYouTube       Platform = "youtube"
	PlatformYouTubeShorts Platform = "youtube_shorts"
	PlatformTikTok        Platform = "tiktok"
	PlatformInstagram     Platform = "instagram"
	PlatformOther         Platform = "other"
)

// DefaultPriority is the merge order used when no priority table is configured.
// Long-form video comes first.
var DefaultPriority = []Platform{
	PlatformYouTube,
	PlatformYouTubeShorts,
	PlatformTikTok,
	PlatformInstagram,
	PlatformOther,
}

// Valid reports whether p is a known platform
func (p Platform) Valid() bool {
	switch p {
	case PlatformYouTube, PlatformYouTubeShorts, PlatformTikTok, PlatformInstagram, PlatformOther:
		return true
	}
	return false
}

// Source identifies which upstream API family produced a record
type Source string

const (
	SourceYouTubeAPI Source = "youtube_api"
	SourceSerpAPI    Source = "serpapi"
)

// DefaultSource is the API family that normally serves p
func (p Platform) DefaultSource() Source {
	switch p {
	case PlatformYouTube, PlatformYouTubeShorts:
		return SourceYouTubeAPI
	}
	return SourceSerpAPI
}

// NormalizedVideo is the canonical representation of one discovered video,
// decoupled from its origin platform. ID is unique only within Platform+Source.
type NormalizedVideo struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Platform     Platform   `json:"platform"`
	ThumbnailURL string     `json:"thumbnailUrl"`
	VideoURL     string     `json:"videoUrl"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
	Duration     string     `json:"duration,omitempty"`
	CreatorName  string     `json:"creatorName,omitempty"`
	CreatorID    string     `json:"creatorId,omitempty"`
	ViewCount    *int64     `json:"viewCount,omitempty"`
	LikeCount    *int64     `json:"likeCount,omitempty"`
	CommentCount *int64     `json:"commentCount,omitempty"`
	Description  string     `json:"description,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	ClipURL      string     `json:"clipUrl,omitempty"`
	CollectedAt  time.Time  `json:"collectedAt"`
	Source       Source     `json:"source"`
}

// DateFilter restricts results by publication time. Only adapters that
// support server-side filtering honour it.
type DateFilter struct {
	PublishedAfter  *time.Time `json:"publishedAfter,omitempty"`
	PublishedBefore *time.Time `json:"publishedBefore,omitempty"`
}

// DedupOptions tunes the deduplicator
type DedupOptions struct {
	ByURL                    bool    `json:"byUrl"`
	ByTitle                  bool    `json:"byTitle"`
	TitleSimilarityThreshold float64 `json:"titleSimilarityThreshold"`
}

// DefaultDedupOptions returns URL-only deduplication with a 0.9 title threshold
func DefaultDedupOptions() DedupOptions {
	return DedupOptions{
		ByURL:                    true,
		ByTitle:                  false,
		TitleSimilarityThreshold: 0.9,
	}
}

// UnmarshalJSON fills absent fields with their defaults.
func (o *DedupOptions) UnmarshalJSON(data []byte) error {
	type plain DedupOptions
	opts := plain(DefaultDedupOptions())
	if err := json.Unmarshal(data, &opts); err != nil {
		return err
	}
	*o = DedupOptions(opts)
	return nil
}

// CollectionOptions is the per-request configuration of a trend collection
type CollectionOptions struct {
	Keyword          string        `json:"keyword"`
	MaxResults       int           `json:"maxResults,omitempty"`
	Platforms        []Platform    `json:"platforms,omitempty"`
	IncludeYouTube   bool          `json:"includeYouTube,omitempty"`
	IncludeTikTok    bool          `json:"includeTikTok,omitempty"`
	IncludeInstagram bool          `json:"includeInstagram,omitempty"`
	Country          Country       `json:"country,omitempty"`
	Language         string        `json:"language,omitempty"`
	DateFilter       *DateFilter   `json:"dateFilter,omitempty"`
	Dedup            *DedupOptions `json:"dedup,omitempty"`
}

// CollectionError reports one adapter that failed or partially failed
type CollectionError struct {
	Platform Platform `json:"platform"`
	Source   Source   `json:"source"`
	Error    string   `json:"error"`
}

// CollectionResult is the response envelope of a trend collection.
// TotalVideos == len(Videos) == sum(Breakdown).
type CollectionResult struct {
	Keyword     string            `json:"keyword"`
	TotalVideos int               `json:"totalVideos"`
	Videos      []NormalizedVideo `json:"videos"`
	Breakdown   map[Platform]int  `json:"breakdown"`
	CollectedAt time.Time         `json:"collectedAt"`
	Errors      []CollectionError `json:"errors,omitempty"`
}

// Trend is a collected video persisted for the dashboard
type Trend struct {
	ID           string     `json:"id"`
	Keyword      string     `json:"keyword"`
	Platform     Platform   `json:"platform"`
	Source       Source     `json:"source"`
	VideoID      string     `json:"video_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	VideoURL     string     `json:"video_url"`
	ThumbnailURL string     `json:"thumbnail_url"`
	CreatorName  string     `json:"creator_name,omitempty"`
	CreatorID    string     `json:"creator_id,omitempty"`
	ViewCount    *int64     `json:"view_count,omitempty"`
	LikeCount    *int64     `json:"like_count,omitempty"`
	CommentCount *int64     `json:"comment_count,omitempty"`
	Tags         []string   `json:"tags"`
	Country      Country    `json:"country,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	CollectedAt  time.Time  `json:"collected_at"`
}

// FromVideo converts a collected video into a storable trend record
func FromVideo(keyword string, country Country, v NormalizedVideo) Trend {
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}
	return Trend{
		Keyword:      keyword,
		Platform:     v.Platform,
		Source:       v.Source,
		VideoID:      v.ID,
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		CreatorName:  v.CreatorName,
		CreatorID:    v.CreatorID,
		ViewCount:    v.ViewCount,
		LikeCount:    v.LikeCount,
		CommentCount: v.CommentCount,
		Tags:         tags,
		Country:      country,
		PublishedAt:  v.PublishedAt,
		CollectedAt:  v.CollectedAt,
	}
}

// CollectionRun records one completed collection for history views
type CollectionRun struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Keyword     string            `json:"keyword"`
	TotalVideos int               `json:"total_videos"`
	Breakdown   map[Platform]int  `json:"breakdown"`
	Errors      []CollectionError `json:"errors"`
	CollectedAt time.Time         `json:"collected_at"`
}

// Filter defines criteria for listing stored trends
type Filter struct {
	Keyword  string
	Platform Platform
	Country  Country
	Sort     string
	Desc     bool
	Limit    int
	Offset   int
}
