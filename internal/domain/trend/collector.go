// internal/domain/trend/collector.go

package trend

import (
	"context"
	"time"
)

// Query is what a platform adapter receives for one keyword search
type Query struct {
	Keyword    string
	MaxResults int
	Country    Country
	Language   string
	DateFilter *DateFilter
}

// RawVideo is a platform-native search hit, before normalization.
// Counts are nil when the upstream did not report them.
type RawVideo struct {
	ID           string
	Title        string
	URL          string
	ThumbnailURL string
	PublishedAt  *time.Time
	Duration     string
	ChannelName  string
	ChannelID    string
	ViewCount    *int64
	LikeCount    *int64
	CommentCount *int64
	Description  string
	Tags         []string
	ClipURL      string
}

// Adapter wraps one upstream search API behind the common raw-record contract
type Adapter interface {
	// Platform returns the platform this adapter searches
	Platform() Platform

	// Source returns the upstream API family the adapter calls
	Source() Source

	// SupportsDateFilter reports whether the upstream filters by publish date
	SupportsDateFilter() bool

	// Search returns at most q.MaxResults raw hits. Zero hits is not an error.
	// Hits returned together with an error are kept as a partial result.
	Search(ctx context.Context, q Query) ([]RawVideo, error)
}

// Collector runs a keyword collection across platform adapters
type Collector interface {
	// Collect fans the keyword out, merges and deduplicates the results
	Collect(ctx context.Context, opts CollectionOptions) (*CollectionResult, error)

	// Platforms returns the platforms that have an adapter, in priority order
	Platforms() []Platform
}

// Repository persists collected trends and collection history
type Repository interface {
	// SaveTrends upserts trends keyed by platform, source and video id
	SaveTrends(ctx context.Context, trends []Trend) error

	// GetTrend returns a stored trend by ID
	GetTrend(ctx context.Context, id string) (*Trend, error)

	// FindTrends returns one page of trends and the total match count
	FindTrends(ctx context.Context, filter Filter) ([]Trend, int, error)

	// SaveRun records a completed collection
	SaveRun(ctx context.Context, run CollectionRun) error

	// FindRuns lists a user's collections, newest first
	FindRuns(ctx context.Context, userID string, limit, offset int) ([]CollectionRun, int, error)
}
