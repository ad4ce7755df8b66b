package collecting

import (
	"context"
	"sync"
	"time"

	"trendlab/internal/domain/trend"
)

type fakeAdapter struct {
	platform   trend.Platform
	source     trend.Source
	dateFilter bool
	raws       []trend.RawVideo
	err        error
	delay      time.Duration
	panicMsg   string

	mu      sync.Mutex
	queries []trend.Query
}

func (f *fakeAdapter) Platform() trend.Platform { return f.platform }
func (f *fakeAdapter) Source() trend.Source     { return f.source }
func (f *fakeAdapter) SupportsDateFilter() bool { return f.dateFilter }

func (f *fakeAdapter) Search(ctx context.Context, q trend.Query) ([]trend.RawVideo, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()

	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.raws, f.err
}

func (f *fakeAdapter) lastQuery() trend.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return trend.Query{}
	}
	return f.queries[len(f.queries)-1]
}

func youtubeAdapter(raws ...trend.RawVideo) *fakeAdapter {
	return &fakeAdapter{platform: trend.PlatformYouTube, source: trend.SourceYouTubeAPI, dateFilter: true, raws: raws}
}

func shortsAdapter(raws ...trend.RawVideo) *fakeAdapter {
	return &fakeAdapter{platform: trend.PlatformYouTubeShorts, source: trend.SourceYouTubeAPI, dateFilter: true, raws: raws}
}

func tiktokAdapter(raws ...trend.RawVideo) *fakeAdapter {
	return &fakeAdapter{platform: trend.PlatformTikTok, source: trend.SourceSerpAPI, raws: raws}
}

func instagramAdapter(raws ...trend.RawVideo) *fakeAdapter {
	return &fakeAdapter{platform: trend.PlatformInstagram, source: trend.SourceSerpAPI, raws: raws}
}

func raw(id, title, url string) trend.RawVideo {
	return trend.RawVideo{
		ID:           id,
		Title:        title,
		URL:          url,
		ThumbnailURL: "https://img.example.com/" + id + ".jpg",
	}
}

func count(n int64) *int64 {
	return &n
}

func video(id, title, url string, platform trend.Platform, source trend.Source) trend.NormalizedVideo {
	return trend.NormalizedVideo{
		ID:           id,
		Title:        title,
		Platform:     platform,
		Source:       source,
		VideoURL:     url,
		ThumbnailURL: "https://img.example.com/" + id + ".jpg",
	}
}
