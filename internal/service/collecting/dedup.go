package collecting

import (
	"github.com/rs/zerolog"

	"trendlab/internal/domain/trend"
)

// DedupResult holds the surviving videos and how many each pass removed
type DedupResult struct {
	Videos          []trend.NormalizedVideo
	URLDuplicates   int
	TitleDuplicates int
}

// Deduplicate removes records that represent the same video. It is order
// preserving and the first occurrence wins. The URL pass runs first and is
// authoritative; the title pass only sees its survivors and never merges two
// records that share platform and source. Running it on its own output is a
// no-op.
func Deduplicate(videos []trend.NormalizedVideo, opts trend.DedupOptions, logger *zerolog.Logger) DedupResult {
	result := DedupResult{Videos: make([]trend.NormalizedVideo, 0, len(videos))}
	if len(videos) == 0 {
		return result
	}

	survivors := videos
	if opts.ByURL {
		survivors, result.URLDuplicates = dedupByURL(survivors, logger)
	}
	if opts.ByTitle {
		survivors, result.TitleDuplicates = dedupByTitle(survivors, opts.TitleSimilarityThreshold, logger)
	}

	result.Videos = append(result.Videos, survivors...)
	return result
}

func dedupByURL(videos []trend.NormalizedVideo, logger *zerolog.Logger) ([]trend.NormalizedVideo, int) {
	kept := make([]trend.NormalizedVideo, 0, len(videos))
	index := make(map[string]int, len(videos))
	dropped := 0

	for _, v := range videos {
		key, ok := CanonicalURL(v.VideoURL)
		if !ok {
			key = v.VideoURL
		}

		if i, seen := index[key]; seen {
			kept[i] = backfill(kept[i], v)
			dropped++
			if logger != nil {
				logger.Debug().
					Str("skipped_id", v.ID).
					Str("duplicate_of", kept[i].ID).
					Str("url", key).
					Msg("Dropping url duplicate")
			}
			continue
		}

		index[key] = len(kept)
		kept = append(kept, v)
	}
	return kept, dropped
}

func dedupByTitle(videos []trend.NormalizedVideo, threshold float64, logger *zerolog.Logger) ([]trend.NormalizedVideo, int) {
	kept := make([]trend.NormalizedVideo, 0, len(videos))
	keptTitles := make([]string, 0, len(videos))
	dropped := 0

	for _, v := range videos {
		title := NormalizeTitle(v.Title)
		duplicateOf := -1

		for i, k := range kept {
			if k.Platform == v.Platform && k.Source == v.Source {
				continue
			}
			if title == "" || keptTitles[i] == "" {
				continue
			}
			if normalizedSimilarity(title, keptTitles[i]) >= threshold {
				duplicateOf = i
				break
			}
		}

		if duplicateOf >= 0 {
			dropped++
			if logger != nil {
				logger.Debug().
					Str("skipped_id", v.ID).
					Str("duplicate_of", kept[duplicateOf].ID).
					Msg("Dropping title duplicate")
			}
			continue
		}

		kept = append(kept, v)
		keptTitles = append(keptTitles, title)
	}
	return kept, dropped
}

// backfill copies optional fields from dup into kept where kept has none.
// Present values are never overwritten.
func backfill(kept, dup trend.NormalizedVideo) trend.NormalizedVideo {
	if kept.ThumbnailURL == "" {
		kept.ThumbnailURL = dup.ThumbnailURL
	}
	if kept.PublishedAt == nil {
		kept.PublishedAt = dup.PublishedAt
	}
	if kept.Duration == "" {
		kept.Duration = dup.Duration
	}
	if kept.CreatorName == "" {
		kept.CreatorName = dup.CreatorName
	}
	if kept.CreatorID == "" {
		kept.CreatorID = dup.CreatorID
	}
	if kept.ViewCount == nil {
		kept.ViewCount = dup.ViewCount
	}
	if kept.LikeCount == nil {
		kept.LikeCount = dup.LikeCount
	}
	if kept.CommentCount == nil {
		kept.CommentCount = dup.CommentCount
	}
	if kept.Description == "" {
		kept.Description = dup.Description
	}
	if len(kept.Tags) == 0 {
		kept.Tags = dup.Tags
	}
	if kept.ClipURL == "" {
		kept.ClipURL = dup.ClipURL
	}
	return kept
}
