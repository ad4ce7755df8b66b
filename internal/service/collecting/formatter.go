package collecting

import (
	"time"

	"trendlab/internal/domain/trend"
)

// formatResult builds the response envelope. Videos and Breakdown are always
// non-nil so they serialise as [] and {}.
func formatResult(keyword string, videos []trend.NormalizedVideo, failures []*trend.AdapterError, now time.Time) trend.CollectionResult {
	if videos == nil {
		videos = []trend.NormalizedVideo{}
	}

	breakdown := make(map[trend.Platform]int)
	for _, v := range videos {
		breakdown[v.Platform]++
	}

	result := trend.CollectionResult{
		Keyword:     keyword,
		TotalVideos: len(videos),
		Videos:      videos,
		Breakdown:   breakdown,
		CollectedAt: now.UTC(),
	}

	for _, f := range failures {
		result.Errors = append(result.Errors, trend.CollectionError{
			Platform: f.Platform,
			Source:   f.Source,
			Error:    f.Err.Error(),
		})
	}

	return result
}
