package collecting

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"trendlab/internal/domain/trend"
)

// NormalizationWarning describes a raw record that was dropped
type NormalizationWarning struct {
	Platform trend.Platform
	Source   trend.Source
	RecordID string
	Reason   string
}

func (w *NormalizationWarning) Error() string {
	return fmt.Sprintf("dropped %s record %q from %s: %s", w.Platform, w.RecordID, w.Source, w.Reason)
}

// Normalize maps one raw hit onto the canonical record. Platform and source
// come from the adapter, never from the payload, and CollectedAt is the
// normalization time. Unreported counts stay nil.
func Normalize(platform trend.Platform, source trend.Source, raw trend.RawVideo, now time.Time) (trend.NormalizedVideo, error) {
	id := strings.TrimSpace(raw.ID)
	warn := func(reason string) error {
		return &NormalizationWarning{Platform: platform, Source: source, RecordID: id, Reason: reason}
	}

	if id == "" {
		return trend.NormalizedVideo{}, warn("missing id")
	}

	title := cleanText(raw.Title)
	if title == "" {
		return trend.NormalizedVideo{}, warn("missing title")
	}

	videoURL := strings.TrimSpace(raw.URL)
	if !isAbsoluteHTTP(videoURL) {
		return trend.NormalizedVideo{}, warn("video url is not an absolute http(s) url")
	}

	thumbnailURL := strings.TrimSpace(raw.ThumbnailURL)
	if !isAbsoluteHTTP(thumbnailURL) {
		return trend.NormalizedVideo{}, warn("thumbnail url is not an absolute http(s) url")
	}

	v := trend.NormalizedVideo{
		ID:           id,
		Title:        title,
		Platform:     platform,
		ThumbnailURL: thumbnailURL,
		VideoURL:     videoURL,
		Duration:     strings.TrimSpace(raw.Duration),
		CreatorName:  cleanText(raw.ChannelName),
		CreatorID:    strings.TrimSpace(raw.ChannelID),
		ViewCount:    copyCount(raw.ViewCount),
		LikeCount:    copyCount(raw.LikeCount),
		CommentCount: copyCount(raw.CommentCount),
		Description:  cleanText(raw.Description),
		Tags:         cleanTags(raw.Tags),
		CollectedAt:  now,
		Source:       source,
	}

	if raw.PublishedAt != nil && !raw.PublishedAt.IsZero() {
		published := raw.PublishedAt.UTC()
		v.PublishedAt = &published
	}

	if clip := strings.TrimSpace(raw.ClipURL); isAbsoluteHTTP(clip) {
		v.ClipURL = clip
	}

	return v, nil
}

// NormalizeBatch normalizes an adapter's output, dropping malformed records
// with a warning instead of failing the batch.
func NormalizeBatch(adapter trend.Adapter, raws []trend.RawVideo, now time.Time, logger zerolog.Logger) []trend.NormalizedVideo {
	out := make([]trend.NormalizedVideo, 0, len(raws))
	for _, raw := range raws {
		v, err := Normalize(adapter.Platform(), adapter.Source(), raw, now)
		if err != nil {
			normalizationDropped.WithLabelValues(string(adapter.Platform())).Inc()
			logger.Warn().
				Err(err).
				Str("platform", string(adapter.Platform())).
				Str("source", string(adapter.Source())).
				Msg("Dropping malformed record")
			continue
		}
		out = append(out, v)
	}
	return out
}

func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}

func cleanTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func copyCount(n *int64) *int64 {
	if n == nil || *n < 0 {
		return nil
	}
	v := *n
	return &v
}

func isAbsoluteHTTP(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
