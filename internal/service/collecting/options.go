package collecting

import (
	"fmt"
	"slices"
	"strings"

	"trendlab/internal/domain/geo"
	"trendlab/internal/domain/trend"
)

const (
	defaultMaxResults = 10
	maxResultsLimit   = 50
)

// request is a validated collection with its platform set resolved once
type request struct {
	keyword    string
	maxResults int
	platforms  []trend.Platform
	locale     geo.Locale
	dateFilter *trend.DateFilter
	dedup      trend.DedupOptions
}

func (a *Aggregator) resolve(opts trend.CollectionOptions) (request, error) {
	req := request{
		keyword:    strings.TrimSpace(opts.Keyword),
		maxResults: opts.MaxResults,
		dedup:      trend.DefaultDedupOptions(),
	}

	if req.keyword == "" {
		return request{}, &trend.ValidationError{Field: "keyword", Reason: "must not be empty"}
	}

	switch {
	case req.maxResults < 0:
		return request{}, &trend.ValidationError{Field: "maxResults", Reason: "must not be negative"}
	case req.maxResults == 0:
		req.maxResults = a.config.DefaultMaxResults
	case req.maxResults > maxResultsLimit:
		req.maxResults = maxResultsLimit
	}

	platforms, err := a.selectPlatforms(opts)
	if err != nil {
		return request{}, err
	}
	req.platforms = platforms

	country := opts.Country
	if country == "" {
		country = a.config.DefaultCountry
	}
	country = trend.Country(strings.ToUpper(string(country)))
	if !country.Valid() {
		return request{}, &trend.ValidationError{Field: "country", Reason: fmt.Sprintf("unsupported country %q", opts.Country)}
	}
	req.locale = geo.Resolve(country, opts.Language)

	if df := opts.DateFilter; df != nil {
		if df.PublishedAfter != nil && df.PublishedBefore != nil && df.PublishedAfter.After(*df.PublishedBefore) {
			return request{}, &trend.ValidationError{Field: "dateFilter", Reason: "publishedAfter is later than publishedBefore"}
		}
		if df.PublishedAfter != nil || df.PublishedBefore != nil {
			req.dateFilter = df
		}
	}

	if opts.Dedup != nil {
		if t := opts.Dedup.TitleSimilarityThreshold; t < 0 || t > 1 {
			return request{}, &trend.ValidationError{Field: "dedup.titleSimilarityThreshold", Reason: "must be within [0,1]"}
		}
		req.dedup = *opts.Dedup
	}

	return req, nil
}

// selectPlatforms unions the explicit platform list with the boolean
// shorthands and returns the result in priority order. With neither given,
// every platform that has an adapter is selected. Requested platforms
// without an adapter stay in the selection and fail during fan-out, after
// the wired ones of equal rank.
func (a *Aggregator) selectPlatforms(opts trend.CollectionOptions) ([]trend.Platform, error) {
	selected := make(map[trend.Platform]bool)

	for _, p := range opts.Platforms {
		p = trend.Platform(strings.ToLower(strings.TrimSpace(string(p))))
		if !p.Valid() {
			return nil, &trend.ValidationError{Field: "platforms", Reason: fmt.Sprintf("unknown platform %q", p)}
		}
		selected[p] = true
	}

	shorthand := func(enabled bool, platforms ...trend.Platform) {
		if !enabled {
			return
		}
		for _, p := range platforms {
			selected[p] = true
		}
	}
	shorthand(opts.IncludeYouTube, trend.PlatformYouTube, trend.PlatformYouTubeShorts)
	shorthand(opts.IncludeTikTok, trend.PlatformTikTok)
	shorthand(opts.IncludeInstagram, trend.PlatformInstagram)

	anyRequested := len(opts.Platforms) > 0 || opts.IncludeYouTube || opts.IncludeTikTok || opts.IncludeInstagram
	if !anyRequested {
		return append([]trend.Platform(nil), a.order...), nil
	}

	out := make([]trend.Platform, 0, len(selected))
	ranking := slices.Concat(a.order, a.config.Priority, trend.DefaultPriority)
	for _, p := range ranking {
		if selected[p] {
			out = append(out, p)
			delete(selected, p)
		}
	}
	return out, nil
}
