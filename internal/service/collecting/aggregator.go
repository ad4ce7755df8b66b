// internal/service/collecting/aggregator.go

package collecting

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"trendlab/internal/domain/trend"
)

// Collection states, logged as a request moves through the aggregator
const (
	stateFanningOut = "fanning-out"
	stateMerging    = "merging"
	stateComplete   = "complete"
)

// AggregatorConfig contains configuration for the aggregator
type AggregatorConfig struct {
	AdapterTimeout    time.Duration
	MaxConcurrent     int
	DefaultMaxResults int
	DefaultCountry    trend.Country
	Priority          []trend.Platform
}

// Aggregator implements the trend.Collector interface
type Aggregator struct {
	adapters map[trend.Platform]trend.Adapter
	order    []trend.Platform
	config   AggregatorConfig
	logger   zerolog.Logger
	now      func() time.Time
}

// outcome is one adapter's buffered result
type outcome struct {
	videos []trend.NormalizedVideo
	err    *trend.AdapterError
}

// NewAggregator creates a new aggregator over the given adapters. Platforms
// missing from the priority table are merged after the listed ones, in
// registration order.
func NewAggregator(adapters []trend.Adapter, config AggregatorConfig, logger zerolog.Logger) *Aggregator {
	if config.AdapterTimeout <= 0 {
		config.AdapterTimeout = 10 * time.Second
	}
	if config.DefaultMaxResults <= 0 {
		config.DefaultMaxResults = defaultMaxResults
	}
	if config.DefaultCountry == "" {
		config.DefaultCountry = trend.CountryKR
	}
	if len(config.Priority) == 0 {
		config.Priority = trend.DefaultPriority
	}

	a := &Aggregator{
		adapters: make(map[trend.Platform]trend.Adapter, len(adapters)),
		config:   config,
		logger:   logger.With().Str("component", "aggregator").Logger(),
		now:      time.Now,
	}

	registered := make([]trend.Platform, 0, len(adapters))
	for _, adapter := range adapters {
		if _, dup := a.adapters[adapter.Platform()]; dup {
			continue
		}
		a.adapters[adapter.Platform()] = adapter
		registered = append(registered, adapter.Platform())
	}

	for _, p := range config.Priority {
		if _, ok := a.adapters[p]; ok && !slices.Contains(a.order, p) {
			a.order = append(a.order, p)
		}
	}
	for _, p := range registered {
		if !slices.Contains(a.order, p) {
			a.order = append(a.order, p)
		}
	}

	return a
}

// Platforms returns the platforms that have an adapter, in priority order
func (a *Aggregator) Platforms() []trend.Platform {
	return append([]trend.Platform(nil), a.order...)
}

// Collect fans the keyword out to the selected adapters, waits for all of
// them, then merges and deduplicates. Adapter failures are reported in the
// result; only invalid options or caller cancellation return an error.
func (a *Aggregator) Collect(ctx context.Context, opts trend.CollectionOptions) (*trend.CollectionResult, error) {
	req, err := a.resolve(opts)
	if err != nil {
		return nil, err
	}

	logger := a.logger.With().Str("keyword", req.keyword).Logger()
	logger.Debug().
		Str("state", stateFanningOut).
		Interface("platforms", req.platforms).
		Int("max_results", req.maxResults).
		Msg("Collecting trends")

	outcomes := a.fanOut(ctx, req, logger)

	if err := ctx.Err(); err != nil {
		collectionsTotal.WithLabelValues("cancelled").Inc()
		return nil, fmt.Errorf("collection cancelled: %w", err)
	}

	logger.Debug().Str("state", stateMerging).Msg("Merging adapter results")

	merged := make([]trend.NormalizedVideo, 0, len(outcomes)*req.maxResults)
	var failures []*trend.AdapterError
	for _, o := range outcomes {
		merged = append(merged, o.videos...)
		if o.err != nil {
			failures = append(failures, o.err)
		}
	}

	deduped := Deduplicate(merged, req.dedup, &logger)
	duplicatesRemoved.WithLabelValues("url").Add(float64(deduped.URLDuplicates))
	duplicatesRemoved.WithLabelValues("title").Add(float64(deduped.TitleDuplicates))

	result := formatResult(req.keyword, deduped.Videos, failures, a.now())

	switch {
	case len(failures) == 0:
		collectionsTotal.WithLabelValues("ok").Inc()
	case len(failures) == len(outcomes):
		collectionsTotal.WithLabelValues("failed").Inc()
	default:
		collectionsTotal.WithLabelValues("partial").Inc()
	}

	logger.Debug().
		Str("state", stateComplete).
		Int("total_videos", result.TotalVideos).
		Int("url_duplicates", deduped.URLDuplicates).
		Int("title_duplicates", deduped.TitleDuplicates).
		Int("errors", len(failures)).
		Msg("Collection complete")

	return &result, nil
}

// fanOut runs every selected adapter concurrently and buffers each outcome
// in its platform's slot. Nothing is merged until all slots are filled.
func (a *Aggregator) fanOut(ctx context.Context, req request, logger zerolog.Logger) []outcome {
	outcomes := make([]outcome, len(req.platforms))

	var g errgroup.Group
	if a.config.MaxConcurrent > 0 {
		g.SetLimit(a.config.MaxConcurrent)
	}

	for i, platform := range req.platforms {
		adapter, ok := a.adapters[platform]
		if !ok {
			outcomes[i] = notConfigured(platform, logger)
			continue
		}
		g.Go(func() error {
			outcomes[i] = a.runAdapter(ctx, adapter, req, logger)
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}

func notConfigured(platform trend.Platform, logger zerolog.Logger) outcome {
	source := platform.DefaultSource()
	logger.Warn().
		Str("platform", string(platform)).
		Str("source", string(source)).
		Msg("Requested platform has no adapter")
	adapterRequests.WithLabelValues(string(platform), string(source), "not_configured").Inc()

	return outcome{err: &trend.AdapterError{Platform: platform, Source: source, Err: trend.ErrNotConfigured}}
}

type searchResult struct {
	raws []trend.RawVideo
	err  error
}

func (a *Aggregator) runAdapter(ctx context.Context, adapter trend.Adapter, req request, logger zerolog.Logger) outcome {
	platform, source := adapter.Platform(), adapter.Source()
	start := time.Now()

	actx, cancel := context.WithTimeout(ctx, a.config.AdapterTimeout)
	defer cancel()

	query := trend.Query{
		Keyword:    req.keyword,
		MaxResults: req.maxResults,
		Country:    req.locale.Country,
		Language:   req.locale.LanguageCode(),
	}
	if adapter.SupportsDateFilter() {
		query.DateFilter = req.dateFilter
	}

	done := make(chan searchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- searchResult{err: fmt.Errorf("adapter panic: %v", r)}
			}
		}()
		raws, err := adapter.Search(actx, query)
		done <- searchResult{raws: raws, err: err}
	}()

	var res searchResult
	select {
	case res = <-done:
	case <-actx.Done():
		res.err = actx.Err()
	}

	if errors.Is(res.err, context.DeadlineExceeded) && ctx.Err() == nil {
		res.err = fmt.Errorf("timed out after %s: %w", a.config.AdapterTimeout, res.err)
	}

	adapterLatency.WithLabelValues(string(platform)).Observe(time.Since(start).Seconds())

	if len(res.raws) > req.maxResults {
		res.raws = res.raws[:req.maxResults]
	}

	out := outcome{videos: NormalizeBatch(adapter, res.raws, a.now(), logger)}

	status := "ok"
	if res.err != nil {
		status = "error"
		if len(out.videos) > 0 {
			status = "partial"
		}
		out.err = &trend.AdapterError{Platform: platform, Source: source, Err: res.err}
		logger.Warn().
			Err(res.err).
			Str("platform", string(platform)).
			Str("source", string(source)).
			Int("videos", len(out.videos)).
			Msg("Platform adapter failed")
	}
	adapterRequests.WithLabelValues(string(platform), string(source), status).Inc()

	return out
}
