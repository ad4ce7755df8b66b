// cmd/api/wire.go

package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"trendlab/internal/adapter/serpapi"
	"trendlab/internal/adapter/youtube"
	"trendlab/internal/config"
	"trendlab/internal/domain/trend"
	"trendlab/internal/service/collecting"
)

// buildAdapters creates one adapter per platform whose upstream key is set
func buildAdapters(cfg config.Config, logger zerolog.Logger) []trend.Adapter {
	var adapters []trend.Adapter

	if cfg.YouTube.APIKey != "" {
		ytConfig := youtube.Config{
			APIKey:    cfg.YouTube.APIKey,
			BaseURL:   cfg.YouTube.BaseURL,
			Order:     cfg.YouTube.Order,
			RateLimit: cfg.YouTube.RateLimit,
		}
		adapters = append(adapters, youtube.NewLongForm(ytConfig), youtube.NewShorts(ytConfig))
	} else {
		logger.Warn().Msg("YOUTUBE_API_KEY not set, YouTube platforms disabled")
	}

	if cfg.SerpAPI.APIKey != "" {
		serpConfig := serpapi.Config{
			APIKey:    cfg.SerpAPI.APIKey,
			BaseURL:   cfg.SerpAPI.BaseURL,
			RateLimit: cfg.SerpAPI.RateLimit,
		}
		adapters = append(adapters, serpapi.NewTikTok(serpConfig), serpapi.NewInstagram(serpConfig))
	} else {
		logger.Warn().Msg("SERPAPI_API_KEY not set, TikTok and Instagram disabled")
	}

	return adapters
}

// parsePriority turns the configured platform names into a priority table
func parsePriority(names []string) ([]trend.Platform, error) {
	priority := make([]trend.Platform, 0, len(names))
	for _, name := range names {
		p := trend.Platform(strings.ToLower(strings.TrimSpace(name)))
		if p == "" {
			continue
		}
		if !p.Valid() {
			return nil, fmt.Errorf("unknown platform %q in COLLECTOR_PRIORITY", name)
		}
		priority = append(priority, p)
	}
	return priority, nil
}

// buildAggregator wires the configured adapters into an aggregator
func buildAggregator(cfg config.Config, logger zerolog.Logger) (*collecting.Aggregator, error) {
	priority, err := parsePriority(cfg.Collector.Priority)
	if err != nil {
		return nil, err
	}

	adapters := buildAdapters(cfg, logger)
	if len(adapters) == 0 {
		logger.Warn().Msg("No platform adapters configured, collections will return no videos")
	}

	return collecting.NewAggregator(adapters, collecting.AggregatorConfig{
		AdapterTimeout:    cfg.Collector.AdapterTimeout,
		MaxConcurrent:     cfg.Collector.MaxConcurrent,
		DefaultMaxResults: cfg.Collector.DefaultMaxResults,
		DefaultCountry:    trend.Country(cfg.Collector.DefaultCountry),
		Priority:          priority,
	}, logger), nil
}
