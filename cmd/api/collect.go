// cmd/api/collect.go

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"trendlab/internal/domain/trend"
	"trendlab/internal/service/collecting"
)

func newCollectCmd() *cobra.Command {
	var (
		platforms  []string
		country    string
		maxResults int
		byTitle    bool
		threshold  float64
		after      string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "collect <keyword>",
		Short: "Run one collection and print the result as JSON",
		Long:  "Collect trending videos for a keyword across the configured platforms without touching the database or the event bus.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			aggregator, err := buildAggregator(cfg, logger)
			if err != nil {
				return err
			}

			service := collecting.NewService(aggregator, nil, nil, collecting.ServiceConfig{
				DefaultCountry: trend.Country(cfg.Collector.DefaultCountry),
			}, logger)

			opts := trend.CollectionOptions{
				Keyword:    args[0],
				MaxResults: maxResults,
				Country:    trend.Country(country),
			}
			for _, p := range platforms {
				opts.Platforms = append(opts.Platforms, trend.Platform(p))
			}
			if byTitle {
				dedup := trend.DefaultDedupOptions()
				dedup.ByTitle = true
				if threshold > 0 {
					dedup.TitleSimilarityThreshold = threshold
				}
				opts.Dedup = &dedup
			}
			if after != "" {
				t, err := time.Parse(time.RFC3339, after)
				if err != nil {
					return fmt.Errorf("invalid --published-after: %w", err)
				}
				opts.DateFilter = &trend.DateFilter{PublishedAfter: &t}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			result, err := service.Collect(ctx, "", opts)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringSliceVarP(&platforms, "platforms", "p", nil, "platforms to search (youtube, youtube_shorts, tiktok, instagram); all when empty")
	cmd.Flags().StringVarP(&country, "country", "c", "", "market to tune results for (KR, JP, US)")
	cmd.Flags().IntVarP(&maxResults, "max-results", "n", 0, "results per platform")
	cmd.Flags().BoolVar(&byTitle, "dedup-title", false, "also drop near-identical titles")
	cmd.Flags().Float64Var(&threshold, "title-threshold", 0, "title similarity threshold for --dedup-title")
	cmd.Flags().StringVar(&after, "published-after", "", "only videos published after this RFC 3339 time")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "overall collection deadline")

	return cmd
}
