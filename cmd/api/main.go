// cmd/api/main.go

package main

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trendlab/internal/config"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for the trendlab CLI
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "trendlab",
		Short:         "Social video trend collection service",
		Long:          "Trendlab collects trending short-form and long-form videos for a keyword across YouTube, TikTok and Instagram, and serves them to the dashboard.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCollectCmd())
	rootCmd.AddCommand(newMigrateCmd())

	return rootCmd
}

// loadConfig loads configuration and builds the process logger
func loadConfig() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	logger := newLogger(cfg.Environment, cfg.LogLevel)
	return cfg, logger, err
}

func newLogger(appEnv, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if appEnv == "local" || appEnv == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(lvl).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
