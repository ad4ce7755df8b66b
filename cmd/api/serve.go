// cmd/api/serve.go

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trendlab/internal/adapter/messaging"
	"trendlab/internal/adapter/storage"
	"trendlab/internal/domain/trend"
	"trendlab/internal/server"
	"trendlab/internal/server/handlers"
	authmw "trendlab/internal/server/middleware"
	"trendlab/internal/service/collecting"
)

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				logger.Error().Err(err).Msg("Failed to load configuration")
				return err
			}

			// Setup context with cancellation for graceful shutdown
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Initialize dependencies
			db, err := storage.Connect(ctx, storage.PoolConfig{
				DSN:          cfg.Database.DSN(),
				MaxOpenConns: cfg.Database.MaxOpenConns,
				MaxIdleConns: cfg.Database.MaxIdleConns,
				MaxLifetime:  cfg.Database.MaxLifetime,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close()

			if migrate {
				if err := storage.Migrate(ctx, db, "up", &logger); err != nil {
					return fmt.Errorf("failed to apply migrations: %w", err)
				}
			}

			var (
				publisher collecting.EventPublisher
				events    handlers.EventSubscriber
			)
			if !cfg.NATS.Disabled {
				bus, err := messaging.Connect(messaging.Config{
					URL:            cfg.NATS.URL,
					MaxReconnects:  cfg.NATS.MaxReconnects,
					ReconnectWait:  cfg.NATS.ReconnectWait,
					ConnectTimeout: cfg.NATS.ConnectTimeout,
				}, logger)
				if err != nil {
					return fmt.Errorf("failed to connect to NATS: %w", err)
				}
				defer func() {
					if err := bus.Close(); err != nil {
						logger.Warn().Err(err).Msg("NATS drain error")
					}
				}()
				publisher, events = bus, bus
			} else {
				logger.Warn().Msg("NATS disabled, collection events and the WebSocket stream are off")
			}

			// Initialize storage adapters
			trendStore := storage.NewTrendStore(db)
			contentStore := storage.NewContentStore(db)
			creatorStore := storage.NewCreatorStore(db)

			// Initialize services
			aggregator, err := buildAggregator(cfg, logger)
			if err != nil {
				return err
			}

			collectionService := collecting.NewService(
				aggregator,
				trendStore,
				publisher,
				collecting.ServiceConfig{
					Topic:          cfg.NATS.EventsTopic,
					DefaultCountry: trend.Country(cfg.Collector.DefaultCountry),
					PersistTimeout: cfg.Collector.PersistTimeout,
				},
				logger,
			)

			if cfg.Auth.JWTSecret == "" {
				logger.Warn().Msg("AUTH_JWT_SECRET not set, all API requests will be rejected")
			}

			// Initialize HTTP server
			httpServer := server.NewServer(cfg.Server, server.Dependencies{
				Trends:     trendStore,
				Collector:  collectionService,
				Content:    contentStore,
				Creators:   creatorStore,
				Verifier:   authmw.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience, cfg.Auth.Issuer),
				Events:     events,
				EventTopic: cfg.NATS.EventsTopic,
			}, logger)

			// Start HTTP server
			serveErr := make(chan error, 1)
			go func() {
				logger.Info().
					Str("host", cfg.Server.Host).
					Int("port", cfg.Server.Port).
					Interface("platforms", aggregator.Platforms()).
					Msg("Starting HTTP server")
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			// Wait for shutdown signal
			select {
			case err := <-serveErr:
				if err != nil {
					return fmt.Errorf("HTTP server error: %w", err)
				}
			case <-ctx.Done():
				logger.Info().Msg("Shutdown signal received")
			}

			// Create shutdown context with timeout
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("HTTP server shutdown error")
			}

			logger.Info().Msg("Shutdown complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")

	return cmd
}
