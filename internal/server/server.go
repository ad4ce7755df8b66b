// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"trendlab/internal/config"
	"trendlab/internal/domain/content"
	"trendlab/internal/domain/creator"
	"trendlab/internal/domain/identity"
	"trendlab/internal/domain/trend"
	"trendlab/internal/server/handlers"
	authmw "trendlab/internal/server/middleware"
)

// Dependencies are the services the HTTP API exposes. Events is optional;
// without it the WebSocket stream is not mounted.
type Dependencies struct {
	Trends     trend.Repository
	Collector  handlers.CollectionService
	Content    content.Repository
	Creators   creator.Repository
	Verifier   identity.TokenVerifier
	Events     handlers.EventSubscriber
	EventTopic string
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, deps Dependencies, logger zerolog.Logger) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(authmw.RequestLogger(logger)...)
	router.Use(middleware.Recoverer)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	trendHandler := handlers.NewTrendHandler(deps.Trends, deps.Collector)
	contentHandler := handlers.NewContentHandler(deps.Content)
	creatorHandler := handlers.NewCreatorHandler(deps.Creators)
	authenticate := authmw.Authenticate(deps.Verifier)

	router.Handle("/metrics", promhttp.Handler())

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			r.Use(authenticate)
			if cfg.RequestTimeout > 0 {
				r.Use(middleware.Timeout(cfg.RequestTimeout))
			}

			// Trends API
			r.Route("/trends", func(r chi.Router) {
				r.Get("/", trendHandler.GetTrends)
				r.Get("/platforms", trendHandler.GetPlatforms)
				r.Post("/collect", trendHandler.CollectTrends)
				r.Get("/{id}", trendHandler.GetTrend)
			})

			r.Get("/collections", trendHandler.GetCollections)

			// Content ideas API
			r.Route("/content-ideas", func(r chi.Router) {
				r.Get("/", contentHandler.ListIdeas)
				r.Post("/", contentHandler.CreateIdea)
				r.Get("/{id}", contentHandler.GetIdea)
				r.Delete("/{id}", contentHandler.DeleteIdea)
			})

			// Creators API
			r.Route("/creators", func(r chi.Router) {
				r.Get("/", creatorHandler.ListCreators)
				r.Get("/{id}", creatorHandler.GetCreator)
			})
		})
	})

	// WebSocket endpoint for collection events
	if deps.Events != nil {
		stream := handlers.NewCollectionStreamHandler(deps.Events, deps.EventTopic, cfg.CorsOrigins, handlers.DefaultWebSocketConfig())
		router.With(authenticate).Get("/ws/collections", stream.ServeHTTP)
	}

	// Create HTTP server
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
