// internal/service/collecting/service.go

package collecting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"trendlab/internal/domain/trend"
)

// ServiceConfig contains configuration for the collection service
type ServiceConfig struct {
	Topic          string
	DefaultCountry trend.Country
	PersistTimeout time.Duration
}

// Service runs collections for the API and CLI and records their results.
// The repository and publisher are optional.
type Service struct {
	collector trend.Collector
	repo      trend.Repository
	publisher EventPublisher
	config    ServiceConfig
	logger    zerolog.Logger
}

// NewService creates a new collection service
func NewService(
	collector trend.Collector,
	repo trend.Repository,
	publisher EventPublisher,
	config ServiceConfig,
	logger zerolog.Logger,
) *Service {
	if config.Topic == "" {
		config.Topic = DefaultTopic
	}
	if config.DefaultCountry == "" {
		config.DefaultCountry = trend.CountryKR
	}
	if config.PersistTimeout <= 0 {
		config.PersistTimeout = 5 * time.Second
	}

	return &Service{
		collector: collector,
		repo:      repo,
		publisher: publisher,
		config:    config,
		logger:    logger.With().Str("component", "collection_service").Logger(),
	}
}

// Platforms returns the platforms the underlying collector can search
func (s *Service) Platforms() []trend.Platform {
	return s.collector.Platforms()
}

// Collect runs one collection on behalf of userID. Recording the run and
// publishing the event are best effort: their failures are logged and the
// result is returned regardless.
func (s *Service) Collect(ctx context.Context, userID string, opts trend.CollectionOptions) (*trend.CollectionResult, error) {
	result, err := s.collector.Collect(ctx, opts)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	country := trend.Country(strings.ToUpper(string(opts.Country)))
	if country == "" {
		country = s.config.DefaultCountry
	}

	// The caller may hang up as soon as it has the result.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.PersistTimeout)
	defer cancel()

	s.persist(pctx, runID, userID, country, result)
	s.publish(runID, userID, result)

	return result, nil
}

// History lists a user's previous collections, newest first
func (s *Service) History(ctx context.Context, userID string, limit, offset int) ([]trend.CollectionRun, int, error) {
	if s.repo == nil {
		return []trend.CollectionRun{}, 0, nil
	}
	runs, total, err := s.repo.FindRuns(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error finding collection runs: %w", err)
	}
	return runs, total, nil
}

func (s *Service) persist(ctx context.Context, runID, userID string, country trend.Country, result *trend.CollectionResult) {
	if s.repo == nil {
		return
	}

	if len(result.Videos) > 0 {
		trends := make([]trend.Trend, 0, len(result.Videos))
		for _, v := range result.Videos {
			trends = append(trends, trend.FromVideo(result.Keyword, country, v))
		}
		if err := s.repo.SaveTrends(ctx, trends); err != nil {
			s.logger.Error().Err(err).Str("run_id", runID).Msg("Failed to save collected trends")
		}
	}

	run := trend.CollectionRun{
		ID:          runID,
		UserID:      userID,
		Keyword:     result.Keyword,
		TotalVideos: result.TotalVideos,
		Breakdown:   result.Breakdown,
		Errors:      result.Errors,
		CollectedAt: result.CollectedAt,
	}
	if run.Errors == nil {
		run.Errors = []trend.CollectionError{}
	}
	if err := s.repo.SaveRun(ctx, run); err != nil {
		s.logger.Error().Err(err).Str("run_id", runID).Msg("Failed to save collection run")
	}
}

func (s *Service) publish(runID, userID string, result *trend.CollectionResult) {
	if s.publisher == nil {
		return
	}

	data, err := newCollectedEvent(runID, userID, result).encode()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode collected event")
		return
	}

	subject := CollectedSubject(s.config.Topic, userID)
	if userID == "" {
		subject = CollectedSubject(s.config.Topic, "anonymous")
	}
	if err := s.publisher.Publish(subject, data); err != nil {
		s.logger.Warn().Err(err).Str("subject", subject).Msg("Failed to publish collected event")
	}
}
