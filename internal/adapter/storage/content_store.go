// internal/adapter/storage/content_store.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"trendlab/internal/domain/content"
)

const ideaColumns = `
	id, trend_id, title, hook, script, platform, tags,
	scene_structure, expected_performance, created_at`

// ContentStore implements content.Repository on PostgreSQL
type ContentStore struct {
	db DBTX
}

// NewContentStore creates a new content idea store
func NewContentStore(db DBTX) *ContentStore {
	return &ContentStore{db: db}
}

// FindIdeas returns one page of ideas, newest first
func (s *ContentStore) FindIdeas(ctx context.Context, filter content.Filter) ([]content.Idea, int, error) {
	var where whereBuilder
	if filter.Keyword != "" {
		where.add("(title ILIKE ? OR hook ILIKE ?)", likePattern(filter.Keyword))
	}
	if filter.Platform != "" {
		where.add("platform = ?", filter.Platform)
	}
	if filter.TrendID != "" {
		where.add("trend_id = ?", filter.TrendID)
	}

	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM content_ideas"+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting content ideas: %w", err)
	}

	pageSQL, args := where.page("created_at DESC, id ASC", filter.Limit, filter.Offset)
	rows, err := s.db.Query(ctx, `SELECT`+ideaColumns+` FROM content_ideas`+where.sql()+pageSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	ideas := []content.Idea{}
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, 0, err
		}
		ideas = append(ideas, idea)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating content ideas: %w", err)
	}

	return ideas, total, nil
}

// GetIdea retrieves an idea by ID
func (s *ContentStore) GetIdea(ctx context.Context, id string) (*content.Idea, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, content.ErrNotFound
	}

	idea, err := scanIdea(s.db.QueryRow(ctx, `SELECT`+ideaColumns+` FROM content_ideas WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, content.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &idea, nil
}

// CreateIdea inserts a new idea. ID and CreatedAt must already be set.
func (s *ContentStore) CreateIdea(ctx context.Context, idea content.Idea) error {
	scenes, err := content.EncodeSceneStructure(idea.SceneStructure)
	if err != nil {
		return fmt.Errorf("error encoding scene structure: %w", err)
	}
	perf, err := content.EncodeExpectedPerformance(idea.ExpectedPerformance)
	if err != nil {
		return fmt.Errorf("error encoding expected performance: %w", err)
	}

	tags := idea.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
		INSERT INTO content_ideas (` + ideaColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = s.db.Exec(
		ctx,
		query,
		idea.ID,
		nullableString(idea.TrendID),
		idea.Title,
		idea.Hook,
		idea.Script,
		idea.Platform,
		tags,
		[]byte(scenes),
		[]byte(perf),
		idea.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating content idea: %w", err)
	}

	return nil
}

// DeleteIdea removes an idea
func (s *ContentStore) DeleteIdea(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return content.ErrNotFound
	}

	tag, err := s.db.Exec(ctx, "DELETE FROM content_ideas WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting content idea: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return content.ErrNotFound
	}

	return nil
}

func scanIdea(row pgx.Row) (content.Idea, error) {
	var idea content.Idea
	var trendID *string
	var scenesJSON, perfJSON []byte
	var createdAt time.Time

	if err := row.Scan(
		&idea.ID,
		&trendID,
		&idea.Title,
		&idea.Hook,
		&idea.Script,
		&idea.Platform,
		&idea.Tags,
		&scenesJSON,
		&perfJSON,
		&createdAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.Idea{}, err
		}
		return content.Idea{}, fmt.Errorf("error scanning content idea: %w", err)
	}

	scenes, err := content.DecodeSceneStructure(scenesJSON)
	if err != nil {
		return content.Idea{}, fmt.Errorf("error decoding scene structure of %s: %w", idea.ID, err)
	}
	perf, err := content.DecodeExpectedPerformance(perfJSON)
	if err != nil {
		return content.Idea{}, fmt.Errorf("error decoding expected performance of %s: %w", idea.ID, err)
	}

	if trendID != nil {
		idea.TrendID = *trendID
	}
	if idea.Tags == nil {
		idea.Tags = []string{}
	}
	idea.SceneStructure = scenes
	idea.ExpectedPerformance = perf
	idea.CreatedAt = createdAt

	return idea, nil
}
