// internal/adapter/storage/trend_store.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"trendlab/internal/domain/trend"
)

var trendSortColumns = map[string]string{
	"collected_at": "collected_at",
	"published_at": "published_at",
	"view_count":   "view_count",
	"like_count":   "like_count",
}

const trendColumns = `
	id, keyword, platform, source, video_id, title, description,
	video_url, thumbnail_url, creator_name, creator_id,
	view_count, like_count, comment_count, tags, country,
	published_at, collected_at`

// TrendStore implements trend.Repository on PostgreSQL
type TrendStore struct {
	db DBTX
}

// NewTrendStore creates a new trend store
func NewTrendStore(db DBTX) *TrendStore {
	return &TrendStore{
		db: db,
	}
}

// SaveTrends upserts trends in one transaction. A re-collected video keeps
// counts it already had when the new collection did not report them.
func (s *TrendStore) SaveTrends(ctx context.Context, trends []trend.Trend) error {
	if len(trends) == 0 {
		return nil
	}

	query := `
		INSERT INTO trends (` + trendColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11,
			$12, $13, $14, $15, $16,
			$17, $18
		)
		ON CONFLICT (platform, source, video_id) DO UPDATE
		SET
			keyword = EXCLUDED.keyword,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			video_url = EXCLUDED.video_url,
			thumbnail_url = EXCLUDED.thumbnail_url,
			creator_name = EXCLUDED.creator_name,
			creator_id = EXCLUDED.creator_id,
			view_count = COALESCE(EXCLUDED.view_count, trends.view_count),
			like_count = COALESCE(EXCLUDED.like_count, trends.like_count),
			comment_count = COALESCE(EXCLUDED.comment_count, trends.comment_count),
			tags = EXCLUDED.tags,
			country = EXCLUDED.country,
			published_at = COALESCE(EXCLUDED.published_at, trends.published_at),
			collected_at = EXCLUDED.collected_at
	`

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	for _, t := range trends {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if t.CollectedAt.IsZero() {
			t.CollectedAt = time.Now().UTC()
		}
		tags := t.Tags
		if tags == nil {
			tags = []string{}
		}

		_, err := tx.Exec(
			ctx,
			query,
			t.ID,
			t.Keyword,
			string(t.Platform),
			string(t.Source),
			t.VideoID,
			t.Title,
			t.Description,
			t.VideoURL,
			t.ThumbnailURL,
			t.CreatorName,
			t.CreatorID,
			t.ViewCount,
			t.LikeCount,
			t.CommentCount,
			tags,
			string(t.Country),
			t.PublishedAt,
			t.CollectedAt,
		)
		if err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("error saving trend %s/%s: %w", t.Platform, t.VideoID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing trends: %w", err)
	}

	return nil
}

// GetTrend retrieves a trend by ID
func (s *TrendStore) GetTrend(ctx context.Context, id string) (*trend.Trend, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, trend.ErrNotFound
	}

	query := `SELECT` + trendColumns + ` FROM trends WHERE id = $1`

	t, err := scanTrend(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, trend.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying trend: %w", err)
	}

	return &t, nil
}

// FindTrends returns one page of trends matching the filter and the total count
func (s *TrendStore) FindTrends(ctx context.Context, filter trend.Filter) ([]trend.Trend, int, error) {
	var where whereBuilder
	if filter.Keyword != "" {
		where.add("(keyword ILIKE ? OR title ILIKE ?)", likePattern(filter.Keyword))
	}
	if filter.Platform != "" {
		where.add("platform = ?", string(filter.Platform))
	}
	if filter.Country != "" {
		where.add("country = ?", string(filter.Country))
	}

	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM trends"+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting trends: %w", err)
	}

	pageSQL, args := where.page(orderClause(trendSortColumns, filter.Sort, "collected_at", filter.Desc), filter.Limit, filter.Offset)
	query := `SELECT` + trendColumns + ` FROM trends` + where.sql() + pageSQL

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	trends := []trend.Trend{}
	for rows.Next() {
		t, err := scanTrend(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning trend: %w", err)
		}
		trends = append(trends, t)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating trends: %w", err)
	}

	return trends, total, nil
}

// SaveRun records a completed collection
func (s *TrendStore) SaveRun(ctx context.Context, run trend.CollectionRun) error {
	query := `
		INSERT INTO collection_runs (
			id, user_id, keyword, total_videos, breakdown, errors, collected_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	breakdownJSON, err := json.Marshal(run.Breakdown)
	if err != nil {
		return fmt.Errorf("error marshaling breakdown: %w", err)
	}

	errorsJSON, err := json.Marshal(run.Errors)
	if err != nil {
		return fmt.Errorf("error marshaling errors: %w", err)
	}

	_, err = s.db.Exec(ctx, query, run.ID, run.UserID, run.Keyword, run.TotalVideos, breakdownJSON, errorsJSON, run.CollectedAt)
	if err != nil {
		return fmt.Errorf("error saving collection run: %w", err)
	}

	return nil
}

// FindRuns lists a user's collections, newest first
func (s *TrendStore) FindRuns(ctx context.Context, userID string, limit, offset int) ([]trend.CollectionRun, int, error) {
	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM collection_runs WHERE user_id = $1", userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting collection runs: %w", err)
	}

	query := `
		SELECT id, user_id, keyword, total_videos, breakdown, errors, collected_at
		FROM collection_runs
		WHERE user_id = $1
		ORDER BY collected_at DESC, id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	runs := []trend.CollectionRun{}
	for rows.Next() {
		var run trend.CollectionRun
		var breakdownJSON, errorsJSON []byte

		if err := rows.Scan(
			&run.ID,
			&run.UserID,
			&run.Keyword,
			&run.TotalVideos,
			&breakdownJSON,
			&errorsJSON,
			&run.CollectedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning collection run: %w", err)
		}

		if err := json.Unmarshal(breakdownJSON, &run.Breakdown); err != nil {
			return nil, 0, fmt.Errorf("error unmarshaling breakdown: %w", err)
		}
		if err := json.Unmarshal(errorsJSON, &run.Errors); err != nil {
			return nil, 0, fmt.Errorf("error unmarshaling errors: %w", err)
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating collection runs: %w", err)
	}

	return runs, total, nil
}

func scanTrend(row pgx.Row) (trend.Trend, error) {
	var t trend.Trend
	var platform, source, country string

	err := row.Scan(
		&t.ID,
		&t.Keyword,
		&platform,
		&source,
		&t.VideoID,
		&t.Title,
		&t.Description,
		&t.VideoURL,
		&t.ThumbnailURL,
		&t.CreatorName,
		&t.CreatorID,
		&t.ViewCount,
		&t.LikeCount,
		&t.CommentCount,
		&t.Tags,
		&country,
		&t.PublishedAt,
		&t.CollectedAt,
	)
	if err != nil {
		return trend.Trend{}, err
	}

	t.Platform = trend.Platform(platform)
	t.Source = trend.Source(source)
	t.Country = trend.Country(country)
	if t.Tags == nil {
		t.Tags = []string{}
	}

	return t, nil
}
