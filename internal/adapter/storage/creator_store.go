// internal/adapter/storage/creator_store.go

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"trendlab/internal/domain/creator"
)

var creatorSortColumns = map[string]string{
	"follower_count": "follower_count",
	"created_at":     "created_at",
}

const creatorColumns = `
	id, platform, handle, display_name, profile_url,
	follower_count, country, category, created_at`

// CreatorStore implements creator.Repository on PostgreSQL
type CreatorStore struct {
	db DBTX
}

// NewCreatorStore creates a new creator store
func NewCreatorStore(db DBTX) *CreatorStore {
	return &CreatorStore{db: db}
}

// FindCreators returns one page of creators and the total count
func (s *CreatorStore) FindCreators(ctx context.Context, filter creator.Filter) ([]creator.Creator, int, error) {
	var where whereBuilder
	if filter.Keyword != "" {
		where.add("(handle ILIKE ? OR display_name ILIKE ?)", likePattern(filter.Keyword))
	}
	if filter.Platform != "" {
		where.add("platform = ?", filter.Platform)
	}
	if filter.Country != "" {
		where.add("country = ?", filter.Country)
	}

	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM creators"+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting creators: %w", err)
	}

	pageSQL, args := where.page(orderClause(creatorSortColumns, filter.Sort, "follower_count", filter.Desc), filter.Limit, filter.Offset)
	rows, err := s.db.Query(ctx, `SELECT`+creatorColumns+` FROM creators`+where.sql()+pageSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	creators := []creator.Creator{}
	for rows.Next() {
		c, err := scanCreator(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning creator: %w", err)
		}
		creators = append(creators, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating creators: %w", err)
	}

	return creators, total, nil
}

// GetCreator retrieves a creator by ID
func (s *CreatorStore) GetCreator(ctx context.Context, id string) (*creator.Creator, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, creator.ErrNotFound
	}

	c, err := scanCreator(s.db.QueryRow(ctx, `SELECT`+creatorColumns+` FROM creators WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, creator.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying creator: %w", err)
	}

	return &c, nil
}

func scanCreator(row pgx.Row) (creator.Creator, error) {
	var c creator.Creator
	err := row.Scan(
		&c.ID,
		&c.Platform,
		&c.Handle,
		&c.DisplayName,
		&c.ProfileURL,
		&c.FollowerCount,
		&c.Country,
		&c.Category,
		&c.CreatedAt,
	)
	return c, err
}
