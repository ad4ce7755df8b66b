// Package creator models social-media creator profiles tracked by the dashboard.
package creator

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a creator does not exist
var ErrNotFound = errors.New("creator not found")

// Creator is a tracked creator profile
type Creator struct {
	ID            string    `json:"id"`
	Platform      string    `json:"platform"`
	Handle        string    `json:"handle"`
	DisplayName   string    `json:"display_name"`
	ProfileURL    string    `json:"profile_url"`
	FollowerCount *int64    `json:"follower_count,omitempty"`
	Country       string    `json:"country,omitempty"`
	Category      string    `json:"category,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Filter defines criteria for listing creators
type Filter struct {
	Keyword  string
	Platform string
	Country  string
	Sort     string
	Desc     bool
	Limit    int
	Offset   int
}

// Repository provides read access to creators
type Repository interface {
	FindCreators(ctx context.Context, filter Filter) ([]Creator, int, error)
	GetCreator(ctx context.Context, id string) (*Creator, error)
}
