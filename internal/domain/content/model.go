// Package content models AI-generated content ideas derived from trends.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when an idea does not exist
var ErrNotFound = errors.New("content idea not found")

// Idea is one generated content idea
type Idea struct {
	ID                  string
	TrendID             string
	Title               string
	Hook                string
	Script              string
	Platform            string
	Tags                []string
	SceneStructure      SceneStructure
	ExpectedPerformance ExpectedPerformance
	CreatedAt           time.Time
}

type ideaJSON struct {
	ID                  string          `json:"id"`
	TrendID             string          `json:"trend_id,omitempty"`
	Title               string          `json:"title"`
	Hook                string          `json:"hook,omitempty"`
	Script              string          `json:"script,omitempty"`
	Platform            string          `json:"platform"`
	Tags                []string        `json:"tags"`
	SceneStructure      json.RawMessage `json:"scene_structure,omitempty"`
	ExpectedPerformance json.RawMessage `json:"expected_performance,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

// MarshalJSON writes both variant fields in their natural JSON shape
func (i Idea) MarshalJSON() ([]byte, error) {
	scenes, err := EncodeSceneStructure(i.SceneStructure)
	if err != nil {
		return nil, err
	}
	perf, err := EncodeExpectedPerformance(i.ExpectedPerformance)
	if err != nil {
		return nil, err
	}
	tags := i.Tags
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(ideaJSON{
		ID:                  i.ID,
		TrendID:             i.TrendID,
		Title:               i.Title,
		Hook:                i.Hook,
		Script:              i.Script,
		Platform:            i.Platform,
		Tags:                tags,
		SceneStructure:      scenes,
		ExpectedPerformance: perf,
		CreatedAt:           i.CreatedAt,
	})
}

// UnmarshalJSON decodes the variant fields explicitly
func (i *Idea) UnmarshalJSON(data []byte) error {
	var raw ideaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	scenes, err := DecodeSceneStructure(raw.SceneStructure)
	if err != nil {
		return fmt.Errorf("scene_structure: %w", err)
	}
	perf, err := DecodeExpectedPerformance(raw.ExpectedPerformance)
	if err != nil {
		return fmt.Errorf("expected_performance: %w", err)
	}
	*i = Idea{
		ID:                  raw.ID,
		TrendID:             raw.TrendID,
		Title:               raw.Title,
		Hook:                raw.Hook,
		Script:              raw.Script,
		Platform:            raw.Platform,
		Tags:                raw.Tags,
		SceneStructure:      scenes,
		ExpectedPerformance: perf,
		CreatedAt:           raw.CreatedAt,
	}
	return nil
}

// Filter defines criteria for listing content ideas
type Filter struct {
	Keyword  string
	Platform string
	TrendID  string
	Limit    int
	Offset   int
}

// Repository persists content ideas
type Repository interface {
	FindIdeas(ctx context.Context, filter Filter) ([]Idea, int, error)
	GetIdea(ctx context.Context, id string) (*Idea, error)
	CreateIdea(ctx context.Context, idea Idea) error
	DeleteIdea(ctx context.Context, id string) error
}
