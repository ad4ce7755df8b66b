package content

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrUnsupportedShape is returned when a variant field is neither the
// structured shape nor a JSON object.
var ErrUnsupportedShape = errors.New("unsupported shape")

// SceneStructure is either Scenes (structured) or RawScenes (an opaque
// record kept as-is). A nil SceneStructure means the field was absent.
type SceneStructure interface {
	sceneStructure()
}

// Scene is one beat of a short-form video script
type Scene struct {
	Order           int     `json:"order"`
	Description     string  `json:"description"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}

// Scenes is the structured scene-structure variant
type Scenes struct {
	Scenes []Scene `json:"scenes"`
}

// RawScenes is the open-record scene-structure variant
type RawScenes map[string]any

func (Scenes) sceneStructure()    {}
func (RawScenes) sceneStructure() {}

// ExpectedPerformance is either Performance (structured) or RawPerformance
type ExpectedPerformance interface {
	expectedPerformance()
}

// Performance is the structured expected-performance variant
type Performance struct {
	EstimatedViews int64   `json:"estimated_views"`
	EngagementRate float64 `json:"engagement_rate"`
	ViralityScore  float64 `json:"virality_score"`
}

// RawPerformance is the open-record expected-performance variant
type RawPerformance map[string]any

func (Performance) expectedPerformance()    {}
func (RawPerformance) expectedPerformance() {}

// DecodeSceneStructure picks the structured variant only when the payload
// matches it exactly; any other JSON object is kept raw.
func DecodeSceneStructure(data []byte) (SceneStructure, error) {
	if isAbsent(data) {
		return nil, nil
	}

	var s Scenes
	if strictDecode(data, &s) == nil && len(s.Scenes) > 0 && scenesDescribed(s.Scenes) {
		return s, nil
	}

	var list []Scene
	if strictDecode(data, &list) == nil && len(list) > 0 && scenesDescribed(list) {
		return Scenes{Scenes: list}, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ErrUnsupportedShape
	}
	return RawScenes(raw), nil
}

// EncodeSceneStructure renders a scene structure; nil encodes to nothing
func EncodeSceneStructure(s SceneStructure) (json.RawMessage, error) {
	switch v := s.(type) {
	case nil:
		return nil, nil
	case Scenes:
		return json.Marshal(v)
	case RawScenes:
		return json.Marshal(map[string]any(v))
	default:
		return nil, ErrUnsupportedShape
	}
}

// DecodeExpectedPerformance picks the structured variant only when every
// key is a known metric.
func DecodeExpectedPerformance(data []byte) (ExpectedPerformance, error) {
	if isAbsent(data) {
		return nil, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ErrUnsupportedShape
	}

	var p Performance
	if len(raw) > 0 && strictDecode(data, &p) == nil {
		return p, nil
	}
	return RawPerformance(raw), nil
}

// EncodeExpectedPerformance renders an expected performance; nil encodes to nothing
func EncodeExpectedPerformance(p ExpectedPerformance) (json.RawMessage, error) {
	switch v := p.(type) {
	case nil:
		return nil, nil
	case Performance:
		return json.Marshal(v)
	case RawPerformance:
		return json.Marshal(map[string]any(v))
	default:
		return nil, ErrUnsupportedShape
	}
}

func isAbsent(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func strictDecode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func scenesDescribed(scenes []Scene) bool {
	for _, s := range scenes {
		if s.Description == "" {
			return false
		}
	}
	return true
}
