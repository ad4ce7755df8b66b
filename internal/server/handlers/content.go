// internal/server/handlers/content.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"trendlab/internal/domain/content"
	"trendlab/internal/domain/trend"
)

const maxIdeaBodyBytes = 256 << 10

// ContentHandler handles content idea HTTP requests
type ContentHandler struct {
	repo content.Repository
	now  func() time.Time
}

// NewContentHandler creates a new content idea handler
func NewContentHandler(repo content.Repository) *ContentHandler {
	return &ContentHandler{
		repo: repo,
		now:  time.Now,
	}
}

type createIdeaRequest struct {
	TrendID             string          `json:"trend_id" validate:"omitempty,uuid"`
	Title               string          `json:"title" validate:"required,max=200"`
	Hook                string          `json:"hook" validate:"max=500"`
	Script              string          `json:"script"`
	Platform            string          `json:"platform" validate:"required,platform"`
	Tags                []string        `json:"tags" validate:"max=30,dive,required,max=50"`
	SceneStructure      json.RawMessage `json:"scene_structure"`
	ExpectedPerformance json.RawMessage `json:"expected_performance"`
}

// ListIdeas returns one page of content ideas
func (h *ContentHandler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := parsePagination(r)

	filter := content.Filter{
		Keyword: strings.TrimSpace(q.Get("keyword")),
		TrendID: q.Get("trend_id"),
		Limit:   p.Limit,
		Offset:  p.Offset(),
	}

	if platform := q.Get("platform"); platform != "" {
		if !trend.Platform(platform).Valid() {
			respondWithError(w, r, http.StatusBadRequest, "Invalid platform", nil)
			return
		}
		filter.Platform = platform
	}

	ideas, total, err := h.repo.FindIdeas(r.Context(), filter)
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, "Failed to get content ideas", err)
		return
	}

	respondWithJSON(w, r, http.StatusOK, listPayload("content_ideas", ideas, total, p))
}

// GetIdea returns a content idea by ID
func (h *ContentHandler) GetIdea(w http.ResponseWriter, r *http.Request) {
	idea, err := h.repo.GetIdea(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			respondWithError(w, r, http.StatusNotFound, "Content idea not found", nil)
		} else {
			respondWithError(w, r, http.StatusInternalServerError, "Failed to get content idea", err)
		}
		return
	}

	respondWithJSON(w, r, http.StatusOK, idea)
}

// CreateIdea stores a new content idea
func (h *ContentHandler) CreateIdea(w http.ResponseWriter, r *http.Request) {
	var req createIdeaRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxIdeaBodyBytes)).Decode(&req); err != nil {
		respondWithError(w, r, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := validate.Struct(req); err != nil {
		respondWithError(w, r, http.StatusBadRequest, validationMessage(err), nil)
		return
	}

	scenes, err := content.DecodeSceneStructure(req.SceneStructure)
	if err != nil {
		respondWithError(w, r, http.StatusBadRequest, "scene_structure must be a JSON object or a list of scenes", nil)
		return
	}
	perf, err := content.DecodeExpectedPerformance(req.ExpectedPerformance)
	if err != nil {
		respondWithError(w, r, http.StatusBadRequest, "expected_performance must be a JSON object", nil)
		return
	}

	idea := content.Idea{
		ID:                  uuid.NewString(),
		TrendID:             req.TrendID,
		Title:               strings.TrimSpace(req.Title),
		Hook:                req.Hook,
		Script:              req.Script,
		Platform:            req.Platform,
		Tags:                req.Tags,
		SceneStructure:      scenes,
		ExpectedPerformance: perf,
		CreatedAt:           h.now().UTC(),
	}
	if idea.Tags == nil {
		idea.Tags = []string{}
	}

	if err := h.repo.CreateIdea(r.Context(), idea); err != nil {
		respondWithError(w, r, http.StatusInternalServerError, "Failed to create content idea", err)
		return
	}

	respondWithJSON(w, r, http.StatusCreated, idea)
}

// DeleteIdea removes a content idea
func (h *ContentHandler) DeleteIdea(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteIdea(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			respondWithError(w, r, http.StatusNotFound, "Content idea not found", nil)
		} else {
			respondWithError(w, r, http.StatusInternalServerError, "Failed to delete content idea", err)
		}
		return
	}

	respondWithJSON(w, r, http.StatusOK, map[string]string{"id": chi.URLParam(r, "id")})
}
