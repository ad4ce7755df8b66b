// internal/server/handlers/creator.go

package handlers

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"trendlab/internal/domain/creator"
	"trendlab/internal/domain/trend"
)

var creatorSorts = []string{"follower_count", "created_at"}

// CreatorHandler handles creator HTTP requests
type CreatorHandler struct {
	repo creator.Repository
}

// NewCreatorHandler creates a new creator handler
func NewCreatorHandler(repo creator.Repository) *CreatorHandler {
	return &CreatorHandler{repo: repo}
}

// ListCreators returns one page of creators
func (h *CreatorHandler) ListCreators(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := parsePagination(r)

	filter := creator.Filter{
		Keyword: strings.TrimSpace(q.Get("keyword")),
		Country: strings.ToUpper(q.Get("country")),
		Sort:    q.Get("sort"),
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

	if filter.Sort == "" {
		filter.Sort = "follower_count"
	}
	if !slices.Contains(creatorSorts, filter.Sort) {
		respondWithError(w, r, http.StatusBadRequest, "Invalid sort field", nil)
		return
	}

	desc, ok := parseOrder(q.Get("order"))
	if !ok {
		respondWithError(w, r, http.StatusBadRequest, "Invalid sort order", nil)
		return
	}
	filter.Desc = desc

	creators, total, err := h.repo.FindCreators(r.Context(), filter)
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, "Failed to get creators", err)
		return
	}

	respondWithJSON(w, r, http.StatusOK, listPayload("creators", creators, total, p))
}

// GetCreator returns a creator by ID
func (h *CreatorHandler) GetCreator(w http.ResponseWriter, r *http.Request) {
	c, err := h.repo.GetCreator(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, creator.ErrNotFound) {
			respondWithError(w, r, http.StatusNotFound, "Creator not found", nil)
		} else {
			respondWithError(w, r, http.StatusInternalServerError, "Failed to get creator", err)
		}
		return
	}

	respondWithJSON(w, r, http.StatusOK, c)
}
