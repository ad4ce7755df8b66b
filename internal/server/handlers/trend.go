// internal/server/handlers/trend.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"trendlab/internal/domain/identity"
	"trendlab/internal/domain/trend"
)

const maxCollectBodyBytes = 64 << 10

var trendSorts = []string{"collected_at", "published_at", "view_count", "like_count"}

// CollectionService runs collections on behalf of a user
type CollectionService interface {
	Collect(ctx context.Context, userID string, opts trend.CollectionOptions) (*trend.CollectionResult, error)
	History(ctx context.Context, userID string, limit, offset int) ([]trend.CollectionRun, int, error)
	Platforms() []trend.Platform
}

// TrendHandler handles trend-related HTTP requests
type TrendHandler struct {
	repo      trend.Repository
	collector CollectionService
}

// NewTrendHandler creates a new trend handler
func NewTrendHandler(repo trend.Repository, collector CollectionService) *TrendHandler {
	return &TrendHandler{
		repo:      repo,
		collector: collector,
	}
}

// GetTrends returns one page of stored trends
func (h *TrendHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := parsePagination(r)

	filter := trend.Filter{
		Keyword: strings.TrimSpace(q.Get("keyword")),
		Sort:    q.Get("sort"),
		Limit:   p.Limit,
		Offset:  p.Offset(),
	}

	if platform := q.Get("platform"); platform != "" {
		filter.Platform = trend.Platform(platform)
		if !filter.Platform.Valid() {
			respondWithError(w, r, http.StatusBadRequest, "Invalid platform", nil)
			return
		}
	}

	if country := q.Get("country"); country != "" {
		filter.Country = trend.Country(strings.ToUpper(country))
		if !filter.Country.Valid() {
			respondWithError(w, r, http.StatusBadRequest, "Invalid country", nil)
			return
		}
	}

	if filter.Sort == "" {
		filter.Sort = "collected_at"
	}
	if !slices.Contains(trendSorts, filter.Sort) {
		respondWithError(w, r, http.StatusBadRequest, "Invalid sort field", nil)
		return
	}

	desc, ok := parseOrder(q.Get("order"))
	if !ok {
		respondWithError(w, r, http.StatusBadRequest, "Invalid sort order", nil)
		return
	}
	filter.Desc = desc

	trends, total, err := h.repo.FindTrends(r.Context(), filter)
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, "Failed to get trends", err)
		return
	}

	respondWithJSON(w, r, http.StatusOK, listPayload("trends", trends, total, p))
}

// GetTrend returns a specific trend by ID
func (h *TrendHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, r, http.StatusBadRequest, "Missing trend ID", nil)
		return
	}

	t, err := h.repo.GetTrend(r.Context(), id)
	if err != nil {
		if errors.Is(err, trend.ErrNotFound) {
			respondWithError(w, r, http.StatusNotFound, "Trend not found", nil)
		} else {
			respondWithError(w, r, http.StatusInternalServerError, "Failed to get trend", err)
		}
		return
	}

	respondWithJSON(w, r, http.StatusOK, t)
}

// GetPlatforms lists the platforms a collection can search
func (h *TrendHandler) GetPlatforms(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, r, http.StatusOK, map[string]any{
		"platforms": h.collector.Platforms(),
	})
}

// CollectTrends runs a keyword collection across the selected platforms
func (h *TrendHandler) CollectTrends(w http.ResponseWriter, r *http.Request) {
	var opts trend.CollectionOptions
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCollectBodyBytes)).Decode(&opts); err != nil {
		respondWithError(w, r, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	result, err := h.collector.Collect(r.Context(), userID(r), opts)
	if err != nil {
		var verr *trend.ValidationError
		switch {
		case errors.As(err, &verr):
			respondWithError(w, r, http.StatusBadRequest, verr.Error(), nil)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respondWithError(w, r, http.StatusServiceUnavailable, "Collection cancelled", err)
		default:
			respondWithError(w, r, http.StatusInternalServerError, "Failed to collect trends", err)
		}
		return
	}

	respondWithJSON(w, r, http.StatusOK, result)
}

// GetCollections lists the caller's previous collections, newest first
func (h *TrendHandler) GetCollections(w http.ResponseWriter, r *http.Request) {
	p := parsePagination(r)

	runs, total, err := h.collector.History(r.Context(), userID(r), p.Limit, p.Offset())
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, "Failed to get collections", err)
		return
	}

	respondWithJSON(w, r, http.StatusOK, listPayload("collections", runs, total, p))
}

func userID(r *http.Request) string {
	if u, ok := identity.FromContext(r.Context()); ok {
		return u.ID
	}
	return ""
}

// parseOrder maps asc/desc to a descending flag; empty means descending
func parseOrder(order string) (desc bool, ok bool) {
	switch strings.ToLower(order) {
	case "", "desc":
		return true, true
	case "asc":
		return false, true
	}
	return false, false
}
