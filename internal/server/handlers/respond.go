// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// envelope is the body of every JSON response
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// pagination is the resolved page and limit of a list request
type pagination struct {
	Page  int
	Limit int
}

func (p pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// parsePagination reads page and limit, falling back to defaults for
// missing or non-positive values and capping limit
func parsePagination(r *http.Request) pagination {
	p := pagination{Page: 1, Limit: defaultPageLimit}

	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		p.Limit = min(n, maxPageLimit)
	}

	return p
}

// listPayload is the data of a paginated list response, with the items
// under key
func listPayload(key string, items any, total int, p pagination) map[string]any {
	return map[string]any{
		key:     items,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	}
}

// respondWithJSON wraps payload in a success envelope
func respondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload any) {
	writeEnvelope(w, r, code, envelope{Success: true, Data: payload})
}

// respondWithError writes an error envelope. Server errors are logged with
// their cause; the cause is never sent to the client.
func respondWithError(w http.ResponseWriter, r *http.Request, code int, message string, err error) {
	if err != nil && code >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Int("status", code).Msg(message)
	}
	writeEnvelope(w, r, code, envelope{Success: false, Error: message})
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, code int, body envelope) {
	response, err := json.Marshal(body)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
