package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"trendlab/internal/domain/content"
	"trendlab/internal/domain/creator"
	"trendlab/internal/domain/identity"
	"trendlab/internal/domain/trend"
)

type fakeTrendRepo struct {
	trends     map[string]trend.Trend
	findErr    error
	lastFilter trend.Filter
}

func (f *fakeTrendRepo) SaveTrends(context.Context, []trend.Trend) error { return nil }

func (f *fakeTrendRepo) GetTrend(_ context.Context, id string) (*trend.Trend, error) {
	t, ok := f.trends[id]
	if !ok {
		return nil, trend.ErrNotFound
	}
	return &t, nil
}

func (f *fakeTrendRepo) FindTrends(_ context.Context, filter trend.Filter) ([]trend.Trend, int, error) {
	f.lastFilter = filter
	if f.findErr != nil {
		return nil, 0, f.findErr
	}
	out := make([]trend.Trend, 0, len(f.trends))
	for _, t := range f.trends {
		out = append(out, t)
	}
	return out, len(out), nil
}

func (f *fakeTrendRepo) SaveRun(context.Context, trend.CollectionRun) error { return nil }

func (f *fakeTrendRepo) FindRuns(context.Context, string, int, int) ([]trend.CollectionRun, int, error) {
	return nil, 0, nil
}

type fakeCollector struct {
	result     *trend.CollectionResult
	err        error
	runs       []trend.CollectionRun
	lastUserID string
	lastOpts   trend.CollectionOptions
	lastLimit  int
	lastOffset int
}

func (f *fakeCollector) Collect(_ context.Context, userID string, opts trend.CollectionOptions) (*trend.CollectionResult, error) {
	f.lastUserID = userID
	f.lastOpts = opts
	return f.result, f.err
}

func (f *fakeCollector) History(_ context.Context, userID string, limit, offset int) ([]trend.CollectionRun, int, error) {
	f.lastUserID = userID
	f.lastLimit = limit
	f.lastOffset = offset
	return f.runs, len(f.runs), nil
}

func (f *fakeCollector) Platforms() []trend.Platform {
	return []trend.Platform{trend.PlatformYouTube, trend.PlatformTikTok}
}

type fakeContentRepo struct {
	ideas      map[string]content.Idea
	created    []content.Idea
	createErr  error
	lastFilter content.Filter
}

func (f *fakeContentRepo) FindIdeas(_ context.Context, filter content.Filter) ([]content.Idea, int, error) {
	f.lastFilter = filter
	out := make([]content.Idea, 0, len(f.ideas))
	for _, i := range f.ideas {
		out = append(out, i)
	}
	return out, len(out), nil
}

func (f *fakeContentRepo) GetIdea(_ context.Context, id string) (*content.Idea, error) {
	i, ok := f.ideas[id]
	if !ok {
		return nil, content.ErrNotFound
	}
	return &i, nil
}

func (f *fakeContentRepo) CreateIdea(_ context.Context, idea content.Idea) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, idea)
	return nil
}

func (f *fakeContentRepo) DeleteIdea(_ context.Context, id string) error {
	if _, ok := f.ideas[id]; !ok {
		return content.ErrNotFound
	}
	delete(f.ideas, id)
	return nil
}

type fakeCreatorRepo struct {
	creators   map[string]creator.Creator
	lastFilter creator.Filter
}

func (f *fakeCreatorRepo) FindCreators(_ context.Context, filter creator.Filter) ([]creator.Creator, int, error) {
	f.lastFilter = filter
	out := make([]creator.Creator, 0, len(f.creators))
	for _, c := range f.creators {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (f *fakeCreatorRepo) GetCreator(_ context.Context, id string) (*creator.Creator, error) {
	c, ok := f.creators[id]
	if !ok {
		return nil, creator.ErrNotFound
	}
	return &c, nil
}

// serve routes one request through a chi router so URL params resolve,
// authenticated as user-1
func serve(t *testing.T, method, pattern, target, body string, handler http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	router := chi.NewRouter()
	router.Method(method, pattern, handler)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req = req.WithContext(identity.WithUser(req.Context(), &identity.User{ID: "user-1"}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}
