package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendlab/internal/domain/creator"
)

func TestCreatorHandler(t *testing.T) {
	repo := &fakeCreatorRepo{creators: map[string]creator.Creator{
		"c1": {ID: "c1", Platform: "youtube", Handle: "@noodlelab", DisplayName: "Noodle Lab"},
	}}
	h := NewCreatorHandler(repo)

	t.Run("list", func(t *testing.T) {
		rec := serve(t, http.MethodGet, "/creators", "/creators?platform=youtube&country=kr&sort=created_at&order=asc", "", h.ListCreators)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, creator.Filter{
			Platform: "youtube",
			Country:  "KR",
			Sort:     "created_at",
			Desc:     false,
			Limit:    defaultPageLimit,
		}, repo.lastFilter)
		assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"total":1`)
	})

	t.Run("default sort", func(t *testing.T) {
		rec := serve(t, http.MethodGet, "/creators", "/creators", "", h.ListCreators)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "follower_count", repo.lastFilter.Sort)
		assert.True(t, repo.lastFilter.Desc)
	})

	t.Run("bad sort", func(t *testing.T) {
		rec := serve(t, http.MethodGet, "/creators", "/creators?sort=handle", "", h.ListCreators)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get", func(t *testing.T) {
		rec := serve(t, http.MethodGet, "/creators/{id}", "/creators/c1", "", h.GetCreator)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"handle":"@noodlelab"`)

		rec = serve(t, http.MethodGet, "/creators/{id}", "/creators/c2", "", h.GetCreator)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
