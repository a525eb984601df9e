package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSearchPosts(t *testing.T, ts *testServer) {
	t.Helper()
	ts.save(t, SaveRequest{Title: "Sourdough starter", Tags: "baking", Content: "Feed the starter daily."})
	ts.api.Post("/api/v1/editor/new", map[string]any{})
	ts.save(t, SaveRequest{Title: "Garden notes", Tags: "outdoors", Content: "Tomatoes need sun.", Published: true})
}

func TestSearch_FallsBackToFilter(t *testing.T) {
	ts := setupTestServer(t)
	seedSearchPosts(t, ts)

	resp := ts.api.Get("/api/v1/search?q=starter")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	result := decodeData[SearchResponse](t, resp.Body.Bytes())
	assert.False(t, result.FullText)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "Sourdough starter", result.Hits[0].Title)
	assert.Equal(t, "baking", result.Hits[0].Tags)

	resp = ts.api.Get("/api/v1/search?published=true")
	require.Equal(t, http.StatusOK, resp.Code)
	result = decodeData[SearchResponse](t, resp.Body.Bytes())
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "Garden notes", result.Hits[0].Title)

	resp = ts.api.Get("/api/v1/search?limit=1&offset=1")
	require.Equal(t, http.StatusOK, resp.Code)
	result = decodeData[SearchResponse](t, resp.Body.Bytes())
	assert.Equal(t, uint64(2), result.Total)
	assert.Len(t, result.Hits, 1)
}

func TestSearch_FullTextIndex(t *testing.T) {
	ts := setupTestServer(t, withSearchIndex(t))
	seedSearchPosts(t, ts)

	resp := ts.api.Get("/api/v1/search?q=tomatoes")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	result := decodeData[SearchResponse](t, resp.Body.Bytes())
	assert.True(t, result.FullText)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "Garden notes", result.Hits[0].Title)
}

func TestSearch_InvalidParams(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/search?limit=500")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Get("/api/v1/search?published=maybe")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
