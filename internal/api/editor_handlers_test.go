package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/editor"
	"github.com/inkwellapp/inkwell/internal/errors"
)

func TestEditor_SaveCreatesThenUpdates(t *testing.T) {
	ts := setupTestServer(t)

	first := ts.save(t, SaveRequest{Title: "  First  ", Tags: "go", Content: "# Hi"})
	require.NotEmpty(t, first.View.CurrentID)
	assert.Equal(t, "First", first.View.Form.Title)
	assert.Equal(t, "post-"+first.View.CurrentID, first.View.Fragment)
	assert.Contains(t, first.View.Preview, "<h1")

	second := ts.save(t, SaveRequest{Title: "First, edited", Published: true})
	assert.Equal(t, first.View.CurrentID, second.View.CurrentID)
	assert.Equal(t, "Published", second.View.PublishedLabel)
	assert.Equal(t, 1, ts.store.Len())

	resp := ts.api.Get("/api/v1/editor")
	require.Equal(t, http.StatusOK, resp.Code)
	state := decodeData[*editor.Result](t, resp.Body.Bytes())
	require.Len(t, state.View.Rows, 1)
	assert.Equal(t, "First, edited", state.View.Rows[0].Title)
}

func TestEditor_SaveValidation(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/editor/save", SaveRequest{Title: strings.Repeat("x", 1001)})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	envelope := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, string(errors.CodeValidation), envelope.Code)
	assert.Equal(t, 0, ts.store.Len())
}

func TestEditor_NewOpenNavigate(t *testing.T) {
	ts := setupTestServer(t)

	saved := ts.save(t, SaveRequest{Title: "Target"})
	id := saved.View.CurrentID

	resp := ts.api.Post("/api/v1/editor/new", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	created := decodeData[*editor.Result](t, resp.Body.Bytes())
	assert.NotEqual(t, id, created.View.CurrentID)
	assert.Empty(t, created.View.Form.Title)
	assert.Equal(t, 2, ts.store.Len())

	resp = ts.api.Post("/api/v1/editor/open/"+id, map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Target", decodeData[*editor.Result](t, resp.Body.Bytes()).View.Form.Title)

	resp = ts.api.Post("/api/v1/editor/open/missing", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, id, decodeData[*editor.Result](t, resp.Body.Bytes()).View.CurrentID, "unknown id is ignored")

	resp = ts.api.Post("/api/v1/editor/navigate", NavigateRequest{Fragment: "#post-" + created.View.CurrentID})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, created.View.CurrentID, decodeData[*editor.Result](t, resp.Body.Bytes()).View.CurrentID)
}

func TestEditor_DeleteRequiresConfirmation(t *testing.T) {
	ts := setupTestServer(t)
	ts.save(t, SaveRequest{Title: "Doomed"})

	resp := ts.api.Post("/api/v1/editor/delete", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	envelope := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, string(errors.CodeNotConfirmed), envelope.Code)
	assert.Equal(t, editor.NoticeConfirm, envelope.Message)
	assert.Equal(t, 1, ts.store.Len())

	resp = ts.api.Post("/api/v1/editor/delete?confirm=true", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	result := decodeData[*editor.Result](t, resp.Body.Bytes())
	assert.Empty(t, result.View.CurrentID)
	assert.Empty(t, result.View.Fragment)
	assert.Equal(t, 0, ts.store.Len())
}

func TestEditor_ClearKeepsOpenPost(t *testing.T) {
	ts := setupTestServer(t)
	saved := ts.save(t, SaveRequest{Title: "Keep"})

	resp := ts.api.Post("/api/v1/editor/clear", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code)
	result := decodeData[*editor.Result](t, resp.Body.Bytes())
	assert.Equal(t, saved.View.CurrentID, result.View.CurrentID)
	assert.Empty(t, result.View.Form.Title)
	assert.Empty(t, result.View.Preview)
}

func TestEditor_SetContentRendersPreview(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/editor/content", ContentRequest{Content: "*hi*"})
	require.Equal(t, http.StatusOK, resp.Code)
	result := decodeData[*editor.Result](t, resp.Body.Bytes())
	assert.Contains(t, result.View.Preview, "<em>hi</em>")
	assert.Equal(t, 0, ts.store.Len(), "staging content never saves")
}

func TestEditor_ViewCurrent(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/editor/view", map[string]any{})
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, editor.NoticeNothingOpen, decodeError(t, resp.Body.Bytes()).Message)

	ts.save(t, SaveRequest{Title: "Hello <World>", Content: "Body text"})

	resp = ts.api.Post("/api/v1/editor/view", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	link := decodeData[ViewLinkResponse](t, resp.Body.Bytes())
	assert.Equal(t, "hello-world.html", link.Filename)
	require.True(t, strings.HasPrefix(link.URL, "/view/"))

	page := ts.api.Get(link.URL)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Equal(t, "text/html; charset=utf-8", page.Header().Get("Content-Type"))
	assert.Contains(t, page.Body.String(), "<title>Hello &lt;World&gt;</title>")
	assert.Contains(t, page.Body.String(), "<p>Body text</p>")

	missing := ts.api.Get("/view/00000000-0000-0000-0000-000000000000")
	assert.Equal(t, http.StatusNotFound, missing.Code)
}
