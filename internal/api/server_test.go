package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/editor"
	"github.com/inkwellapp/inkwell/internal/ratelimit"
	"github.com/inkwellapp/inkwell/internal/render"
	"github.com/inkwellapp/inkwell/internal/search"
	"github.com/inkwellapp/inkwell/internal/store"
)

// testEnvelope mirrors APIEnvelope with typed data.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// testErrorEnvelope mirrors APIErrorEnvelope.
type testErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api     humatest.TestAPI
	store   *store.Store
	session *editor.Session
}

type serverOption func(*Services, *Options)

func withImportLimiter(l *ratelimit.KeyedRateLimiter) serverOption {
	return func(_ *Services, o *Options) { o.ImportLimiter = l }
}

func withSearchIndex(t *testing.T) serverOption {
	return func(svc *Services, _ *Options) {
		index, err := search.NewSearchIndex(search.Options{DataPath: t.TempDir()})
		require.NoError(t, err)
		t.Cleanup(func() { _ = index.Close() })

		svc.Store.SetSearchIndexer(search.NewIndexer(index, svc.Renderer))
		svc.Search = index
	}
}

// setupTestServer creates a server over an in-memory slot.
func setupTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	st := store.New(store.Options{Slot: store.NewMemorySlot()})
	st.Load(context.Background())

	renderer := render.New(nil)
	session := editor.New(editor.Options{Store: st, Renderer: renderer, Location: time.UTC})

	services := &Services{
		Store:    st,
		Session:  session,
		Renderer: renderer,
		Views:    render.NewViewCache(time.Minute),
	}
	options := Options{Version: "test", Location: time.UTC}
	for _, opt := range opts {
		opt(services, &options)
	}

	s := NewServer(services, options, nil)
	t.Cleanup(s.Close)

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.API()),
		store:   st,
		session: session,
	}
}

func decodeData[T any](t *testing.T, body []byte) T {
	t.Helper()
	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &envelope), string(body))
	require.True(t, envelope.Success, string(body))
	return envelope.Data
}

func decodeError(t *testing.T, body []byte) testErrorEnvelope {
	t.Helper()
	var envelope testErrorEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope), string(body))
	require.False(t, envelope.Success)
	return envelope
}

func (ts *testServer) save(t *testing.T, req SaveRequest) *editor.Result {
	t.Helper()
	resp := ts.api.Post("/api/v1/editor/save", req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	return decodeData[*editor.Result](t, resp.Body.Bytes())
}
