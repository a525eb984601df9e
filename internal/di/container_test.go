package di

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/di/providers"
	"github.com/inkwellapp/inkwell/internal/editor"
)

func testArgs(t *testing.T, extra ...string) []string {
	t.Helper()
	args := []string{
		"-data-path", t.TempDir(),
		"-env-file", filepath.Join(t.TempDir(), "missing.env"),
		"-log-level", "error",
	}
	return append(args, extra...)
}

func TestBootstrap_Backends(t *testing.T) {
	for _, backend := range []string{"badger", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			injector := NewContainer(testArgs(t, "-store-backend", backend, "-search-enabled", "false"))
			require.NoError(t, Bootstrap(injector))

			session := do.MustInvoke[*editor.Session](injector)
			post, err := session.SaveCurrent(context.Background(), editor.Form{Title: "Persisted"})
			require.NoError(t, err)
			require.NotNil(t, post)

			storeHandle := do.MustInvoke[*providers.StoreHandle](injector)
			assert.Equal(t, 1, storeHandle.Len())

			searchHandle := do.MustInvoke[*providers.SearchIndexHandle](injector)
			assert.False(t, searchHandle.Enabled())

			assert.Nil(t, injector.Shutdown())
		})
	}
}

func TestBootstrap_ReloadsCollection(t *testing.T) {
	dataPath := t.TempDir()
	args := []string{"-data-path", dataPath, "-env-file", filepath.Join(dataPath, "missing.env"), "-log-level", "error"}

	first := NewContainer(args)
	require.NoError(t, Bootstrap(first))
	post, err := do.MustInvoke[*editor.Session](first).SaveCurrent(context.Background(), editor.Form{Title: "Survives"})
	require.NoError(t, err)
	require.Nil(t, first.Shutdown())

	second := NewContainer(append(args, "-open", "#post-"+post.ID))
	require.NoError(t, Bootstrap(second))
	t.Cleanup(func() { _ = second.Shutdown() })

	storeHandle := do.MustInvoke[*providers.StoreHandle](second)
	require.Equal(t, 1, storeHandle.Len())
	assert.Equal(t, "Survives", storeHandle.All()[0].Title)

	session := do.MustInvoke[*editor.Session](second)
	assert.Equal(t, post.ID, session.CurrentID())
	assert.Equal(t, "Survives", session.View().Form.Title)

	searchHandle := do.MustInvoke[*providers.SearchIndexHandle](second)
	require.True(t, searchHandle.Enabled())
	count, err := searchHandle.Index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	injector := NewContainer(testArgs(t, "-store-backend", "postgres"))
	assert.Error(t, Bootstrap(injector))
}
