package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, opts Options) (*Watcher, string) {
	t.Helper()

	w, err := New(nil, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	dir := t.TempDir()
	require.NoError(t, w.Watch(dir))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Start(ctx) //nolint:errcheck // Test goroutine

	return w, dir
}

func TestNew(t *testing.T) {
	w, err := New(nil, Options{})
	require.NoError(t, err)
	require.NotNil(t, w)

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop(), "second Stop is a no-op")
}

func TestWatcher_WatchRejectsFile(t *testing.T) {
	w, err := New(nil, Options{})
	require.NoError(t, err)
	defer w.Stop() //nolint:errcheck // Test cleanup

	file := filepath.Join(t.TempDir(), "f.json")
	require.NoError(t, os.WriteFile(file, []byte("[]"), 0o644))

	assert.Error(t, w.Watch(file))
	assert.Error(t, w.Watch(filepath.Join(t.TempDir(), "missing")))
}

func TestWatcher_FileCreation(t *testing.T) {
	w, dir := startWatcher(t, Options{SettleDelay: 50 * time.Millisecond})

	testFile := filepath.Join(dir, "export.json")
	require.NoError(t, os.WriteFile(testFile, []byte(`[{"title":"x"}]`), 0o644))

	select {
	case event := <-w.Events():
		assert.Equal(t, EventAdded, event.Type)
		assert.Equal(t, testFile, event.Path)
		assert.Equal(t, int64(15), event.Size)
	case err := <-w.Errors():
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestWatcher_FileDeletion(t *testing.T) {
	w, err := New(nil, Options{})
	require.NoError(t, err)
	defer w.Stop() //nolint:errcheck // Test cleanup

	dir := t.TempDir()
	testFile := filepath.Join(dir, "old.json")
	require.NoError(t, os.WriteFile(testFile, []byte("[]"), 0o644))
	require.NoError(t, w.Watch(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx) //nolint:errcheck // Test goroutine

	require.NoError(t, os.Remove(testFile))

	select {
	case event := <-w.Events():
		assert.Equal(t, EventRemoved, event.Type)
		assert.Equal(t, testFile, event.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for deletion event")
	}
}

func TestWatcher_FiltersIgnoredFiles(t *testing.T) {
	w, dir := startWatcher(t, Options{
		IgnoreHidden: true,
		SettleDelay:  50 * time.Millisecond,
		Extensions:   []string{".json"},
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.json"), []byte("[]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	normalFile := filepath.Join(dir, "normal.json")
	require.NoError(t, os.WriteFile(normalFile, []byte("[]"), 0o644))

	select {
	case event := <-w.Events():
		assert.Equal(t, normalFile, event.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	select {
	case event := <-w.Events():
		t.Fatalf("unexpected event for ignored file: %+v", event)
	case <-time.After(200 * time.Millisecond):
	}
}
