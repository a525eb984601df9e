package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/editor"
	"github.com/inkwellapp/inkwell/internal/store"
)

type replHarness struct {
	session *editor.Session
	store   *store.Store
	out     []string
	files   map[string][]byte
}

func setupREPL(t *testing.T, interactive bool) *replHarness {
	t.Helper()

	st := store.New(store.Options{Slot: store.NewMemorySlot()})
	st.Load(context.Background())

	h := &replHarness{
		session: editor.New(editor.Options{Store: st, Location: time.UTC}),
		store:   st,
		files:   map[string][]byte{},
	}

	origPrint, origRead, origWrite, origTerm := printlnFn, readFile, writeFile, isTerminal
	printlnFn = func(a ...any) (int, error) {
		h.out = append(h.out, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	readFile = func(name string) ([]byte, error) {
		data, ok := h.files[name]
		if !ok {
			return nil, os.ErrNotExist
		}
		return data, nil
	}
	writeFile = func(name string, data []byte, _ os.FileMode) error {
		h.files[name] = data
		return nil
	}
	isTerminal = func() bool { return interactive }
	t.Cleanup(func() {
		printlnFn, readFile, writeFile, isTerminal = origPrint, origRead, origWrite, origTerm
	})

	return h
}

func (h *replHarness) run(lines ...string) {
	runREPL(context.Background(), h.session, newInputScanner(strings.NewReader(strings.Join(lines, "\n"))))
}

func (h *replHarness) output() string {
	return strings.Join(h.out, "\n")
}

func TestREPL_EditSaveList(t *testing.T) {
	h := setupREPL(t, false)

	h.run(
		"edit title  My first post",
		"edit tags go, notes",
		"edit content",
		"# Heading",
		"body",
		".",
		"publish on",
		"save",
		"list",
		"preview",
		"exit",
	)

	require.Equal(t, 1, h.store.Len())
	post := h.store.All()[0]
	assert.Equal(t, "My first post", post.Title)
	assert.Equal(t, "go, notes", post.Tags)
	assert.Equal(t, "# Heading\nbody", post.Content)
	assert.True(t, post.Published)

	out := h.output()
	assert.Contains(t, out, "Published")
	assert.Contains(t, out, "Saved "+post.ID)
	assert.Contains(t, out, "* "+post.ID+"  My first post  [Published]")
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Bye!")
}

func TestREPL_OpenAndGoto(t *testing.T) {
	h := setupREPL(t, false)
	ctx := context.Background()

	first, err := h.store.Create(ctx, &domain.PostFields{Title: "First"})
	require.NoError(t, err)
	second, err := h.store.Create(ctx, &domain.PostFields{Title: "Second"})
	require.NoError(t, err)

	h.run("open "+first.ID, "goto #post-"+second.ID, "open nope", "goto garbage")

	assert.Equal(t, second.ID, h.session.CurrentID())
	out := h.output()
	assert.Contains(t, out, "Title:   First")
	assert.Contains(t, out, "Title:   Second")
	assert.Contains(t, out, "No such post: nope")
	assert.Contains(t, out, "No such post: garbage")
}

func TestREPL_Delete(t *testing.T) {
	t.Run("nothing open", func(t *testing.T) {
		h := setupREPL(t, false)
		h.run("delete yes")
		assert.Contains(t, h.output(), editor.NoticeNothingOpen)
	})

	t.Run("non-interactive requires yes", func(t *testing.T) {
		h := setupREPL(t, false)
		h.run("new", "delete")
		assert.Equal(t, 1, h.store.Len())
		assert.Contains(t, h.output(), `Type "delete yes" to confirm.`)

		h.run("delete yes")
		assert.Equal(t, 0, h.store.Len())
		assert.Contains(t, h.output(), "Deleted.")
	})

	t.Run("interactive prompt declined", func(t *testing.T) {
		h := setupREPL(t, true)
		h.run("new", "delete", "n")
		assert.Equal(t, 1, h.store.Len())
		assert.Contains(t, h.output(), "Delete this post? [y/N]")
		assert.Contains(t, h.output(), "Cancelled.")
	})

	t.Run("interactive prompt accepted", func(t *testing.T) {
		h := setupREPL(t, true)
		h.run("new", "delete", "y")
		assert.Equal(t, 0, h.store.Len())
		assert.Empty(t, h.session.CurrentID())
	})
}

func TestREPL_ExportImport(t *testing.T) {
	h := setupREPL(t, false)
	h.run("edit title Exported", "save", "export backup.json")

	data, ok := h.files["backup.json"]
	require.True(t, ok)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)

	h.run("import backup.json")
	assert.Equal(t, 2, h.store.Len())
	assert.Contains(t, h.output(), "Imported 1 posts.")

	h.files["bad.json"] = []byte(`{"not":"an array"}`)
	h.run("import bad.json")
	assert.Equal(t, 2, h.store.Len())
	assert.Contains(t, h.output(), editor.NoticeImportFailed)
}

func TestREPL_ViewWritesPage(t *testing.T) {
	h := setupREPL(t, false)

	h.run("view")
	assert.Contains(t, h.output(), editor.NoticeNothingOpen)

	h.run("edit title Hello World", "edit content Some *text*", "save", "view")
	page, ok := h.files["hello-world.html"]
	require.True(t, ok)
	assert.Contains(t, string(page), "<title>Hello World</title>")
	assert.Contains(t, string(page), "<em>text</em>")
}

func TestREPL_SearchFallsBackToList(t *testing.T) {
	h := setupREPL(t, false)
	h.run("edit title Apples", "save", "new", "edit title Carrots", "save")

	h.out = nil
	h.run("search apple")

	out := h.output()
	assert.Contains(t, out, "Apples")
	assert.NotContains(t, out, "Carrots")
}

func TestREPL_UnknownAndUsage(t *testing.T) {
	h := setupREPL(t, false)
	h.run("frobnicate", "publish maybe", "edit colour red", "help")

	out := h.output()
	assert.Contains(t, out, "Unknown command: frobnicate")
	assert.Contains(t, out, "Error: usage: publish on|off")
	assert.Contains(t, out, "Error: usage: edit title|tags|content <text>")
	assert.Contains(t, out, "Commands:")
}

func TestREPL_LongContentLine(t *testing.T) {
	h := setupREPL(t, false)
	long := strings.Repeat("a", 200*1024)

	h.run("edit content "+long, "save", "list")

	require.Equal(t, 1, h.store.Len())
	assert.Equal(t, long, h.store.All()[0].Content)
	assert.Contains(t, h.output(), "(Untitled)")
}

func TestREPL_ReportsOversizedLine(t *testing.T) {
	h := setupREPL(t, false)
	scanner := newInputScanner(strings.NewReader(strings.Repeat("b", maxLineSize+1)))

	runREPL(context.Background(), h.session, scanner)

	assert.Contains(t, h.output(), "Error: reading input:")
}
