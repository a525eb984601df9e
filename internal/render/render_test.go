package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview(t *testing.T) {
	r := New(nil)

	tests := []struct {
		name     string
		markdown string
		contains string
	}{
		{"heading", "# Hi", "<h1>Hi</h1>"},
		{"emphasis", "**bold**", "<strong>bold</strong>"},
		{"strikethrough", "~~gone~~", "<del>gone</del>"},
		{"table", "| a |\n| - |\n| 1 |", "<table>"},
		{"raw html passes through", "<div class=\"x\">raw</div>", `<div class="x">raw</div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, r.Preview(tt.markdown), tt.contains)
		})
	}
}

func TestPreview_Empty(t *testing.T) {
	assert.Empty(t, New(nil).Preview(""))
}

func TestStandalone(t *testing.T) {
	r := New(nil)

	doc, err := r.Standalone("Hello World", "# Body")
	require.NoError(t, err)

	assert.Equal(t,
		`<!doctype html><html><head><meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1"><title>Hello World</title></head><body><h1>Body</h1>`+"\n"+`</body></html>`,
		string(doc.HTML))
	assert.Equal(t, "hello-world.html", doc.Filename)
}

func TestStandalone_EscapesTitle(t *testing.T) {
	r := New(nil)

	doc, err := r.Standalone(`<script>"a" & 'b'</script>`, "")
	require.NoError(t, err)

	page := string(doc.HTML)
	assert.NotContains(t, page, "<script>")
	assert.Contains(t, page, "&lt;script&gt;")
	assert.Contains(t, page, "&amp;")
	assert.Contains(t, page, "&#34;a&#34;")
	assert.Contains(t, page, "&#39;b&#39;")
	assert.Equal(t, "script-a-b-script.html", doc.Filename)
}

func TestStandalone_UntitledFilename(t *testing.T) {
	doc, err := New(nil).Standalone("", "text")
	require.NoError(t, err)
	assert.Equal(t, "post.html", doc.Filename)
	assert.Contains(t, string(doc.HTML), "<title></title>")
}

func TestPlainText(t *testing.T) {
	r := New(nil)
	got := r.PlainText("# Title\n\nSome *emphasis* and `code`.\n\n- one\n- two")
	assert.Equal(t, "Title Some emphasis and code. one two", got)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"paragraphs", "<p>a</p><p>b</p>", "a b"},
		{"entities", "<p>fish &amp; chips</p>", "fish & chips"},
		{"script dropped", "<p>x</p><script>alert(1)</script>", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}

func TestFromHTML(t *testing.T) {
	md, err := FromHTML("<p><strong>bold</strong> text</p>")
	require.NoError(t, err)
	assert.Equal(t, "**bold** text", md)

	md, err = FromHTML("   ")
	require.NoError(t, err)
	assert.Empty(t, md)
}

func TestViewCache(t *testing.T) {
	c := NewViewCache(time.Minute)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	doc := &Document{Filename: "a.html", HTML: []byte("<p>a</p>")}
	token := c.Put(doc)
	assert.Len(t, token, 36)
	assert.False(t, strings.ContainsAny(token, "/#"))

	got, ok := c.Get(token)
	require.True(t, ok)
	assert.Same(t, doc, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(token)
	assert.False(t, ok, "expired entry is gone")
}

func TestViewCache_PutDropsExpired(t *testing.T) {
	c := NewViewCache(time.Second)
	now := time.Unix(0, 0)
	c.now = func() time.Time { return now }

	c.Put(&Document{})
	c.Put(&Document{})
	assert.Equal(t, 2, c.Len())

	now = now.Add(time.Minute)
	c.Put(&Document{})
	assert.Equal(t, 1, c.Len())
}

func TestNewViewCache_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultViewTTL, NewViewCache(0).TTL())
	assert.Equal(t, time.Minute, NewViewCache(time.Minute).TTL())
}
