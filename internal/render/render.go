// Package render turns Markdown into preview HTML and standalone documents.
//
// Output is not sanitized: raw HTML in a post reaches the page unchanged.
// Posts come from the single local user who also reads them.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/inkwellapp/inkwell/internal/util"
)

//go:embed templates/*.html
var templatesFS embed.FS

var standaloneTmpl = template.Must(template.ParseFS(templatesFS, "templates/standalone.html"))

// Renderer converts Markdown to HTML. Safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	logger *slog.Logger
}

// New creates a Renderer with GitHub Flavored Markdown enabled.
func New(logger *slog.Logger) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithUnsafe(),
		),
	)
	return &Renderer{md: md, logger: logger}
}

// Preview renders markdown to an HTML fragment.
func (r *Renderer) Preview(markdown string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		if r.logger != nil {
			r.logger.Warn("markdown conversion failed", "error", err)
		}
		return template.HTMLEscapeString(markdown)
	}
	return buf.String()
}

// Document is a rendered standalone page.
type Document struct {
	Filename string `json:"filename"`
	HTML     []byte `json:"-"`
}

// Standalone renders a complete HTML page for a post. The title is escaped;
// the body is the rendered Markdown.
func (r *Renderer) Standalone(title, markdown string) (*Document, error) {
	var buf bytes.Buffer
	err := standaloneTmpl.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(r.Preview(markdown)), //nolint:gosec // unsanitized preview is intended
	})
	if err != nil {
		return nil, fmt.Errorf("render standalone page: %w", err)
	}

	return &Document{
		Filename: util.Slugify(title) + ".html",
		HTML:     bytes.TrimRight(buf.Bytes(), "\n"),
	}, nil
}

// PlainText renders markdown and strips all markup, for indexing.
func (r *Renderer) PlainText(markdown string) string {
	return StripHTML(r.Preview(markdown))
}

// FromHTML converts pasted HTML into Markdown.
func FromHTML(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return "", fmt.Errorf("convert html to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}
