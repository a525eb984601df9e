// Package search provides full-text search over posts using Bleve.
package search

import (
	"github.com/inkwellapp/inkwell/internal/domain"
)

// TextExtractor turns Markdown into plain text for indexing.
type TextExtractor interface {
	PlainText(markdown string) string
}

// PostDocument is the indexed form of a post.
type PostDocument struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Tags      string `json:"tags"`
	Content   string `json:"content"` // plain text
	Published bool   `json:"published"`
	Touched   int64  `json:"touched"` // Unix millis
}

// PostToSearchDocument converts a post, stripping Markdown from its content
// when text is non-nil.
func PostToSearchDocument(p *domain.Post, text TextExtractor) *PostDocument {
	content := p.Content
	if text != nil {
		content = text.PlainText(p.Content)
	}
	return &PostDocument{
		ID:        p.ID,
		Title:     p.Title,
		Tags:      p.Tags,
		Content:   content,
		Published: p.Published,
		Touched:   p.Touched(),
	}
}

// ToMap converts the document to a map with the field names of the index mapping.
func (d *PostDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":        d.ID,
		"published": d.Published,
		"touched":   d.Touched,
	}

	if d.Title != "" {
		m["title"] = d.Title
	}
	if d.Tags != "" {
		m["tags"] = d.Tags
	}
	if d.Content != "" {
		m["content"] = d.Content
	}

	return m
}
