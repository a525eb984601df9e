// Package domain holds the post record shared by every layer.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Status labels shown next to a post.
const (
	StatusPublished = "Published"
	StatusDraft     = "Draft"
)

// UntitledLabel is displayed in place of an empty title.
const UntitledLabel = "(Untitled)"

// Post is a single Markdown entry.
//
// Timestamps are milliseconds since the Unix epoch so exported files stay
// compatible with the browser edition. Created is set once; Updated is nil
// until the first save.
type Post struct {
	ID        string
	Title     string
	Tags      string // free text, not parsed
	Content   string // Markdown
	Published bool
	Created   int64
	Updated   *int64

	// Extra holds fields this version does not know about. They survive
	// load, save, import and export unchanged.
	Extra map[string]json.RawMessage
}

// PostFields is the editable subset of a Post.
type PostFields struct {
	Title     string `json:"title"`
	Tags      string `json:"tags"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}

// Touched returns Updated when set and non-zero, otherwise Created.
func (p *Post) Touched() int64 {
	if p.Updated != nil && *p.Updated != 0 {
		return *p.Updated
	}
	return p.Created
}

// TouchedTime returns Touched as a time.Time.
func (p *Post) TouchedTime() time.Time {
	return time.UnixMilli(p.Touched())
}

// Status returns the published/draft label.
func (p *Post) Status() string {
	return StatusLabel(p.Published)
}

// DisplayTitle returns the title, or the untitled placeholder when empty.
func (p *Post) DisplayTitle() string {
	if p.Title == "" {
		return UntitledLabel
	}
	return p.Title
}

// Fields returns the editable fields of the post.
func (p *Post) Fields() PostFields {
	return PostFields{
		Title:     p.Title,
		Tags:      p.Tags,
		Content:   p.Content,
		Published: p.Published,
	}
}

// Apply overwrites the editable fields and stamps Updated.
func (p *Post) Apply(f PostFields, now int64) {
	p.Title = f.Title
	p.Tags = f.Tags
	p.Content = f.Content
	p.Published = f.Published
	p.Updated = &now
}

// Clone returns a deep copy.
func (p *Post) Clone() *Post {
	c := *p
	if p.Updated != nil {
		u := *p.Updated
		c.Updated = &u
	}
	if p.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(p.Extra))
		for k, v := range p.Extra {
			c.Extra[k] = slices.Clone(v)
		}
	}
	return &c
}

// StatusLabel maps a published flag to its label.
func StatusLabel(published bool) string {
	if published {
		return StatusPublished
	}
	return StatusDraft
}

// Millis returns a pointer to ms, for optional timestamps.
func Millis(ms int64) *int64 {
	return &ms
}

type postJSON struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Tags      string `json:"tags"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
	Created   int64  `json:"created"`
	Updated   *int64 `json:"updated,omitempty"`
}

var knownFields = map[string]bool{
	"id": true, "title": true, "tags": true, "content": true,
	"published": true, "created": true, "updated": true,
}

// MarshalJSON writes the known fields in a fixed order followed by Extra in key order.
func (p Post) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(postJSON{
		ID:        p.ID,
		Title:     p.Title,
		Tags:      p.Tags,
		Content:   p.Content,
		Published: p.Published,
		Created:   p.Created,
		Updated:   p.Updated,
	})
	if err != nil || len(p.Extra) == 0 {
		return base, err
	}

	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		if !knownFields[k] {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	var buf bytes.Buffer
	buf.Write(base[:len(base)-1])
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(p.Extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a post object. Null leaves the post zero.
// Missing or null fields decode to their zero value; "published" follows
// truthiness so records written by loosely typed clients still load.
func (p *Post) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return nil
	}

	var out Post
	var err error
	if out.ID, err = stringField(fields, "id"); err != nil {
		return err
	}
	if out.Title, err = stringField(fields, "title"); err != nil {
		return err
	}
	if out.Tags, err = stringField(fields, "tags"); err != nil {
		return err
	}
	if out.Content, err = stringField(fields, "content"); err != nil {
		return err
	}
	if out.Published, err = truthyField(fields, "published"); err != nil {
		return err
	}
	created, err := millisField(fields, "created")
	if err != nil {
		return err
	}
	if created != nil {
		out.Created = *created
	}
	updated, err := millisField(fields, "updated")
	if err != nil {
		return err
	}
	if updated != nil && *updated != 0 {
		out.Updated = updated
	}

	for k, v := range fields {
		if knownFields[k] {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[k] = v
	}

	*p = out
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

func stringField(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("field %q: %w", name, err)
	}
	return s, nil
}

func millisField(fields map[string]json.RawMessage, name string) (*int64, error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}
	ms := int64(f)
	return &ms, nil
}

func truthyField(fields map[string]json.RawMessage, name string) (bool, error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return false, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, fmt.Errorf("field %q: %w", name, err)
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case float64:
		return t != 0, nil
	case string:
		return t != "", nil
	default:
		return true, nil
	}
}

// DecodeImported reads one element of an import file. It never fails:
// elements that are not objects become blank posts, id and created are
// dropped, non-string text fields keep their JSON text and an updated that
// is not a number counts as absent.
func DecodeImported(raw json.RawMessage) Post {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Post{}
	}

	out := Post{
		Title:   textField(fields, "title"),
		Tags:    textField(fields, "tags"),
		Content: textField(fields, "content"),
	}
	out.Published, _ = truthyField(fields, "published")
	if updated, err := millisField(fields, "updated"); err == nil && updated != nil && *updated != 0 {
		out.Updated = updated
	}

	for k, v := range fields {
		if knownFields[k] {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[k] = v
	}
	return out
}

func textField(fields map[string]json.RawMessage, name string) string {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
