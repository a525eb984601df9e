// Package listview derives the filtered, recency-sorted rows shown in the post list.
package listview

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/inkwellapp/inkwell/internal/domain"
)

// TimestampLayout is the format of the time part of a row subtitle.
const TimestampLayout = "2006-01-02 15:04:05"

// subtitleSeparator joins tags and timestamp in a row subtitle.
const subtitleSeparator = " • "

// Row is one entry of the rendered list.
type Row struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Tags      string `json:"tags"`
	Subtitle  string `json:"subtitle"`
	Status    string `json:"status"`
	Published bool   `json:"published"`
	Touched   int64  `json:"touched"`
}

// Render sorts posts most recently touched first and keeps those matching
// query. An empty or whitespace-only query matches everything. A nil loc
// formats timestamps in local time.
func Render(posts []*domain.Post, query string, loc *time.Location) []Row {
	if loc == nil {
		loc = time.Local
	}

	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b *domain.Post) int {
		ta, tb := a.Touched(), b.Touched()
		switch {
		case ta > tb:
			return -1
		case ta < tb:
			return 1
		default:
			return 0
		}
	})

	matcher := NewMatcher(query)
	rows := make([]Row, 0, len(sorted))
	for _, p := range sorted {
		if !matcher.Match(p) {
			continue
		}
		rows = append(rows, toRow(p, loc))
	}
	return rows
}

func toRow(p *domain.Post, loc *time.Location) Row {
	return Row{
		ID:        p.ID,
		Title:     p.DisplayTitle(),
		Tags:      p.Tags,
		Subtitle:  p.Tags + subtitleSeparator + p.TouchedTime().In(loc).Format(TimestampLayout),
		Status:    p.Status(),
		Published: p.Published,
		Touched:   p.Touched(),
	}
}

// Matcher tests posts against a case-insensitive substring query.
type Matcher struct {
	needle string
	fold   cases.Caser
}

// NewMatcher prepares query for matching.
func NewMatcher(query string) *Matcher {
	fold := cases.Fold()
	return &Matcher{
		needle: fold.String(strings.TrimSpace(query)),
		fold:   fold,
	}
}

// Match reports whether the post's title, tags and content, space-joined,
// contain the query.
func (m *Matcher) Match(p *domain.Post) bool {
	if m.needle == "" {
		return true
	}
	haystack := m.fold.String(p.Title + " " + p.Tags + " " + p.Content)
	return strings.Contains(haystack, m.needle)
}
