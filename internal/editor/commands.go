package editor

import (
	"context"
	"fmt"

	"github.com/inkwellapp/inkwell/internal/backup"
	"github.com/inkwellapp/inkwell/internal/errors"
	"github.com/inkwellapp/inkwell/internal/render"
	"github.com/inkwellapp/inkwell/internal/search"
)

// Command is a user action dispatched to a Session.
type Command interface {
	command()
}

type (
	// NewPost creates and opens a blank draft.
	NewPost struct{}

	// SaveCurrent commits the form.
	SaveCurrent struct{ Form Form }

	// DeleteCurrent removes the open post.
	DeleteCurrent struct{ Confirmed bool }

	// OpenPost opens a post by id.
	OpenPost struct{ ID string }

	// Navigate opens the post named by a location fragment.
	Navigate struct{ Fragment string }

	// ClearEditor blanks the form.
	ClearEditor struct{}

	// Import merges an export file into the store.
	Import struct{ Data []byte }

	// Export produces a download of every post.
	Export struct{}

	// ViewCurrent renders the open post as a standalone page.
	ViewCurrent struct{}

	// Search filters the list. When the session has a full-text searcher the
	// ranked hits are returned as well.
	Search struct{ Query string }
)

func (NewPost) command()       {}
func (SaveCurrent) command()   {}
func (DeleteCurrent) command() {}
func (OpenPost) command()      {}
func (Navigate) command()      {}
func (ClearEditor) command()   {}
func (Import) command()        {}
func (Export) command()        {}
func (ViewCurrent) command()   {}
func (Search) command()        {}

// Result is the outcome of a dispatched command.
type Result struct {
	View     View                 `json:"view"`
	Notice   string               `json:"notice,omitempty"`
	File     *backup.File         `json:"-"`
	Document *render.Document     `json:"-"`
	Imported int                  `json:"imported,omitempty"`
	Search   *search.SearchResult `json:"search,omitempty"`
}

// Searcher runs ranked full-text queries.
type Searcher interface {
	Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error)
}

// SetSearcher enables ranked results for Search commands.
func (s *Session) SetSearcher(searcher Searcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searcher = searcher
}

// Dispatch applies cmd and returns the resulting view. Notices that the user
// should see are carried in Result.Notice rather than as errors, except for
// ErrNotConfirmed and storage failures.
func (s *Session) Dispatch(ctx context.Context, cmd Command) (*Result, error) {
	res := &Result{}

	switch c := cmd.(type) {
	case NewPost:
		if _, err := s.NewPost(ctx); err != nil {
			return nil, err
		}

	case SaveCurrent:
		if _, err := s.SaveCurrent(ctx, c.Form); err != nil {
			return nil, err
		}

	case DeleteCurrent:
		if err := s.DeleteCurrent(ctx, c.Confirmed); err != nil {
			return nil, err
		}

	case OpenPost:
		s.OpenPost(c.ID)

	case Navigate:
		s.Navigate(c.Fragment)

	case ClearEditor:
		s.ClearEditor()

	case Import:
		n, err := s.Import(ctx, c.Data)
		switch {
		case err == nil:
			res.Imported = n
			res.Notice = ImportedNotice(n)
		case errors.Is(err, errors.ErrInvalidFormat):
			res.Notice = NoticeImportFailed
		default:
			return nil, err
		}

	case Export:
		file, err := s.Export()
		if err != nil {
			return nil, err
		}
		res.File = file

	case ViewCurrent:
		doc, err := s.ViewCurrent()
		switch {
		case err == nil:
			res.Document = doc
		case errors.Is(err, ErrNothingOpen):
			res.Notice = NoticeNothingOpen
		default:
			return nil, err
		}

	case Search:
		s.SetQuery(c.Query)
		hits, err := s.rankedSearch(ctx, c.Query)
		if err != nil {
			s.logger.Warn("full-text search failed, using list filter", "error", err)
		}
		res.Search = hits

	default:
		return nil, fmt.Errorf("unknown command %T", cmd)
	}

	res.View = s.View()
	return res, nil
}

func (s *Session) rankedSearch(ctx context.Context, query string) (*search.SearchResult, error) {
	s.mu.Lock()
	searcher := s.searcher
	s.mu.Unlock()

	if searcher == nil {
		return nil, nil
	}
	params := search.DefaultSearchParams()
	params.Query = query
	return searcher.Search(ctx, params)
}
