// Package editor tracks the open post and mediates between the edit form
// and the post store.
package editor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/inkwellapp/inkwell/internal/backup"
	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/errors"
	"github.com/inkwellapp/inkwell/internal/listview"
	"github.com/inkwellapp/inkwell/internal/logger"
	"github.com/inkwellapp/inkwell/internal/nav"
	"github.com/inkwellapp/inkwell/internal/render"
	"github.com/inkwellapp/inkwell/internal/store"
)

// Notices shown to the user.
const (
	NoticeImportFailed = "Failed to import file."
	NoticeNothingOpen  = "Open or save a post first."
	NoticeConfirm      = "Delete this post?"
)

// ImportedNotice reports a successful import of n posts.
func ImportedNotice(n int) string {
	return fmt.Sprintf("Imported %d posts.", n)
}

// ErrNothingOpen is returned by ViewCurrent when no post is open.
var ErrNothingOpen = errors.NotFound(NoticeNothingOpen)

// ErrNotConfirmed is returned by DeleteCurrent when the user has not confirmed.
var ErrNotConfirmed = errors.NotConfirmed(NoticeConfirm)

// Form holds the staged values of the edit form.
type Form = domain.PostFields

// View is a snapshot of everything the UI shows.
type View struct {
	CurrentID      string         `json:"current_id"`
	Form           Form           `json:"form"`
	Preview        string         `json:"preview"`
	PublishedLabel string         `json:"published_label"`
	Fragment       string         `json:"fragment"`
	Query          string         `json:"query"`
	Rows           []listview.Row `json:"rows"`
}

// Options configures a Session.
type Options struct {
	Store    *store.Store
	Renderer *render.Renderer
	Importer *backup.Importer // defaults to an importer over Store
	Logger   *slog.Logger

	// Location formats list timestamps; defaults to time.Local.
	Location *time.Location
	Now      func() time.Time
}

// Session is the single editor instance. Every method runs to completion
// under the session lock, so concurrent callers observe operations one at a time.
type Session struct {
	mu       sync.Mutex
	store    *store.Store
	renderer *render.Renderer
	importer *backup.Importer
	logger   *slog.Logger
	searcher Searcher
	loc      *time.Location
	now      func() time.Time

	currentID string
	form      Form
	preview   string
	fragment  string
	query     string
}

// New creates a Session with nothing open.
func New(opts Options) *Session {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Renderer == nil {
		opts.Renderer = render.New(opts.Logger)
	}
	if opts.Importer == nil {
		opts.Importer = backup.NewImporter(opts.Store, opts.Logger)
	}
	return &Session{
		store:    opts.Store,
		renderer: opts.Renderer,
		importer: opts.Importer,
		logger:   logger.OrDiscard(opts.Logger),
		loc:      opts.Location,
		now:      opts.Now,
	}
}

// View returns the current state with the list rendered for the current query.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() View {
	return View{
		CurrentID:      s.currentID,
		Form:           s.form,
		Preview:        s.preview,
		PublishedLabel: domain.StatusLabel(s.form.Published),
		Fragment:       s.fragment,
		Query:          s.query,
		Rows:           listview.Render(s.store.All(), s.query, s.loc),
	}
}

// CurrentID returns the id of the open post, or "" when none is open.
func (s *Session) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// OpenPost loads the post into the form. Unknown ids are ignored and
// reported as false.
func (s *Session) OpenPost(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openPost(id)
}

func (s *Session) openPost(id string) bool {
	post, ok := s.store.FindByID(id)
	if !ok {
		s.logger.Debug("open ignored, post not found", "id", id)
		return false
	}
	s.currentID = post.ID
	s.form = post.Fields()
	s.preview = s.renderer.Preview(s.form.Content)
	s.fragment = nav.Fragment(post.ID)
	return true
}

// NewPost creates a blank draft and opens it.
func (s *Session) NewPost(ctx context.Context) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, err := s.store.Create(ctx, nil)
	if err != nil {
		return nil, err
	}
	s.openPost(post.ID)
	return post, nil
}

// SaveCurrent commits form to the open post, or creates a post from it when
// nothing is open. Title and tags are trimmed; content is kept verbatim.
// Saving while the open post has been removed elsewhere does nothing.
func (s *Session) SaveCurrent(ctx context.Context, form Form) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	form.Title = strings.TrimSpace(form.Title)
	form.Tags = strings.TrimSpace(form.Tags)

	var (
		post *domain.Post
		err  error
	)
	if s.currentID == "" {
		post, err = s.store.Create(ctx, &form)
	} else {
		post, err = s.store.Update(ctx, s.currentID, form)
		if errors.Is(err, store.ErrPostNotFound) {
			s.logger.Debug("save ignored, open post no longer exists", "id", s.currentID)
			return nil, nil
		}
	}
	if err != nil {
		return nil, err
	}

	s.currentID = post.ID
	if s.form.Content != form.Content {
		s.preview = s.renderer.Preview(form.Content)
	}
	s.form = form
	s.fragment = nav.Fragment(post.ID)
	return post, nil
}

// DeleteCurrent removes the open post once confirmed and clears the editor.
// With nothing open it does nothing; without confirmation it returns
// ErrNotConfirmed and changes nothing.
func (s *Session) DeleteCurrent(ctx context.Context, confirmed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID == "" {
		return nil
	}
	if !confirmed {
		return ErrNotConfirmed
	}

	err := s.store.Delete(ctx, s.currentID)
	if err != nil && !errors.Is(err, store.ErrPostNotFound) {
		return err
	}

	s.currentID = ""
	s.clearEditor()
	s.fragment = ""
	return nil
}

// ClearEditor blanks the form and preview. The open post, if any, stays open.
func (s *Session) ClearEditor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearEditor()
}

func (s *Session) clearEditor() {
	s.form = Form{}
	s.preview = ""
}

// SetContent stages new content and re-renders the preview.
func (s *Session) SetContent(content string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Content = content
	s.preview = s.renderer.Preview(content)
	return s.preview
}

// SetForm stages every form field without saving.
func (s *Session) SetForm(form Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contentChanged := s.form.Content != form.Content
	s.form = form
	if contentChanged {
		s.preview = s.renderer.Preview(form.Content)
	}
}

// SetPublished stages the published flag; the label follows immediately.
func (s *Session) SetPublished(published bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Published = published
	return domain.StatusLabel(published)
}

// SetQuery sets the list filter.
func (s *Session) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
}

// Navigate opens the post named by a "post-<id>" fragment. Malformed
// fragments and unknown ids leave the editor as it was.
func (s *Session) Navigate(fragment string) bool {
	id, ok := nav.ParseFragment(fragment)
	if !ok {
		return false
	}
	return s.OpenPost(id)
}

// Import adds the posts of an export file to the store.
func (s *Session) Import(ctx context.Context, data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.importer.Import(ctx, data)
}

// Export serializes every post to a download file.
func (s *Session) Export() (*backup.File, error) {
	return backup.Export(s.store.All(), s.now())
}

// ViewCurrent renders the saved state of the open post as a standalone page.
func (s *Session) ViewCurrent() (*render.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID == "" {
		return nil, ErrNothingOpen
	}
	post, ok := s.store.FindByID(s.currentID)
	if !ok {
		return nil, ErrNothingOpen
	}
	return s.renderer.Standalone(post.Title, post.Content)
}
