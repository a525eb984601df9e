// Package store owns the post collection and keeps it in step with a
// persistent Slot.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/inkwellapp/inkwell/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell/internal/errors"
	"github.com/inkwellapp/inkwell/internal/id"
)

// DefaultKey is the slot key the collection is stored under.
const DefaultKey = "simple_blog_posts_v1"

// maxIDAttempts bounds regeneration when a fresh id collides with an existing one.
const maxIDAttempts = 8

// SearchIndexer is the interface for updating the search index.
// Store notifies it after each committed mutation; failures are logged, never returned.
type SearchIndexer interface {
	IndexPosts(ctx context.Context, posts []*domain.Post) error
	DeletePost(ctx context.Context, postID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

// IndexPosts is a no-op.
func (NoopSearchIndexer) IndexPosts(context.Context, []*domain.Post) error { return nil }

// DeletePost is a no-op.
func (NoopSearchIndexer) DeletePost(context.Context, string) error { return nil }

// NewNoopSearchIndexer creates a new no-op search indexer for testing.
func NewNoopSearchIndexer() SearchIndexer {
	return NoopSearchIndexer{}
}

// Options configures a Store.
type Options struct {
	Slot   Slot
	Key    string // defaults to DefaultKey
	Logger *slog.Logger

	// NewID and Now default to id.Generate and time.Now.
	NewID func() (string, error)
	Now   func() time.Time
}

// Store is the single source of truth for posts.
//
// The collection is ordered newest-inserted first. Every mutation builds the
// next collection, writes it to the slot, and only then replaces the
// in-memory copy, so a failed write leaves memory equal to storage.
type Store struct {
	mu     sync.RWMutex
	posts  []*domain.Post
	slot   Slot
	key    string
	logger *slog.Logger
	newID  func() (string, error)
	now    func() time.Time

	// Set via SetSearchIndexer after store creation to avoid circular dependencies.
	searchIndexer SearchIndexer
}

// New creates a Store over the given slot. Call Load before use.
func New(opts Options) *Store {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.NewID == nil {
		opts.NewID = id.Generate
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		slot:          opts.Slot,
		key:           opts.Key,
		logger:        opts.Logger,
		newID:         opts.NewID,
		now:           opts.Now,
		searchIndexer: NewNoopSearchIndexer(),
	}
}

// SetSearchIndexer sets the search indexer for keeping search in sync.
func (s *Store) SetSearchIndexer(indexer SearchIndexer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexer == nil {
		indexer = NewNoopSearchIndexer()
	}
	s.searchIndexer = indexer
}

// Key returns the slot key.
func (s *Store) Key() string { return s.key }

// Load reads the persisted collection. A missing or malformed blob yields an
// empty collection; the failure is logged and never returned.
func (s *Store) Load(ctx context.Context) {
	posts, err := s.read(ctx)
	if err != nil {
		if !errors.Is(err, ErrSlotEmpty) && s.logger != nil {
			s.logger.Warn("stored posts unreadable, starting empty", "key", s.key, "error", err)
		}
		posts = nil
	}

	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("posts loaded", "count", len(posts))
	}
}

func (s *Store) read(ctx context.Context) ([]*domain.Post, error) {
	data, err := s.slot.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}

	var records []*domain.Post
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	posts := make([]*domain.Post, 0, len(records))
	for _, p := range records {
		if p != nil {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

// Save writes the whole collection to the slot.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, s.posts)
}

func (s *Store) write(ctx context.Context, posts []*domain.Post) error {
	if posts == nil {
		posts = []*domain.Post{}
	}
	data, err := json.Marshal(posts)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "encode posts")
	}
	if err := s.slot.Put(ctx, s.key, data); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "persist posts")
	}
	return nil
}

// commit persists next and swaps it in. Caller holds s.mu.
func (s *Store) commit(ctx context.Context, next []*domain.Post) error {
	if err := s.write(ctx, next); err != nil {
		if s.logger != nil {
			s.logger.Error("save failed, collection unchanged", "error", err)
		}
		return err
	}
	s.posts = next
	return nil
}

// freshID returns an id not present in taken. Caller holds s.mu.
func (s *Store) freshID(taken map[string]bool) (string, error) {
	for range maxIDAttempts {
		candidate, err := s.newID()
		if err != nil {
			return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "generate post id")
		}
		if !taken[candidate] {
			taken[candidate] = true
			return candidate, nil
		}
		if s.logger != nil {
			s.logger.Warn("post id collision, regenerating", "id", candidate)
		}
	}
	return "", domainerrors.Internal("could not generate a unique post id")
}

func (s *Store) takenIDs() map[string]bool {
	taken := make(map[string]bool, len(s.posts))
	for _, p := range s.posts {
		taken[p.ID] = true
	}
	return taken
}

// Create inserts a new post at the front of the collection and persists it.
// A nil fields value creates a blank draft with no updated stamp; otherwise
// the fields are copied and both created and updated are stamped.
func (s *Store) Create(ctx context.Context, fields *domain.PostFields) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	postID, err := s.freshID(s.takenIDs())
	if err != nil {
		return nil, err
	}

	now := s.now().UnixMilli()
	post := &domain.Post{ID: postID, Created: now}
	if fields != nil {
		post.Apply(*fields, now)
	}

	next := make([]*domain.Post, 0, len(s.posts)+1)
	next = append(next, post)
	next = append(next, s.posts...)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Debug("post created", "id", post.ID)
	}
	s.index(ctx, post)
	return post.Clone(), nil
}

// Update overwrites the editable fields of the post with the given id and
// stamps updated. Returns ErrPostNotFound, with nothing changed, when absent.
func (s *Store) Update(ctx context.Context, postID string, fields domain.PostFields) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(postID)
	if i < 0 {
		return nil, ErrPostNotFound
	}

	updated := s.posts[i].Clone()
	now := s.now().UnixMilli()
	if now < updated.Created {
		now = updated.Created
	}
	updated.Apply(fields, now)

	next := slices.Clone(s.posts)
	next[i] = updated
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	s.index(ctx, updated)
	return updated.Clone(), nil
}

// Delete removes the post with the given id. Returns ErrPostNotFound, with
// nothing changed, when absent.
func (s *Store) Delete(ctx context.Context, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(postID)
	if i < 0 {
		return ErrPostNotFound
	}

	next := slices.Delete(slices.Clone(s.posts), i, i+1)
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Debug("post deleted", "id", postID)
	}
	if err := s.searchIndexer.DeletePost(ctx, postID); err != nil && s.logger != nil {
		s.logger.Warn("failed to remove post from search index", "post_id", postID, "error", err)
	}
	return nil
}

// ImportRecords prepends records to the collection under fresh ids in one
// write. Each record gets a new created stamp and keeps a non-zero updated,
// otherwise updated is stamped too. A kept updated is not clamped, so it may
// precede created. Unknown fields are carried over.
func (s *Store) ImportRecords(ctx context.Context, records []domain.Post) ([]*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := s.takenIDs()
	now := s.now().UnixMilli()

	imported := make([]*domain.Post, 0, len(records))
	for i := range records {
		p := records[i].Clone()
		postID, err := s.freshID(taken)
		if err != nil {
			return nil, err
		}
		p.ID = postID
		p.Created = now
		if p.Updated == nil || *p.Updated == 0 {
			p.Updated = domain.Millis(now)
		}
		imported = append(imported, p)
	}

	next := make([]*domain.Post, 0, len(imported)+len(s.posts))
	next = append(next, imported...)
	next = append(next, s.posts...)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("posts imported", "count", len(imported))
	}
	s.index(ctx, imported...)
	return cloneAll(imported), nil
}

// FindByID returns a copy of the post with the given id.
func (s *Store) FindByID(postID string) (*domain.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(postID)
	if i < 0 {
		return nil, false
	}
	return s.posts[i].Clone(), true
}

// All returns a copy of the collection in stored order.
func (s *Store) All() []*domain.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.posts)
}

// Len returns the number of posts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// Close closes the underlying slot.
func (s *Store) Close() error {
	return s.slot.Close()
}

func (s *Store) indexOf(postID string) int {
	return slices.IndexFunc(s.posts, func(p *domain.Post) bool { return p.ID == postID })
}

func (s *Store) index(ctx context.Context, posts ...*domain.Post) {
	if err := s.searchIndexer.IndexPosts(ctx, cloneAll(posts)); err != nil && s.logger != nil {
		s.logger.Warn("failed to index posts for search", "count", len(posts), "error", err)
	}
}

func cloneAll(posts []*domain.Post) []*domain.Post {
	out := make([]*domain.Post, len(posts))
	for i, p := range posts {
		out[i] = p.Clone()
	}
	return out
}
