package search

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/inkwellapp/inkwell/internal/domain"
)

// Indexer keeps a SearchIndex in step with the post store.
// It satisfies store.SearchIndexer.
type Indexer struct {
	index *SearchIndex
	text  TextExtractor
}

// NewIndexer creates an Indexer writing to index. Content is converted to
// plain text with text before indexing.
func NewIndexer(index *SearchIndex, text TextExtractor) *Indexer {
	return &Indexer{index: index, text: text}
}

// IndexPosts adds or replaces posts in the index.
func (i *Indexer) IndexPosts(_ context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	docs := make([]*PostDocument, len(posts))
	for n, p := range posts {
		docs[n] = PostToSearchDocument(p, i.text)
	}
	return i.index.IndexDocuments(docs)
}

// DeletePost removes a post from the index.
func (i *Indexer) DeletePost(_ context.Context, postID string) error {
	return i.index.DeleteDocument(postID)
}

// Sync rebuilds the index from posts unless it was last synced from an
// identical collection. Reports whether a rebuild happened.
func (i *Indexer) Sync(ctx context.Context, posts []*domain.Post) (bool, error) {
	fp := Fingerprint(posts)
	stored, err := i.index.Fingerprint()
	if err == nil && stored == fp {
		return false, nil
	}

	if err := i.index.Rebuild(); err != nil {
		return false, err
	}
	if err := i.IndexPosts(ctx, posts); err != nil {
		return true, err
	}
	if err := i.index.SetFingerprint(fp); err != nil {
		return true, err
	}
	i.index.logger.Info("search index synced", "documents", len(posts))
	return true, nil
}

// Fingerprint hashes the indexed fields of posts in collection order.
func Fingerprint(posts []*domain.Post) string {
	h := sha256.New()
	var n [8]byte
	writeString := func(s string) {
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}
	for _, p := range posts {
		writeString(p.ID)
		writeString(p.Title)
		writeString(p.Tags)
		writeString(p.Content)
		flag := byte(0)
		if p.Published {
			flag = 1
		}
		h.Write([]byte{flag})
		binary.BigEndian.PutUint64(n[:], uint64(p.Touched()))
		h.Write(n[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
