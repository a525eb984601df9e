// Package backup exports the post collection to a JSON file and imports such
// files back, from an upload or from a watched inbox directory.
package backup

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/inkwellapp/inkwell/internal/domain"
)

// ContentType is the MIME type of export files.
const ContentType = "application/json"

// File is a generated download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ExportFilename returns the download name for an export taken at now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("blog_export_%d.json", now.UnixMilli())
}

// Export serializes posts as a pretty-printed JSON array.
func Export(posts []*domain.Post, now time.Time) (*File, error) {
	if posts == nil {
		posts = []*domain.Post{}
	}

	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	return &File{
		Name:        ExportFilename(now),
		ContentType: ContentType,
		Data:        data,
	}, nil
}
