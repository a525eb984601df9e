package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/errors"
	"github.com/inkwellapp/inkwell/internal/store"
)

// ErrInvalidFormat indicates the import payload is not a JSON array.
var ErrInvalidFormat = errors.ErrInvalidFormat

// ParseRecords decodes an export file. Only a payload that is not a JSON
// array fails; every element is read leniently by domain.DecodeImported.
func ParseRecords(data []byte) ([]domain.Post, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.InvalidFormat("import file must contain a JSON array", nil)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, errors.InvalidFormat("import file is not valid JSON", err)
	}

	records := make([]domain.Post, len(raw))
	for i, elem := range raw {
		records[i] = domain.DecodeImported(elem)
	}
	return records, nil
}

// Importer adds the posts of an export file to the store.
type Importer struct {
	store  *store.Store
	logger *slog.Logger
}

// NewImporter creates an Importer writing to s.
func NewImporter(s *store.Store, logger *slog.Logger) *Importer {
	return &Importer{store: s, logger: logger}
}

// Import parses data and prepends its posts under fresh ids, returning how
// many were added. On any failure the store is left untouched.
func (i *Importer) Import(ctx context.Context, data []byte) (int, error) {
	records, err := ParseRecords(data)
	if err != nil {
		if i.logger != nil {
			i.logger.Warn("import rejected", "error", err)
		}
		return 0, err
	}

	imported, err := i.store.ImportRecords(ctx, records)
	if err != nil {
		return 0, err
	}
	return len(imported), nil
}
