// Package sqlite provides a SQLite-backed store.Slot.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell/internal/store"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Slot persists the collection as a row in a SQLite database.
type Slot struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates a new SQLite slot at the given path.
// It configures WAL mode, sets pragmas, and runs the schema.
func Open(path string, logger *slog.Logger) (*Slot, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=FULL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	if logger != nil {
		logger.Info("SQLite database opened successfully", "path", path)
	}

	return &Slot{db: db, logger: logger}, nil
}

// Get implements store.Slot.
func (s *Slot) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM slots WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", key, err)
	}
	return data, nil
}

// Put implements store.Slot.
func (s *Slot) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Slot) Close() error {
	return s.db.Close()
}
