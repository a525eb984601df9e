package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// BadgerSlot persists the collection in a Badger database.
type BadgerSlot struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenBadger opens (or creates) a Badger database at path.
func OpenBadger(path string, logger *slog.Logger) (*BadgerSlot, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Every save is durable before memory is swapped
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return &BadgerSlot{db: db, logger: logger}, nil
}

// Get implements Slot.
func (b *BadgerSlot) Get(_ context.Context, key string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", key, err)
	}
	return data, nil
}

// Put implements Slot.
func (b *BadgerSlot) Put(_ context.Context, key string, data []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	return nil
}

// Close gracefully closes the database.
func (b *BadgerSlot) Close() error {
	if b.logger != nil {
		b.logger.Info("Closing database connection")
	}
	return b.db.Close()
}
