package store

import (
	"context"
	"slices"
	"sync"
)

// Slot is a persistent key-value cell holding the serialized collection.
// Get returns ErrSlotEmpty when the key has never been written.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Close() error
}

// MemorySlot keeps values in process memory. Used by tests and the
// throwaway terminal mode.
type MemorySlot struct {
	mu     sync.RWMutex
	values map[string][]byte

	// FailPut, when set, is returned from every Put.
	FailPut error
}

// NewMemorySlot creates an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

// Get implements Slot.
func (m *MemorySlot) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, ErrSlotEmpty
	}
	return slices.Clone(v), nil
}

// Put implements Slot.
func (m *MemorySlot) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailPut != nil {
		return m.FailPut
	}
	m.values[key] = slices.Clone(data)
	return nil
}

// Close implements Slot.
func (m *MemorySlot) Close() error { return nil }
