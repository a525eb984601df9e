package store

import (
	"errors"

	domainerrors "github.com/inkwellapp/inkwell/internal/errors"
)

var (
	// ErrSlotEmpty is returned by a Slot when the key has never been written.
	ErrSlotEmpty = errors.New("slot is empty")

	// ErrPostNotFound is returned when an id is absent from the collection.
	ErrPostNotFound = domainerrors.NotFound("post not found")
)
