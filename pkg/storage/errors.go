package storage

import "errors"

var (
	// ErrReadOnly is returned when writing through a read-only handle.
	ErrReadOnly = errors.New("slot store opened read-only")

	// ErrEmptyKey is returned when a slot key is empty.
	ErrEmptyKey = errors.New("slot key cannot be empty")

	// ErrClosed is returned when the store has been closed.
	ErrClosed = errors.New("slot store is closed")
)
