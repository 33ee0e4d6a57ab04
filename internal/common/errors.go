package common

import "errors"

var (
	// Storage-level errors.
	ErrNotFound = errors.New("not found")
	ErrClosed   = errors.New("closed")

	// Decoding of persisted records.
	ErrUnsupportedVersion = errors.New("unsupported record version")
	ErrCorruptRecord      = errors.New("corrupt record")
)
