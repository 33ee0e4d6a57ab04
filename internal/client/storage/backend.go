// Package storage is the client's persistent key-value store.
//
// A Backend is the raw storage medium (SQLite file, process memory, Redis,
// optionally sealed by SecureBackend). Store wraps a Backend with the
// availability-first contract used by the rest of the client: reads never
// fail, they report "absent"; writes log and swallow their errors. State
// is a reactive, optimistic view of a single key.
package storage

import "context"

// Backend stores opaque byte values by name. Implementations must be safe
// for concurrent use. Delete of an absent key is not an error.
type Backend interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Clear removes every key owned by this backend.
	Clear(ctx context.Context) error
	Close() error
}
