package storage

import (
	"context"

	"github.com/dmitrijs2005/pengaduan/internal/logging"
)

// LookupStatus tells apart the outcomes that Get folds into "absent".
type LookupStatus int

const (
	Absent LookupStatus = iota
	Found
	Failed
)

func (s LookupStatus) String() string {
	switch s {
	case Found:
		return "found"
	case Failed:
		return "failed"
	default:
		return "absent"
	}
}

// Result is the tagged outcome of Store.Lookup. Err is set only when
// Status is Failed.
type Result struct {
	Status LookupStatus
	Value  string
	Err    error
}

// Store is the string-valued, failure-tolerant view over a Backend.
type Store struct {
	backend Backend
	log     logging.Logger
}

func NewStore(backend Backend, log logging.Logger) *Store {
	return &Store{backend: backend, log: log.With("component", "store")}
}

func (s *Store) Lookup(ctx context.Context, key string) Result {
	v, found, err := s.backend.Get(ctx, key)
	switch {
	case err != nil:
		return Result{Status: Failed, Err: err}
	case !found:
		return Result{Status: Absent}
	default:
		return Result{Status: Found, Value: string(v)}
	}
}

// Get returns the value stored under key. Storage failures are logged and
// reported as absent.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	res := s.Lookup(ctx, key)
	if res.Status == Failed {
		s.log.Error(ctx, "storage unavailable", "op", "get", "key", key, "error", res.Err)
	}
	return res.Value, res.Status == Found
}

// Persist stores value under key, or deletes key when value is nil, and
// reports failures to the caller.
func (s *Store) Persist(ctx context.Context, key string, value *string) error {
	if value == nil {
		return s.backend.Delete(ctx, key)
	}
	return s.backend.Set(ctx, key, []byte(*value))
}

// Set is Persist with failures logged and dropped.
func (s *Store) Set(ctx context.Context, key string, value *string) {
	if err := s.Persist(ctx, key, value); err != nil {
		s.log.Error(ctx, "storage unavailable", "op", "set", "key", key, "error", err)
	}
}

// Clear wipes every key of the backend.
func (s *Store) Clear(ctx context.Context) error {
	return s.backend.Clear(ctx)
}

func (s *Store) Close() error {
	return s.backend.Close()
}
