package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/pengaduan/internal/logging"
)

var errBroken = errors.New("storage broken")

// flakyBackend wraps a MemoryBackend and can fail or block on demand.
type flakyBackend struct {
	*MemoryBackend

	mu      sync.Mutex
	failGet bool
	failSet bool
	gate    chan struct{} // when non-nil, Get waits on it
	sets    []string
}

func newFlaky() *flakyBackend {
	return &flakyBackend{MemoryBackend: NewMemoryBackend()}
}

func (f *flakyBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	gate, fail := f.gate, f.failGet
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
	if fail {
		return nil, false, errBroken
	}
	return f.MemoryBackend.Get(ctx, key)
}

func (f *flakyBackend) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	fail := f.failSet
	f.sets = append(f.sets, string(value))
	f.mu.Unlock()

	if fail {
		return errBroken
	}
	return f.MemoryBackend.Set(ctx, key, value)
}

func (f *flakyBackend) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	fail := f.failSet
	f.mu.Unlock()

	if fail {
		return errBroken
	}
	return f.MemoryBackend.Delete(ctx, key)
}

func (f *flakyBackend) setCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sets...)
}

func newTestStore(b Backend) *Store {
	return NewStore(b, logging.Nop())
}

func ptr(s string) *string { return &s }

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}
