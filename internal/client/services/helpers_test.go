package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/pengaduan/internal/client/storage"
	"github.com/dmitrijs2005/pengaduan/internal/logging"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

// brokenBackend is a MemoryBackend whose writes can be made to fail or,
// for deletes, to wait on a gate.
type brokenBackend struct {
	*storage.MemoryBackend

	mu         sync.Mutex
	failWrite  bool
	failKey    string
	deleteGate chan struct{}
}

func (b *brokenBackend) setFailKey(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failKey = key
}

// holdDeletes blocks every Delete until the returned func is called.
func (b *brokenBackend) holdDeletes() (release func()) {
	gate := make(chan struct{})
	b.mu.Lock()
	b.deleteGate = gate
	b.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

func (b *brokenBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	gate := b.deleteGate
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return b.MemoryBackend.Delete(ctx, key)
}

func (b *brokenBackend) setFailWrite(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failWrite = v
}

func (b *brokenBackend) Set(ctx context.Context, key string, value []byte) error {
	b.mu.Lock()
	fail := b.failWrite || (b.failKey != "" && b.failKey == key)
	b.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return b.MemoryBackend.Set(ctx, key, value)
}

func newBackend() *brokenBackend {
	return &brokenBackend{MemoryBackend: storage.NewMemoryBackend()}
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func newStore(b storage.Backend) *storage.Store {
	return storage.NewStore(b, logging.Nop())
}

func nextUserCall(t *testing.T, f *fakeClient) *userCall {
	t.Helper()
	select {
	case c := <-f.userCalls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("expected GET /user")
		return nil
	}
}

func noUserCall(t *testing.T, f *fakeClient) {
	t.Helper()
	select {
	case c := <-f.userCalls:
		t.Fatalf("unexpected GET /user with token %q", c.token())
	case <-time.After(50 * time.Millisecond):
	}
}

func seed(t *testing.T, b storage.Backend, key, value string) {
	t.Helper()
	require.NoError(t, b.Set(context.Background(), key, []byte(value)))
}
