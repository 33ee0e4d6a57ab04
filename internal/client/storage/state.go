package storage

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/pengaduan/internal/common"
)

// State is a reactive, in-memory view of one key of a Store.
//
// The initial value is loaded in the background; until it arrives
// Snapshot reports loading=true. SetValue is optimistic: the in-memory
// value changes before SetValue returns and the backend write happens
// later. Backend writes of one State are applied in SetValue order; a
// queued write that has been superseded is skipped.
type State struct {
	store *Store
	key   string

	ctx    context.Context
	cancel context.CancelFunc
	loaded chan struct{}
	writes sync.WaitGroup

	// writeMu serializes backend writes.
	writeMu sync.Mutex

	mu      sync.Mutex
	loading bool
	value   *string
	touched bool
	seq     uint64
	closed  bool
	subs    map[int]chan struct{}
	nextSub int
}

// NewState starts loading key from store. ctx bounds every backend call
// made on behalf of the State; Close cancels it.
func NewState(ctx context.Context, store *Store, key string) *State {
	ctx, cancel := context.WithCancel(ctx)
	s := &State{
		store:   store,
		key:     key,
		ctx:     ctx,
		cancel:  cancel,
		loaded:  make(chan struct{}),
		loading: true,
		subs:    make(map[int]chan struct{}),
	}
	go s.load()
	return s
}

func (s *State) load() {
	v, ok := s.store.Get(s.ctx, s.key)

	s.mu.Lock()
	defer s.mu.Unlock()

	// a SetValue that raced the initial read wins
	if !s.touched && ok {
		s.value = &v
	}
	s.loading = false
	close(s.loaded)
	s.notifyLocked()
}

func (s *State) Key() string { return s.key }

// Snapshot returns the loading flag and a copy of the current value.
func (s *State) Snapshot() (loading bool, value *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading, clone(s.value)
}

func (s *State) Loading() bool {
	loading, _ := s.Snapshot()
	return loading
}

func (s *State) Value() *string {
	_, v := s.Snapshot()
	return v
}

// SetValue replaces the in-memory value and schedules the backend write
// without waiting for it. nil deletes the key.
func (s *State) SetValue(v *string) {
	v = clone(v)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.value = v
	s.touched = true
	s.seq++
	seq := s.seq
	s.writes.Add(1)
	s.notifyLocked()
	s.mu.Unlock()

	go s.write(seq, v)
}

func (s *State) write(seq uint64, v *string) {
	defer s.writes.Done()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.superseded(seq) {
		return
	}
	s.store.Set(s.ctx, s.key, v)
}

func (s *State) superseded(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq < s.seq
}

// Commit writes v durably and only then publishes it in memory. Unlike
// SetValue the backend error is returned, and on error the in-memory
// value is left untouched.
func (s *State) Commit(ctx context.Context, v *string) error {
	v = clone(v)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return common.ErrClosed
	}

	if err := s.store.Persist(ctx, s.key, v); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	s.touched = true
	s.seq++
	s.notifyLocked()
	return nil
}

// Changes returns a channel that receives a signal after every change of
// the loading flag or value. Signals coalesce: a slow reader sees one
// pending signal, then reads the latest Snapshot. The returned func
// unsubscribes and closes the channel; Close closes every channel.
func (s *State) Changes() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

func (s *State) notifyLocked() {
	if s.closed {
		return
	}
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Ready blocks until the initial load has resolved.
func (s *State) Ready(ctx context.Context) error {
	select {
	case <-s.loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flush blocks until every write scheduled so far has reached the backend
// (or was skipped as superseded).
func (s *State) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.writes.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains pending writes, closes subscriber channels and stops the
// State. Later SetValue calls are ignored.
func (s *State) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()

	s.writes.Wait()
	s.cancel()
}

func clone(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
