// Package fetch binds a GET endpoint to a reactive loading/data/error
// state that refetches when its inputs or the app refresh epoch change.
package fetch

import (
	"context"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/pengaduan/internal/client/client"
	"github.com/dmitrijs2005/pengaduan/internal/client/refresh"
	"github.com/dmitrijs2005/pengaduan/internal/common"
	"github.com/dmitrijs2005/pengaduan/internal/logging"
)

// Options are the inputs of a Query.
type Options struct {
	Endpoint string
	Params   url.Values
	Enabled  bool
}

// key is the comparable form of Options; params are compared by their
// sorted query encoding.
type key struct {
	endpoint string
	params   string
	enabled  bool
}

func (o Options) key() key {
	return key{endpoint: o.Endpoint, params: o.Params.Encode(), enabled: o.Enabled}
}

// State is a snapshot of a Query. Data survives a failed refetch, so Err
// and Data may both be set.
type State[T any] struct {
	Data    *T
	Loading bool
	Err     error
}

// Query keeps State in sync with a GET endpoint that answers
// {"data": T, ...}.
//
// Only the most recently issued request may update the state: issuing a
// new one cancels the previous request and discards its result even if it
// settles afterwards.
type Query[T any] struct {
	getter client.Getter
	log    logging.Logger

	ctx         context.Context
	stop        context.CancelFunc
	unsubscribe func()
	watcher     chan struct{}
	requests    sync.WaitGroup

	mu      sync.Mutex
	opts    Options
	key     key
	epoch   uint64
	state   State[T]
	gen     uint64
	cancel  context.CancelFunc
	closed  bool
	subs    map[int]chan struct{}
	nextSub int
}

// New starts a Query. When opts.Enabled is set the first request is issued
// immediately. Requests run under ctx; Close stops the Query.
func New[T any](ctx context.Context, getter client.Getter, epochs *refresh.Broadcaster, opts Options, log logging.Logger) *Query[T] {
	ctx, stop := context.WithCancel(ctx)

	q := &Query[T]{
		getter:  getter,
		log:     log.With("component", "fetch"),
		ctx:     ctx,
		stop:    stop,
		watcher: make(chan struct{}),
		opts:    opts,
		key:     opts.key(),
		subs:    make(map[int]chan struct{}),
	}

	// subscribe before reading the epoch so no Trigger slips between
	epochCh, unsubscribe := epochs.Subscribe()
	q.unsubscribe = unsubscribe
	q.epoch = epochs.Epoch()

	q.mu.Lock()
	if opts.Enabled {
		q.startLocked()
	}
	q.mu.Unlock()

	go q.watch(epochCh)
	return q
}

func (q *Query[T]) watch(epochs <-chan uint64) {
	defer close(q.watcher)
	for e := range epochs {
		q.onEpoch(e)
	}
}

func (q *Query[T]) onEpoch(e uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || e <= q.epoch {
		return
	}
	q.epoch = e
	if q.opts.Enabled {
		q.startLocked()
	}
}

// Update replaces the inputs. Inputs equal to the current ones are a
// no-op. Disabling abandons any request in flight; enabling fetches at
// once.
func (q *Query[T]) Update(opts Options) {
	k := opts.key()

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || k == q.key {
		return
	}
	q.opts = opts
	q.key = k

	if !opts.Enabled {
		q.supersedeLocked()
		if q.state.Loading {
			q.state.Loading = false
			q.notifyLocked()
		}
		return
	}
	q.startLocked()
}

// Refetch issues a new request with the current inputs, if enabled.
func (q *Query[T]) Refetch() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed && q.opts.Enabled {
		q.startLocked()
	}
}

func (q *Query[T]) supersedeLocked() {
	q.gen++
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
}

func (q *Query[T]) startLocked() {
	q.supersedeLocked()
	gen := q.gen

	ctx, cancel := context.WithCancel(q.ctx)
	q.cancel = cancel

	q.state.Loading = true
	q.state.Err = nil
	q.notifyLocked()

	endpoint := q.opts.Endpoint
	params := cloneValues(q.opts.Params)

	q.requests.Add(1)
	go q.run(ctx, cancel, gen, endpoint, params)
}

func (q *Query[T]) run(ctx context.Context, cancel context.CancelFunc, gen uint64, endpoint string, params url.Values) {
	defer q.requests.Done()
	defer cancel()

	var resp struct {
		Data *T `json:"data"`
	}
	err := q.getter.Get(ctx, endpoint, params, &resp)

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || gen != q.gen {
		q.log.Debug(ctx, "stale response discarded", "endpoint", endpoint)
		return
	}
	q.cancel = nil
	q.state.Loading = false
	if err != nil {
		q.log.Warn(ctx, "fetch failed", "endpoint", endpoint, "error", err)
		q.state.Err = err
	} else {
		q.state.Data = resp.Data
		q.state.Err = nil
	}
	q.notifyLocked()
}

// State returns the current snapshot.
func (q *Query[T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Changes returns a coalescing channel signalled after every state change,
// and a func that unsubscribes it. Close closes every channel.
func (q *Query[T]) Changes() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		close(ch)
		return ch, func() {}
	}
	id := q.nextSub
	q.nextSub++
	q.subs[id] = ch

	return ch, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		if c, ok := q.subs[id]; ok {
			delete(q.subs, id)
			close(c)
		}
	}
}

func (q *Query[T]) notifyLocked() {
	for _, ch := range q.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Wait blocks until the Query is not loading and returns that state.
func (q *Query[T]) Wait(ctx context.Context) (State[T], error) {
	ch, unsubscribe := q.Changes()
	defer unsubscribe()

	for {
		st := q.State()
		if !st.Loading {
			return st, nil
		}
		select {
		case _, ok := <-ch:
			if !ok {
				return q.State(), common.ErrClosed
			}
		case <-ctx.Done():
			return st, ctx.Err()
		}
	}
}

// Close cancels any request in flight and stops all updates. The last
// state stays readable.
func (q *Query[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.supersedeLocked()
	for id, ch := range q.subs {
		delete(q.subs, id)
		close(ch)
	}
	q.mu.Unlock()

	q.unsubscribe()
	<-q.watcher
	q.stop()
	q.requests.Wait()
}

func cloneValues(v url.Values) url.Values {
	if v == nil {
		return nil
	}
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
