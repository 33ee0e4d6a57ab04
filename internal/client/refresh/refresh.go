// Package refresh holds the app-wide refresh epoch. Bumping it tells every
// live query to refetch, which is how pull-to-refresh on one screen reaches
// data shown on the others.
package refresh

import (
	"sync"
	"sync/atomic"
)

// Broadcaster owns a monotonic epoch counter. The zero value is not usable;
// use New.
type Broadcaster struct {
	epoch atomic.Uint64

	mu      sync.Mutex
	subs    map[int]chan uint64
	nextSub int
}

func New() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan uint64)}
}

// Epoch returns the current epoch. Two equal observations mean no Trigger
// happened in between.
func (b *Broadcaster) Epoch() uint64 {
	return b.epoch.Load()
}

// Trigger bumps the epoch and notifies subscribers. It never blocks.
func (b *Broadcaster) Trigger() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.epoch.Add(1)
	for _, ch := range b.subs {
		// drop a pending, older epoch so the newest one is delivered
		select {
		case <-ch:
		default:
		}
		ch <- e
	}
	return e
}

// Subscribe returns a channel that receives the epoch after each Trigger.
// A slow reader only ever sees the latest epoch. The returned func
// unsubscribes and closes the channel.
func (b *Broadcaster) Subscribe() (<-chan uint64, func()) {
	ch := make(chan uint64, 1)

	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}
