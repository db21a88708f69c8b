// Package refresh broadcasts jobs-changed events from mutation paths to the
// views that must refetch.
//
// Any mutation (create, update, delete) may publish; every subscriber sees a
// signal regardless of which path caused it. The signal is coalesced: a
// subscriber that has not drained its channel yet will still observe exactly
// one pending notification.
package refresh

import "sync"

// Hub is a many-reader jobs-changed signal.
type Hub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
	seq  uint64
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan struct{}]struct{})}
}

// Subscribe registers a listener. The returned cancel function must be called
// when the listener goes away; afterwards the channel receives nothing.
func (h *Hub) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish notifies every subscriber that the job catalog changed. It never
// blocks: a subscriber with a pending, undrained signal is not queued twice.
func (h *Hub) Publish() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Seq returns the number of publishes so far. Fetch snapshots include it so a
// response raced by a mutation-triggered refetch is recognizably stale.
func (h *Hub) Seq() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seq
}
