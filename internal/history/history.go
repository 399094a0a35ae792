// Package history provides the fixed-capacity FIFO buffer of captured exchanges.
package history

import (
	"fmt"
	"sync"

	"github.com/peekproxy/peek/internal/constants"
	"github.com/peekproxy/peek/internal/domain"
)

// Listener is invoked synchronously after an exchange has been appended.
// Listeners observe post-add state and run in registration order.
type Listener func(domain.Exchange)

// History is a fixed-capacity FIFO buffer of exchanges. When full, adding a
// new exchange evicts the oldest one first. Insertion order is chronological
// order.
type History struct {
	mu       sync.RWMutex
	entries  []domain.Exchange
	head     int // next write position
	count    int // current number of entries
	capacity int // max entries

	listeners []Listener

	subMu  sync.RWMutex
	subs   map[string]*Subscription
	nextID int
}

// Subscription receives exchanges as they are added. Used by consumers
// outside the render loop (API streaming); slow receivers drop messages.
type Subscription struct {
	ID string
	Ch chan domain.Exchange
}

// New creates a history buffer with the given capacity.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = constants.DefaultHistoryCapacity
	}
	return &History{
		entries:  make([]domain.Exchange, capacity),
		capacity: capacity,
		subs:     make(map[string]*Subscription),
	}
}

// Add appends an exchange, evicting the oldest entry when the buffer is
// full. It reports whether an eviction occurred. All registered listeners
// are fired after the append, in registration order.
func (h *History) Add(ex domain.Exchange) bool {
	h.mu.Lock()
	evicted := h.count == h.capacity
	h.entries[h.head] = ex
	h.head = (h.head + 1) % h.capacity
	if h.count < h.capacity {
		h.count++
	}
	listeners := h.listeners
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(ex)
	}
	h.notifySubscribers(ex)

	return evicted
}

// GetAll returns all exchanges in chronological order, oldest first.
// Callers must treat the result as read-only.
func (h *History) GetAll() []domain.Exchange {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 {
		return nil
	}

	result := make([]domain.Exchange, h.count)
	start := 0
	if h.count == h.capacity {
		start = h.head // oldest entry is at head when full
	}
	for i := 0; i < h.count; i++ {
		result[i] = h.entries[(start+i)%h.capacity]
	}
	return result
}

// GetRecent returns the last min(n, size) exchanges in chronological order.
func (h *History) GetRecent(n int) []domain.Exchange {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 || n <= 0 {
		return nil
	}
	if n > h.count {
		n = h.count
	}

	var start int
	if h.count == h.capacity {
		start = (h.head - n + h.capacity) % h.capacity
	} else {
		start = h.count - n
	}

	result := make([]domain.Exchange, n)
	for i := 0; i < n; i++ {
		result[i] = h.entries[(start+i)%h.capacity]
	}
	return result
}

// GetByIndex returns the exchange at position i (0 = oldest). The second
// return value is false for out-of-range indices; it never panics.
func (h *History) GetByIndex(i int) (domain.Exchange, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= h.count {
		return domain.Exchange{}, false
	}
	start := 0
	if h.count == h.capacity {
		start = h.head
	}
	return h.entries[(start+i)%h.capacity], true
}

// Size returns the current number of buffered exchanges.
func (h *History) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Capacity returns the maximum number of buffered exchanges.
func (h *History) Capacity() int {
	return h.capacity
}

// OnAdded registers a listener fired on every successful Add.
// There is no unregistration.
func (h *History) OnAdded(fn Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Clear empties the buffer without notifying listeners.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.head = 0
	h.count = 0
}

// Subscribe creates a channel subscription for real-time exchange updates.
func (h *History) Subscribe() *Subscription {
	h.subMu.Lock()
	defer h.subMu.Unlock()

	h.nextID++
	sub := &Subscription{
		ID: fmt.Sprintf("sub-%d", h.nextID),
		Ch: make(chan domain.Exchange, constants.DefaultSubscriptionBuffer),
	}
	h.subs[sub.ID] = sub
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (h *History) Unsubscribe(id string) {
	h.subMu.Lock()
	defer h.subMu.Unlock()

	if sub, ok := h.subs[id]; ok {
		close(sub.Ch)
		delete(h.subs, id)
	}
}

// Close closes all subscription channels.
func (h *History) Close() {
	h.subMu.Lock()
	defer h.subMu.Unlock()

	for id, sub := range h.subs {
		close(sub.Ch)
		delete(h.subs, id)
	}
}

func (h *History) notifySubscribers(ex domain.Exchange) {
	h.subMu.RLock()
	defer h.subMu.RUnlock()

	for _, sub := range h.subs {
		select {
		case sub.Ch <- ex:
		default:
			// Channel full, drop the message
		}
	}
}
