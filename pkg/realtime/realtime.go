// Package realtime provides a lightweight in-process publish/subscribe hub
// used to fan out newly stored listings to watchers (e.g. WebSocket
// sessions on /api/watch).
//
// Fan-out is best effort: slow listeners drop events rather than
// backpressuring ingestion. There is no persistence or replay.
package realtime

import (
	"sync"
	"time"
)

// ListingEvent is the envelope delivered to watchers when a listing is
// stored.
type ListingEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Hub is an in-memory fan-out dispatcher. Each registered listener receives
// events via its own buffered channel; a full buffer drops the event for
// that listener only.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan ListingEvent
	nextID    uint64
	bufSize   int
}

// NewHub constructs a hub with the given per-listener buffer size.
// Non-positive sizes default to 32.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 32
	}
	return &Hub{
		listeners: make(map[uint64]chan ListingEvent),
		bufSize:   bufSize,
	}
}

// Register adds a listener and returns its id and receive channel. Callers
// must Unregister(id) to release resources.
func (h *Hub) Register() (uint64, <-chan ListingEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan ListingEvent, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes the listener and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Broadcast delivers the event to all listeners, dropping it for any whose
// buffer is full.
func (h *Hub) Broadcast(event ListingEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- event:
		default:
		}
	}
}

// Size returns the current number of listeners.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
