// Package livefeed is a lightweight in-process publish/subscribe hub used
// to fan out table refresh events to multiple listeners (e.g. WebSocket
// sessions of the web dashboard).
//
// Delivery is best effort: slow listeners drop events rather than
// backpressure the publisher. There is no persistence or replay; a missed
// event is harmless because every event only says "the table changed,
// re-render", not what changed.
package livefeed

import (
	"sync"
	"time"
)

// Event announces that a table's server-confirmed state was replaced and
// any attached view should re-render.
type Event struct {
	Type      string    `json:"type"`
	Session   string    `json:"session,omitempty"`
	TotalDocs int       `json:"totalDocs"`
	At        time.Time `json:"at"`
}

// Event types.
const (
	TypeRefresh = "refresh"
	TypeError   = "error"
)

// Hub is an in-memory fan-out dispatcher. Each registered listener gets
// its own buffered channel; a full buffer means the event is dropped for
// that listener only.
//
// The hub is concurrency-safe.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan Event
	nextID    uint64
	bufSize   int
}

// NewHub constructs a hub with the given per-listener buffer size.
// If bufSize <= 0, a default of 32 is used.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 32
	}
	return &Hub{
		listeners: make(map[uint64]chan Event),
		bufSize:   bufSize,
	}
}

// Register adds a listener and returns its id plus a receive-only channel.
// Callers must Unregister(id) when done.
func (h *Hub) Register() (uint64, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes the listener and closes its channel. Safe to call
// multiple times; unknown ids are ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Broadcast delivers the event to all listeners, dropping it for any
// listener whose buffer is full.
func (h *Hub) Broadcast(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- ev:
		default:
			// Drop for slow listener.
		}
	}
}

// Size returns the current number of active listeners (approximate).
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
