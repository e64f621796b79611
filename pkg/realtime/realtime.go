package realtime

// Package realtime provides a lightweight in-process publish/subscribe hub
// used to fan out dataset lifecycle events to multiple listeners (e.g.
// WebSocket sessions on the firehose endpoint).
//
// Design goals:
//   - Best-effort fan-out: slow listeners drop events (never backpressure
//     the store or the watcher).
//   - No persistence or replay semantics (ephemeral stream).
//
// If durable or replayable semantics are needed in the future, this package
// becomes the seam where a broker can be introduced behind a compatible
// interface.

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types published by the hub.
const (
	// EventAdded is published when a single dataset is saved into the store.
	EventAdded = "added"
	// EventReloaded is published when the whole store is reloaded from disk.
	EventReloaded = "reloaded"
)

// DatasetEvent describes a change to the dataset store.
//
// Fields:
//   - ID:   Unique event identifier.
//   - Type: One of EventAdded or EventReloaded.
//   - Name: Dataset name; empty for store-wide events such as "reloaded".
//   - Kind: Dataset kind ("sql" or "json"); empty for store-wide events.
//   - Time: When the event was published (UTC recommended).
type DatasetEvent struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Name string    `json:"name,omitempty"`
	Kind string    `json:"kind,omitempty"`
	Time time.Time `json:"time"`
}

// NewDatasetEvent constructs an event with a fresh ID and the current time.
func NewDatasetEvent(eventType, name, kind string) DatasetEvent {
	return DatasetEvent{
		ID:   uuid.NewString(),
		Type: eventType,
		Name: name,
		Kind: kind,
		Time: time.Now().UTC(),
	}
}

// Hub is an in-memory fan-out dispatcher. Each registered listener receives
// events via its own buffered channel. If a listener's channel buffer is full
// when an event arrives, that event is dropped for that listener only, so a
// single slow consumer cannot degrade delivery to the others.
//
// The hub is concurrency-safe.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan DatasetEvent
	nextID    uint64
	bufSize   int
}

// NewHub constructs a new hub with per-listener buffer size.
// If bufSize <= 0, a default of 32 is used.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 32
	}
	return &Hub{
		listeners: make(map[uint64]chan DatasetEvent),
		bufSize:   bufSize,
	}
}

// Register adds a new listener and returns (listenerID, receiveOnlyChannel).
// Callers must later Unregister(id) to release resources.
func (h *Hub) Register() (uint64, <-chan DatasetEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan DatasetEvent, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes the listener with the given id and closes its channel.
// It is safe to call multiple times; unknown ids are ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Publish delivers an event to all registered listeners (best effort).
func (h *Hub) Publish(event DatasetEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- event:
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
