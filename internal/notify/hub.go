package notify

import (
	"context"
	"sync"
	"time"
)

const defaultBuffer = 16

// Event is a lightweight notification pushed to dashboard clients.
type Event struct {
	Kind      string    `json:"kind"`
	JTI       string    `json:"jti,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fan-outs events to all active subscribers. Each subscriber owns a
// bounded buffer; a slow consumer loses events rather than blocking the
// publisher. Subscriber lifetime is tied to the subscription context.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	next   int
	buffer int
}

// NewHub initialises an empty hub. buffer <= 0 falls back to the default
// per-subscriber capacity.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		subs:   make(map[int]chan Event),
		buffer: buffer,
	}
}

// Subscribe registers a subscriber and returns a channel which will receive
// events. The channel is closed when the provided context ends.
func (h *Hub) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		close(ch)
		h.mu.Unlock()
	}()

	return ch
}

// Publish fan-outs the event to all subscribers.
func (h *Hub) Publish(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- evt:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}

// Subscribers reports the number of active subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
