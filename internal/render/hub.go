package render

import "sync"

// Hub holds the latest frame and wakes subscribers when it changes. The
// simulation goroutine publishes; each viewer goroutine waits on its own
// signal channel and reads Latest.
type Hub struct {
	mu     sync.Mutex
	latest Frame
	subs   map[int]chan struct{}
	nextID int
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan struct{})}
}

// Publish replaces the latest frame, keeping the last status, and signals
// every subscriber.
func (h *Hub) Publish(f Frame) {
	h.mu.Lock()
	f.Status = h.latest.Status
	h.latest = f
	h.signalLocked()
	h.mu.Unlock()
}

// SetStatus updates the status line of the latest frame and signals every
// subscriber.
func (h *Hub) SetStatus(s Status) {
	h.mu.Lock()
	h.latest.Status = s
	h.signalLocked()
	h.mu.Unlock()
}

// Latest returns the most recent frame.
func (h *Hub) Latest() Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Subscribe registers a viewer. The channel receives at most one pending
// signal; a slow viewer skips intermediate frames.
func (h *Hub) Subscribe() (int, <-chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan struct{}, 1)
	h.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a viewer and closes its channel.
func (h *Hub) Unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Viewers returns the number of subscribers.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) signalLocked() {
	for _, ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
