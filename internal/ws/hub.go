package ws

import (
	"encoding/json"
	"sync"

	"minesweeper/internal/event"
	"minesweeper/internal/logger"
)

// Hub fans bus events out to every connected websocket client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	sub     *event.Subscription
	closed  bool
}

// NewHub subscribes to every event kind on bus.
func NewHub(bus *event.Bus) *Hub {
	h := &Hub{clients: make(map[*Client]struct{})}
	handlers := make(event.Handlers)
	for _, k := range event.Kinds() {
		handlers[k] = h.broadcast
	}
	h.sub = bus.Subscribe("ws_hub", handlers)
	return h
}

// register adds c. A closed hub refuses it by closing its send channel, which
// makes the write pump hang up.
func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(c.Send)
		logger.Debug("ws client refused, hub closed", "remote", c.remote)
		return false
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	logger.Debug("ws client registered", "remote", c.remote, "clients", n)
	return true
}

// unregister drops c and closes its send channel. Safe to call twice.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.Send)
}

// broadcast never blocks the publisher: a client whose buffer is full is
// disconnected.
func (h *Hub) broadcast(ev event.Event) error {
	msg, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.Send <- msg:
		default:
			logger.Warn("ws client too slow, dropping", "remote", c.remote)
			h.dropLocked(c)
		}
	}
	return nil
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close detaches from the bus and disconnects every client. Clients that
// connect afterwards are refused.
func (h *Hub) Close() {
	h.sub.Unsubscribe()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.dropLocked(c)
	}
}
