package relay

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/rokuremote/internal/logging"
)

// Hub tracks connected relay clients so they can be closed on shutdown.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

func newHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

func (h *Hub) add(c *client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	return len(h.clients)
}

func (h *Hub) remove(c *client) (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	return len(h.clients), ok
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// closeAll sends a close frame to every client and drops them.
func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
		delete(h.clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		logging.Info("Closing relay client", zap.String("remote_addr", c.remoteAddr))
		c.close(websocket.CloseGoingAway, "server shutting down")
	}
}
