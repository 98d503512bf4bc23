package notify

import (
	"sync"

	"github.com/pookiesms/pookiesms/internal/models"
	"go.uber.org/zap"
)

// Hub fans stored messages out to the recipient's live dashboard
// connections. Delivery is best-effort: a client whose send buffer is full
// is dropped rather than ever blocking ingestion.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]bool // username -> connections
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]bool),
		logger:  logger,
	}
}

// Register adds a dashboard connection for a recipient. One recipient may
// hold several connections (multiple tabs).
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.username] == nil {
		h.clients[c.username] = make(map[*Client]bool)
	}
	h.clients[c.username][c] = true

	h.logger.Debug("dashboard client connected",
		zap.String("username", c.username),
	)
}

// Unregister removes a connection and closes its send channel. Safe to call
// more than once for the same client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *Client) {
	conns, ok := h.clients[c.username]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.clients, c.username)
	}
	close(c.send)

	h.logger.Debug("dashboard client disconnected",
		zap.String("username", c.username),
	)
}

// Publish delivers a stored message to every live connection of the
// recipient. Implements the ingestion notifier contract.
func (h *Hub) Publish(username string, msg models.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients[username] {
		select {
		case c.send <- msg:
		default:
			// Slow consumer; drop the connection instead of queueing.
			h.logger.Warn("dropping slow dashboard client",
				zap.String("username", username),
			)
			h.dropLocked(c)
		}
	}
}
