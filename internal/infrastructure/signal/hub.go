package signal

import (
	"sync"
	"time"

	"lawlink/internal/core/domain"
	"lawlink/internal/core/ports"

	"github.com/gorilla/websocket"
)

// hubConn wraps one websocket connection with a write lock. Relay fan-out and
// presence notifications write to a connection from other connections'
// handler goroutines, and gorilla connections do not allow concurrent writes.
type hubConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (h *hubConn) writeJSON(v interface{}, timeout time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conn.SetWriteDeadline(time.Now().Add(timeout))
	return h.conn.WriteJSON(v)
}

// Hub owns the connection map. It implements ports.ConnectionSender so the
// relay can deliver without ever seeing a raw websocket connection.
type Hub struct {
	mu           sync.RWMutex
	connections  map[domain.ConnectionID]*hubConn
	writeTimeout time.Duration
}

var _ ports.ConnectionSender = (*Hub)(nil)

func NewHub(writeTimeout time.Duration) *Hub {
	return &Hub{
		connections:  make(map[domain.ConnectionID]*hubConn),
		writeTimeout: writeTimeout,
	}
}

// Register adds a connection under its identifier. Identifiers are minted per
// handshake so there is never a stale entry to displace.
func (h *Hub) Register(id domain.ConnectionID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[id] = &hubConn{conn: conn}
}

func (h *Hub) Unregister(id domain.ConnectionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connections, id)
}

func (h *Hub) Send(id domain.ConnectionID, event *domain.Outbound) error {
	h.mu.RLock()
	hc, exists := h.connections[id]
	h.mu.RUnlock()

	if !exists {
		return domain.ErrConnectionNotFound
	}
	return hc.writeJSON(event, h.writeTimeout)
}

// Ping sends a websocket ping control frame to one connection.
func (h *Hub) Ping(id domain.ConnectionID) error {
	h.mu.RLock()
	hc, exists := h.connections[id]
	h.mu.RUnlock()

	if !exists {
		return domain.ErrConnectionNotFound
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
	return hc.conn.WriteMessage(websocket.PingMessage, nil)
}

func (h *Hub) IsConnected(id domain.ConnectionID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.connections[id]
	return exists
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}
