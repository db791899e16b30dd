package ws

import (
	"log"
	"sync"
)

// hub tracks the live connections of a Server.
type hub struct {
	connections map[string]*connection
	mu          sync.RWMutex
}

func newHub() *hub {
	return &hub{connections: make(map[string]*connection)}
}

func (h *hub) register(conn *connection) {
	h.mu.Lock()
	h.connections[conn.ID] = conn
	h.mu.Unlock()
	log.Printf("INFO: connection registered: %s", conn.ID)
}

func (h *hub) unregister(conn *connection) {
	h.mu.Lock()
	delete(h.connections, conn.ID)
	h.mu.Unlock()
	log.Printf("INFO: connection unregistered: %s", conn.ID)
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// closeAll cancels every connection. Each write pump then sends a close frame
// and the read pump unregisters the connection.
func (h *hub) closeAll() int {
	h.mu.RLock()
	conns := make([]*connection, 0, len(h.connections))
	for _, conn := range h.connections {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.close()
	}
	return len(conns)
}
