package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// connection is a single WebSocket client. At most one chat turn runs per
// connection; its context derives from the connection's.
type connection struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	turnID     string
	lastTurnID string
	cancelTurn context.CancelFunc
}

func newConnection(ws *websocket.Conn) *connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &connection{
		ID:     uuid.New().String(),
		Conn:   ws,
		Send:   make(chan []byte, 256),
		ctx:    ctx,
		cancel: cancel,
	}
}

// sendJSON queues v for the write pump. It blocks while the buffer is full
// and fails once the connection is closed.
func (c *connection) sendJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case c.Send <- data:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

// startTurn claims the connection for a turn. It reports false if another
// turn is still running.
func (c *connection) startTurn(requestID string) (context.Context, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.turnID != "" {
		return nil, false
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.turnID = requestID
	c.cancelTurn = cancel
	return ctx, true
}

// finishTurn queues the turn's terminal frame and releases the connection
// for the next turn. Both happen under the turn lock, so a chat read after the
// frame never sees the turn still running.
func (c *connection) finishTurn(final any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if final != nil {
		err = c.sendJSON(final)
	}
	if c.cancelTurn != nil {
		c.cancelTurn()
	}
	c.lastTurnID = c.turnID
	c.turnID = ""
	c.cancelTurn = nil
	return err
}

// abortTurn cancels the in-flight turn if it matches requestID. An empty
// requestID matches any turn. A cancel for the turn that just finished is
// accepted as a no-op.
func (c *connection) abortTurn(requestID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.turnID == "" {
		return requestID != "" && requestID == c.lastTurnID
	}
	if requestID != "" && requestID != c.turnID {
		return false
	}
	c.cancelTurn()
	return true
}

// close cancels the in-flight turn and stops the write pump.
func (c *connection) close() {
	c.cancel()
}
