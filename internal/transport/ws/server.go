// Package ws provides the WebSocket chat endpoint.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/iammuhammadnoumankhan/talkflow/internal/config"
	"github.com/iammuhammadnoumankhan/talkflow/internal/domain"
	"github.com/iammuhammadnoumankhan/talkflow/internal/service"
	"github.com/iammuhammadnoumankhan/talkflow/internal/transport/apierr"
)

// Server handles WebSocket connections.
type Server struct {
	cfg      *config.Config
	service  *service.Service
	hub      *hub
	upgrader websocket.Upgrader
}

// NewServer creates a new WebSocket server.
func NewServer(cfg *config.Config, svc *service.Service) *Server {
	return &Server{
		cfg:     cfg,
		service: svc,
		hub:     newHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterRoutes registers the WebSocket route with the echo server.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/chat/ws", s.HandleWebSocket)
}

// ConnectionCount returns the number of open connections.
func (s *Server) ConnectionCount() int {
	return s.hub.count()
}

// Shutdown closes every open connection, cancelling in-flight turns. Upgraded
// connections are hijacked, so http.Server.Shutdown does not close them.
func (s *Server) Shutdown() {
	if n := s.hub.closeAll(); n > 0 {
		log.Printf("INFO: closed %d websocket connections on shutdown", n)
	}
}

// HandleWebSocket handles WebSocket upgrade and connection lifecycle.
// GET /api/chat/ws
func (s *Server) HandleWebSocket(c echo.Context) error {
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("WARN: failed to upgrade websocket: %v", err)
		return err
	}

	conn := newConnection(ws)
	if s.cfg.WSMaxMessageSize > 0 {
		ws.SetReadLimit(s.cfg.WSMaxMessageSize)
	}
	s.hub.register(conn)

	go s.writePump(conn)
	go s.readPump(conn)

	return nil
}

// readPump reads messages from the WebSocket connection.
func (s *Server) readPump(conn *connection) {
	defer func() {
		conn.close()
		s.hub.unregister(conn)
	}()

	s.extendReadDeadline(conn)
	conn.Conn.SetPongHandler(func(string) error {
		s.extendReadDeadline(conn)
		return nil
	})

	for {
		_, message, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WARN: websocket error: %v", err)
			}
			return
		}
		s.extendReadDeadline(conn)

		s.handleMessage(conn, message)
	}
}

// writePump writes messages to the WebSocket connection.
func (s *Server) writePump(conn *connection) {
	ticker := time.NewTicker(s.pingInterval())
	defer func() {
		ticker.Stop()
		conn.Conn.Close()
	}()

	for {
		select {
		case message := <-conn.Send:
			conn.Conn.SetWriteDeadline(time.Now().Add(s.writeTimeout()))
			if err := conn.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WARN: failed to write websocket message: %v", err)
				conn.close()
				return
			}

		case <-ticker.C:
			conn.Conn.SetWriteDeadline(time.Now().Add(s.writeTimeout()))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.close()
				return
			}

		case <-conn.ctx.Done():
			conn.Conn.SetWriteDeadline(time.Now().Add(s.writeTimeout()))
			conn.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage dispatches incoming messages to appropriate handlers.
func (s *Server) handleMessage(conn *connection, data []byte) {
	var baseMsg BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		s.sendError(conn, "", "", ErrorCodeInvalidMessage, "invalid JSON message")
		return
	}

	switch baseMsg.Type {
	case TypeChat:
		s.handleChat(conn, data)
	case TypeCancel:
		s.handleCancel(conn, data)
	default:
		s.sendError(conn, baseMsg.RequestID, "", ErrorCodeInvalidMessage, "unknown message type: "+baseMsg.Type)
	}
}

// handleChat starts a streaming chat turn.
func (s *Server) handleChat(conn *connection, data []byte) {
	var msg ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, "", "", ErrorCodeInvalidMessage, "invalid chat message")
		return
	}
	if msg.RequestID == "" {
		msg.RequestID = "req_" + uuid.New().String()[:8]
	}

	ctx, ok := conn.startTurn(msg.RequestID)
	if !ok {
		s.sendError(conn, msg.RequestID, msg.SessionID, ErrorCodeTurnInProgress, "a chat turn is already in progress on this connection")
		return
	}

	go s.runTurn(ctx, conn, msg)
}

func (s *Server) runTurn(ctx context.Context, conn *connection, msg ChatMessage) {
	done, err := s.service.ChatStream(ctx, domain.ChatRequest{
		Message:      msg.Message,
		Model:        msg.Model,
		SessionID:    msg.SessionID,
		SystemPrompt: msg.SystemPrompt,
	}, func(chunk domain.StreamChunk) error {
		return conn.sendJSON(DeltaMessage{
			BaseMessage: BaseMessage{
				Type:      TypeDelta,
				Ts:        time.Now().UnixMilli(),
				RequestID: msg.RequestID,
				SessionID: chunk.SessionID,
			},
			Content: chunk.Content,
		})
	})

	if err != nil {
		if conn.ctx.Err() != nil {
			conn.finishTurn(nil)
			log.Printf("INFO: websocket %s closed during turn %s", conn.ID, msg.RequestID)
			return
		}
		p := apierr.Classify(err)
		if p.Status >= http.StatusInternalServerError {
			log.Printf("ERROR: websocket turn %s failed: %v", msg.RequestID, err)
		}
		if err := conn.finishTurn(newErrorMessage(msg.RequestID, p.SessionID, p.Code, p.Message)); err != nil {
			log.Printf("WARN: failed to send error for turn %s: %v", msg.RequestID, err)
		}
		return
	}

	if err := conn.finishTurn(DoneMessage{
		BaseMessage: BaseMessage{
			Type:      TypeDone,
			Ts:        time.Now().UnixMilli(),
			RequestID: msg.RequestID,
			SessionID: done.SessionID,
		},
		Model: done.Model,
	}); err != nil {
		log.Printf("WARN: failed to send done for turn %s: %v", msg.RequestID, err)
	}
}

// handleCancel aborts the in-flight turn.
func (s *Server) handleCancel(conn *connection, data []byte) {
	var msg CancelMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, "", "", ErrorCodeInvalidMessage, "invalid cancel message")
		return
	}

	if !conn.abortTurn(msg.RequestID) {
		s.sendError(conn, msg.RequestID, "", ErrorCodeNoActiveTurn, "no matching chat turn in progress")
		return
	}
	log.Printf("INFO: websocket turn cancelled: request_id=%s", msg.RequestID)
}

// sendError sends an error message to a connection.
func (s *Server) sendError(conn *connection, requestID, sessionID, code, message string) {
	if err := conn.sendJSON(newErrorMessage(requestID, sessionID, code, message)); err != nil {
		log.Printf("WARN: failed to send websocket error: %v", err)
	}
}

func newErrorMessage(requestID, sessionID, code, message string) ErrorMessage {
	return ErrorMessage{
		BaseMessage: BaseMessage{
			Type:      TypeError,
			Ts:        time.Now().UnixMilli(),
			RequestID: requestID,
			SessionID: sessionID,
		},
		Code:    code,
		Message: message,
	}
}

func (s *Server) extendReadDeadline(conn *connection) {
	if s.cfg.WSReadTimeoutMS > 0 {
		conn.Conn.SetReadDeadline(time.Now().Add(s.cfg.WSReadTimeout()))
	}
}

func (s *Server) writeTimeout() time.Duration {
	if s.cfg.WSWriteTimeoutMS > 0 {
		return s.cfg.WSWriteTimeout()
	}
	return 10 * time.Second
}

func (s *Server) pingInterval() time.Duration {
	if s.cfg.WSPingIntervalMS > 0 {
		return s.cfg.WSPingInterval()
	}
	return 30 * time.Second
}
