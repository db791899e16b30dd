// Package api provides the HTTP handlers for the chat relay.
package api

import (
	"net/http"

	"github.com/iammuhammadnoumankhan/talkflow/internal/service"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the /api routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")

	g.GET("/", h.Root)
	g.GET("/health", h.Health)
	g.GET("/models", h.ListModels)

	// Chat
	g.POST("/chat", h.Chat)
	g.POST("/chat/stream", h.ChatStream)

	// Sessions
	g.GET("/sessions", h.ListSessions)
	g.POST("/sessions", h.CreateSession)
	g.GET("/sessions/:session_id", h.GetSession)
	g.DELETE("/sessions/:session_id", h.DeleteSession)
}

// Root confirms the API is up.
// GET /api/
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Ollama Chat API is running"})
}

// Health reports backend reachability. It always answers 200.
// GET /api/health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Health(c.Request().Context()))
}
