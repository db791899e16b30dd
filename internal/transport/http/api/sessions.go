package api

import (
	"net/http"

	"github.com/iammuhammadnoumankhan/talkflow/internal/domain"
	"github.com/labstack/echo/v4"
)

// ListSessions lists all sessions, most recently updated first.
// GET /api/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	sessions, err := h.service.ListSessions(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sessions)
}

// CreateSession creates an empty session. The model comes from the query
// string or from a JSON body.
// POST /api/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	model := c.QueryParam("model")
	if model == "" {
		var req domain.CreateSessionRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		model = req.Model
	}

	resp, err := h.service.CreateSession(c.Request().Context(), model)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetSession returns a session with its full history.
// GET /api/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	session, err := h.service.GetSession(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// DeleteSession removes a session.
// DELETE /api/sessions/:session_id
func (h *Handler) DeleteSession(c echo.Context) error {
	if err := h.service.DeleteSession(c.Request().Context(), c.Param("session_id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Session deleted successfully"})
}
