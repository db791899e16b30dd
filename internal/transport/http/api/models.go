package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListModels lists the models the backend serves.
// GET /api/models
func (h *Handler) ListModels(c echo.Context) error {
	models, err := h.service.ListModels(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, models)
}
