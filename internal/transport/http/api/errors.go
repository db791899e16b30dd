package api

import (
	"log"
	"net/http"

	"github.com/iammuhammadnoumankhan/talkflow/internal/domain"
	"github.com/iammuhammadnoumankhan/talkflow/internal/transport/apierr"
	"github.com/labstack/echo/v4"
)

// writeError renders err as a JSON error body with the mapped status.
func writeError(c echo.Context, err error) error {
	p := apierr.Classify(err)
	if p.Status >= http.StatusInternalServerError {
		log.Printf("ERROR: %s %s failed: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(p.Status, p)
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, apierr.Problem{
		Message: message,
		Code:    domain.ErrorCodeInvalidRequest,
	})
}
