package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/iammuhammadnoumankhan/talkflow/internal/domain"
	"github.com/iammuhammadnoumankhan/talkflow/internal/transport/apierr"
	"github.com/labstack/echo/v4"
)

// Chat runs a blocking chat turn.
// POST /api/chat
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.service.Chat(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ChatStream runs a streaming chat turn as server-sent events.
// Failures before the first fragment are answered with a JSON error status;
// later failures end the stream with an error event.
// POST /api/chat/stream
func (h *Handler) ChatStream(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	res := c.Response()
	flusher, ok := res.Writer.(http.Flusher)
	if !ok {
		return c.JSON(http.StatusInternalServerError, apierr.Problem{
			Message: "streaming not supported",
			Code:    domain.ErrorCodeInternalError,
		})
	}

	ctx := c.Request().Context()
	started := false
	send := func(event any) error {
		if !started {
			started = true
			res.Header().Set("Content-Type", "text/event-stream")
			res.Header().Set("Cache-Control", "no-cache")
			res.Header().Set("Connection", "keep-alive")
			res.Header().Set("X-Accel-Buffering", "no")
			res.WriteHeader(http.StatusOK)
		}

		data, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(res, "data: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	done, err := h.service.ChatStream(ctx, req, func(chunk domain.StreamChunk) error {
		return send(chunk)
	})
	if err != nil {
		p := apierr.Classify(err)
		if !started {
			return c.JSON(p.Status, p)
		}
		if ctx.Err() != nil {
			log.Printf("INFO: stream client went away (session %s)", p.SessionID)
			return nil
		}
		if sendErr := send(domain.StreamError{Error: p.Message, Code: p.Code, SessionID: p.SessionID}); sendErr != nil {
			log.Printf("WARN: failed to write stream error event: %v", sendErr)
		}
		return nil
	}

	if err := send(done); err != nil {
		log.Printf("WARN: failed to write stream done event: %v", err)
	}
	return nil
}
