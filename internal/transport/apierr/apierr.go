// Package apierr maps orchestrator errors onto client-facing status codes.
package apierr

import (
	"context"
	"errors"
	"net/http"

	"github.com/iammuhammadnoumankhan/talkflow/internal/adapter/llm"
	"github.com/iammuhammadnoumankhan/talkflow/internal/domain"
)

// StatusClientClosedRequest is reported when the caller went away mid-turn.
const StatusClientClosedRequest = 499

// Problem is the client-facing description of an error.
type Problem struct {
	Status    int    `json:"-"`
	Message   string `json:"error"`
	Code      string `json:"code"`
	SessionID string `json:"session_id,omitempty"`
}

// Classify maps err onto a Problem.
func Classify(err error) Problem {
	p := Problem{}

	var turnErr *domain.TurnError
	if errors.As(err, &turnErr) {
		p.SessionID = turnErr.SessionID
	}

	var backendErr *llm.BackendError
	switch {
	case errors.As(err, &backendErr):
		p.Status = backendErr.StatusCode
		if p.Status < http.StatusBadRequest || p.Status > 599 {
			p.Status = http.StatusBadGateway
		}
		p.Code = domain.ErrorCodeBackendError
		p.Message = "Ollama error: " + backendErr.Body
	case errors.Is(err, llm.ErrBackendUnavailable):
		p.Status = http.StatusServiceUnavailable
		p.Code = domain.ErrorCodeBackendUnavailable
		p.Message = "Ollama server is not available"
	case errors.Is(err, llm.ErrProtocol):
		p.Status = http.StatusBadGateway
		p.Code = domain.ErrorCodeProtocolError
		p.Message = "Malformed response from Ollama"
	case errors.Is(err, domain.ErrSessionNotFound):
		p.Status = http.StatusNotFound
		p.Code = domain.ErrorCodeSessionNotFound
		p.Message = "Session not found"
	case errors.Is(err, domain.ErrModelMismatch):
		p.Status = http.StatusBadRequest
		p.Code = domain.ErrorCodeModelMismatch
		p.Message = "Model mismatch with session"
	case errors.Is(err, domain.ErrModelUnavailable):
		p.Status = http.StatusBadRequest
		p.Code = domain.ErrorCodeModelUnavailable
		p.Message = cause(err)
	case errors.Is(err, domain.ErrRequestBlocked):
		p.Status = http.StatusBadRequest
		p.Code = domain.ErrorCodeRequestBlocked
		p.Message = cause(err)
	case errors.Is(err, domain.ErrInvalidRequest):
		p.Status = http.StatusBadRequest
		p.Code = domain.ErrorCodeInvalidRequest
		p.Message = cause(err)
	case errors.Is(err, context.Canceled):
		p.Status = StatusClientClosedRequest
		p.Code = domain.ErrorCodeCancelled
		p.Message = "request cancelled"
	default:
		p.Status = http.StatusInternalServerError
		p.Code = domain.ErrorCodeInternalError
		p.Message = "Chat error: " + cause(err)
	}

	return p
}

// cause strips the turn wrapper so clients see the underlying reason.
func cause(err error) string {
	var turnErr *domain.TurnError
	if errors.As(err, &turnErr) && turnErr.Err != nil {
		return turnErr.Err.Error()
	}
	return err.Error()
}
