package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a session id is unknown.
	ErrSessionNotFound = errors.New("session not found")
	// ErrModelMismatch is returned when a request names a model other than the session's.
	ErrModelMismatch = errors.New("model mismatch with session")
	// ErrModelUnavailable is returned when the backend does not serve the model.
	ErrModelUnavailable = errors.New("model not available")
	// ErrRequestBlocked is returned when the chat policy rejects a request.
	ErrRequestBlocked = errors.New("request blocked by policy")
	// ErrInvalidRequest is returned for malformed inbound requests.
	ErrInvalidRequest = errors.New("invalid request")
)

// TurnError records where a chat turn was aborted.
type TurnError struct {
	SessionID string
	State     TurnState
	Err       error
}

func (e *TurnError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("turn aborted while %s: %v", e.State, e.Err)
	}
	return fmt.Sprintf("turn aborted while %s (session %s): %v", e.State, e.SessionID, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}
