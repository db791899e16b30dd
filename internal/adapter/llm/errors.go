package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendUnavailable is returned when the backend cannot be reached,
	// stays silent past the request timeout, or drops a stream before completion.
	ErrBackendUnavailable = errors.New("ollama server is not available")
	// ErrProtocol is returned when a success response cannot be decoded.
	ErrProtocol = errors.New("malformed response from ollama")
)

// BackendError is returned when the backend answers with a failure status.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("ollama error [%d]: %s", e.StatusCode, e.Body)
}
