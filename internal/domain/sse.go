package domain

// StreamChunk carries one fragment of a streaming reply.
type StreamChunk struct {
	Content   string `json:"content"`
	SessionID string `json:"session_id"`
}

// StreamDone terminates a successful streaming reply.
type StreamDone struct {
	Done      bool   `json:"done"`
	SessionID string `json:"session_id"`
	Model     string `json:"model"`
}

// StreamError terminates a streaming reply that failed after it started.
type StreamError struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	SessionID string `json:"session_id,omitempty"`
}
