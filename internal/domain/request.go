package domain

import "time"

// ChatRequest is an inbound chat turn.
type ChatRequest struct {
	Message      string `json:"message"`
	Model        string `json:"model"`
	SessionID    string `json:"session_id,omitempty"`
	SystemPrompt string `json:"system_prompt,omitempty"`
}

// ChatResponse is the result of a blocking chat turn.
type ChatResponse struct {
	Response  string    `json:"response"`
	SessionID string    `json:"session_id"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}

// CreateSessionRequest asks for a new session bound to a model.
type CreateSessionRequest struct {
	Model string `json:"model"`
}

// CreateSessionResponse is returned after explicit session creation.
type CreateSessionResponse struct {
	SessionID string    `json:"session_id"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// ModelInfo describes a model served by the backend.
type ModelInfo struct {
	Name       string         `json:"name"`
	ModifiedAt string         `json:"modified_at"`
	Size       int64          `json:"size"`
	Digest     string         `json:"digest"`
	Details    map[string]any `json:"details,omitempty"`
}

// HealthStatus reports backend reachability.
type HealthStatus struct {
	Status string `json:"status"`
	Ollama string `json:"ollama"`
}
