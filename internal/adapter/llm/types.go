package llm

// ChatRequest represents the Ollama /api/chat request.
type ChatRequest struct {
	Model    string         `json:"model"`
	Messages []ChatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

// ChatMessage represents a backend-facing chat message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse represents a non-streaming /api/chat response.
type ChatResponse struct {
	Model      string       `json:"model"`
	CreatedAt  string       `json:"created_at"`
	Message    *ChatMessage `json:"message"`
	Done       bool         `json:"done"`
	DoneReason string       `json:"done_reason,omitempty"`
	Metrics
}

// StreamChunk represents a single newline-delimited record of a streaming response.
type StreamChunk struct {
	Model      string       `json:"model"`
	CreatedAt  string       `json:"created_at"`
	Message    *ChatMessage `json:"message,omitempty"`
	Done       bool         `json:"done"`
	DoneReason string       `json:"done_reason,omitempty"`
	Error      string       `json:"error,omitempty"`
	Metrics
}

// Content returns the content fragment carried by the record, if any.
func (c *StreamChunk) Content() string {
	if c == nil || c.Message == nil {
		return ""
	}
	return c.Message.Content
}

// Metrics holds the timing and token counters Ollama reports on the final record.
type Metrics struct {
	TotalDuration      int64 `json:"total_duration,omitempty"`
	LoadDuration       int64 `json:"load_duration,omitempty"`
	PromptEvalCount    int   `json:"prompt_eval_count,omitempty"`
	PromptEvalDuration int64 `json:"prompt_eval_duration,omitempty"`
	EvalCount          int   `json:"eval_count,omitempty"`
	EvalDuration       int64 `json:"eval_duration,omitempty"`
}

// Model represents a model from the /api/tags list.
type Model struct {
	Name       string         `json:"name"`
	Model      string         `json:"model,omitempty"`
	ModifiedAt string         `json:"modified_at"`
	Size       int64          `json:"size"`
	Digest     string         `json:"digest"`
	Details    map[string]any `json:"details,omitempty"`
}

// TagsResponse represents the response from /api/tags.
type TagsResponse struct {
	Models []Model `json:"models"`
}
