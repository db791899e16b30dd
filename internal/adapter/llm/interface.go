// Package llm provides an abstraction for the Ollama inference backend.
package llm

import "context"

// LLMClient defines the interface for inference backend operations.
type LLMClient interface {
	// Chat sends a blocking chat request and waits for the full reply.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// ChatStream sends a streaming chat request.
	// The callback is called for each record carrying content, in arrival order.
	// It returns the record that carried the completion flag.
	ChatStream(ctx context.Context, req *ChatRequest, callback StreamCallback) (*StreamChunk, error)

	// ListModels retrieves the list of available models.
	ListModels(ctx context.Context) ([]Model, error)
}

// StreamCallback is called for each content-bearing record in a streaming response.
type StreamCallback func(chunk *StreamChunk) error

// Ensure Client implements LLMClient interface.
var _ LLMClient = (*Client)(nil)
