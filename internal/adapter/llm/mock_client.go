package llm

import (
	"context"
	"time"
)

// MockModel is the only model the mock client serves.
const MockModel = "mock-echo"

// MockClient is an echo implementation of LLMClient: the reply to any request
// is the content of the last user message.
type MockClient struct {
	chunkSize int
}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{chunkSize: 8}
}

// Ensure MockClient implements LLMClient interface.
var _ LLMClient = (*MockClient)(nil)

// Chat returns the echoed reply.
func (m *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reply := lastUserMessage(req.Messages)

	return &ChatResponse{
		Model:     req.Model,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Message: &ChatMessage{
			Role:    "assistant",
			Content: reply,
		},
		Done:       true,
		DoneReason: "stop",
		Metrics:    m.metrics(req, reply),
	}, nil
}

// ChatStream simulates a streaming response by splitting the echoed reply.
func (m *MockClient) ChatStream(ctx context.Context, req *ChatRequest, callback StreamCallback) (*StreamChunk, error) {
	reply := lastUserMessage(req.Messages)
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	for _, piece := range splitRunes(reply, m.chunkSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		chunk := &StreamChunk{
			Model:     req.Model,
			CreatedAt: createdAt,
			Message: &ChatMessage{
				Role:    "assistant",
				Content: piece,
			},
		}
		if err := callback(chunk); err != nil {
			return nil, err
		}
	}

	return &StreamChunk{
		Model:      req.Model,
		CreatedAt:  createdAt,
		Message:    &ChatMessage{Role: "assistant"},
		Done:       true,
		DoneReason: "stop",
		Metrics:    m.metrics(req, reply),
	}, nil
}

// ListModels returns the mock model.
func (m *MockClient) ListModels(ctx context.Context) ([]Model, error) {
	return []Model{
		{
			Name:       MockModel,
			Model:      MockModel,
			ModifiedAt: time.Now().UTC().Format(time.RFC3339),
			Digest:     "mock",
			Details:    map[string]any{"family": "mock"},
		},
	}, nil
}

// metrics provides rough token counts.
func (m *MockClient) metrics(req *ChatRequest, reply string) Metrics {
	prompt := 0
	for _, msg := range req.Messages {
		prompt += len(msg.Content) / 4
	}
	return Metrics{
		PromptEvalCount: prompt,
		EvalCount:       len(reply) / 4,
	}
}

func lastUserMessage(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}

// splitRunes splits s into pieces of at most size runes.
func splitRunes(s string, size int) []string {
	runes := []rune(s)
	var pieces []string
	for i := 0; i < len(runes); i += size {
		end := min(i+size, len(runes))
		pieces = append(pieces, string(runes[i:end]))
	}
	return pieces
}
