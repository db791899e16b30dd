package service

import (
	"context"
	"testing"

	"github.com/iammuhammadnoumankhan/talkflow/internal/adapter/llm"
	"github.com/iammuhammadnoumankhan/talkflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	ctx := context.Background()
	client := &fakeLLM{models: []llm.Model{{Name: "llama3"}, {Name: "mistral"}}}
	svc, _ := newMemoryService(t, client)

	created, err := svc.CreateSession(ctx, "mistral")
	require.NoError(t, err)
	assert.Equal(t, "mistral", created.Model)
	assert.False(t, created.CreatedAt.IsZero())

	session, err := svc.GetSession(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Empty(t, session.Messages)

	list, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].MessageCount)
}

func TestCreateSessionErrors(t *testing.T) {
	ctx := context.Background()

	svc, _ := newMemoryService(t, &fakeLLM{models: []llm.Model{{Name: "llama3"}}})
	_, err := svc.CreateSession(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	_, err = svc.CreateSession(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	down, _ := newMemoryService(t, &fakeLLM{modelsErr: llm.ErrBackendUnavailable})
	_, err = down.CreateSession(ctx, "llama3")
	assert.ErrorIs(t, err, llm.ErrBackendUnavailable)
}

func TestDeleteUnknownSession(t *testing.T) {
	svc, _ := newMemoryService(t, &fakeLLM{})
	err := svc.DeleteSession(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestListModelsAndHealth(t *testing.T) {
	ctx := context.Background()
	client := &fakeLLM{models: []llm.Model{{Name: "llama3", Size: 42, Digest: "abc", ModifiedAt: "2024-01-01T00:00:00Z"}}}
	svc, _ := newMemoryService(t, client)

	models, err := svc.ListModels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.ModelInfo{{Name: "llama3", Size: 42, Digest: "abc", ModifiedAt: "2024-01-01T00:00:00Z"}}, models)
	assert.Equal(t, domain.HealthStatus{Status: "healthy", Ollama: "connected"}, svc.Health(ctx))

	client.modelsErr = llm.ErrBackendUnavailable
	assert.Equal(t, domain.HealthStatus{Status: "unhealthy", Ollama: "disconnected"}, svc.Health(ctx))
}
