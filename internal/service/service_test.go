package service

import (
	"context"
	"sync"
	"testing"

	"github.com/iammuhammadnoumankhan/talkflow/internal/adapter/llm"
	"github.com/iammuhammadnoumankhan/talkflow/internal/config"
	"github.com/iammuhammadnoumankhan/talkflow/internal/policy"
	"github.com/iammuhammadnoumankhan/talkflow/internal/repository"
	"github.com/iammuhammadnoumankhan/talkflow/tests/helpers"
	"github.com/stretchr/testify/require"
)

// fakeLLM is a scriptable LLMClient that records every request it receives.
type fakeLLM struct {
	mu       sync.Mutex
	requests []llm.ChatRequest

	chat      func(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error)
	stream    func(ctx context.Context, req *llm.ChatRequest, callback llm.StreamCallback) (*llm.StreamChunk, error)
	models    []llm.Model
	modelsErr error
}

var _ llm.LLMClient = (*fakeLLM)(nil)

func (f *fakeLLM) record(req *llm.ChatRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *req
	cp.Messages = append([]llm.ChatMessage(nil), req.Messages...)
	f.requests = append(f.requests, cp)
}

func (f *fakeLLM) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	f.record(req)
	if f.chat == nil {
		return reply("ok"), nil
	}
	return f.chat(ctx, req)
}

func (f *fakeLLM) ChatStream(ctx context.Context, req *llm.ChatRequest, callback llm.StreamCallback) (*llm.StreamChunk, error) {
	f.record(req)
	return f.stream(ctx, req, callback)
}

func (f *fakeLLM) ListModels(ctx context.Context) ([]llm.Model, error) {
	return f.models, f.modelsErr
}

func (f *fakeLLM) calls() []llm.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]llm.ChatRequest(nil), f.requests...)
}

func reply(content string) *llm.ChatResponse {
	return &llm.ChatResponse{Message: &llm.ChatMessage{Role: "assistant", Content: content}, Done: true}
}

// streamOf returns a stream func that delivers fragments then completes.
func streamOf(fragments ...string) func(context.Context, *llm.ChatRequest, llm.StreamCallback) (*llm.StreamChunk, error) {
	return func(ctx context.Context, req *llm.ChatRequest, callback llm.StreamCallback) (*llm.StreamChunk, error) {
		for _, f := range fragments {
			if err := callback(&llm.StreamChunk{Message: &llm.ChatMessage{Role: "assistant", Content: f}}); err != nil {
				return nil, err
			}
		}
		return &llm.StreamChunk{Done: true}, nil
	}
}

type testOption func(cfg *config.Config)

func newTestService(t *testing.T, st store.Store, client llm.LLMClient, opts ...testOption) *Service {
	t.Helper()

	cfg := config.Default()
	for _, opt := range opts {
		opt(&cfg)
	}

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	return New(st, client, &cfg, engine)
}

func newMemoryService(t *testing.T, client llm.LLMClient, opts ...testOption) (*Service, store.Store) {
	t.Helper()
	st := helpers.NewTestMemoryStore(t)
	return newTestService(t, st, client, opts...), st
}

func storeBackends() map[string]func(t *testing.T) store.Store {
	return map[string]func(t *testing.T) store.Store{
		"memory": func(t *testing.T) store.Store { return helpers.NewTestMemoryStore(t) },
		"sqlite": func(t *testing.T) store.Store { return helpers.NewTestSQLiteStore(t) },
	}
}
