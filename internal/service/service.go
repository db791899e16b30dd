// Package service implements the conversation orchestrator.
package service

import (
	"github.com/iammuhammadnoumankhan/talkflow/internal/adapter/llm"
	"github.com/iammuhammadnoumankhan/talkflow/internal/config"
	"github.com/iammuhammadnoumankhan/talkflow/internal/policy"
	"github.com/iammuhammadnoumankhan/talkflow/internal/repository"
)

type Service struct {
	store        store.Store
	llmClient    llm.LLMClient
	config       *config.Config
	policyEngine *policy.Engine
	locks        *sessionLocks
}

// New wires the orchestrator. policyEngine may be nil, in which case every
// request is admitted.
func New(store store.Store, llmClient llm.LLMClient, cfg *config.Config, policyEngine *policy.Engine) *Service {
	s := &Service{
		store:        store,
		llmClient:    llmClient,
		config:       cfg,
		policyEngine: policyEngine,
	}
	if cfg.SessionLocking {
		s.locks = newSessionLocks()
	}
	return s
}
