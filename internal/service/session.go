package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/iammuhammadnoumankhan/talkflow/internal/domain"
)

// CreateSession creates an empty session after checking that the backend
// serves the model.
func (s *Service) CreateSession(ctx context.Context, model string) (*domain.CreateSessionResponse, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, fmt.Errorf("%w: model is required", domain.ErrInvalidRequest)
	}

	models, err := s.llmClient.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	found := false
	for _, m := range models {
		if m.Name == model {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", domain.ErrModelUnavailable, model)
	}

	session, err := s.store.CreateSession(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	log.Printf("INFO: created session %s for model %s", session.SessionID, session.Model)

	return &domain.CreateSessionResponse{
		SessionID: session.SessionID,
		Model:     session.Model,
		CreatedAt: session.CreatedAt,
	}, nil
}

func (s *Service) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

func (s *Service) ListSessions(ctx context.Context) ([]domain.SessionSummary, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	log.Printf("INFO: deleted session %s", sessionID)
	return nil
}
