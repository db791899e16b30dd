package store

import (
	"context"
	"sync"
	"time"

	"github.com/iammuhammadnoumankhan/talkflow/internal/domain"
)

// MemoryStore implements Store with a process-local map.
type MemoryStore struct {
	sessions map[string]*domain.Session
	now      func() time.Time
	mu       sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*domain.Session),
		now:      time.Now,
	}
}

// Ensure MemoryStore implements Store interface.
var _ Store = (*MemoryStore)(nil)

// CreateSession never fails.
func (s *MemoryStore) CreateSession(ctx context.Context, model string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	session := &domain.Session{
		SessionID: newSessionID(),
		Model:     model,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[session.SessionID] = session

	return session.Clone(), nil
}

func (s *MemoryStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *MemoryStore) AppendMessage(ctx context.Context, sessionID string, message domain.Message) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	message.MessageID = newMessageID()
	message.Timestamp = s.now()
	session.Messages = append(session.Messages, message)

	return &message, nil
}

func (s *MemoryStore) TouchSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *MemoryStore) ListSessions(ctx context.Context) ([]domain.SessionSummary, error) {
	s.mu.RLock()
	summaries := make([]domain.SessionSummary, 0, len(s.sessions))
	for _, session := range s.sessions {
		summaries = append(summaries, session.Summary())
	}
	s.mu.RUnlock()

	sortSummaries(summaries)
	return summaries, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
