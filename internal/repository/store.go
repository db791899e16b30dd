// Package store defines the session storage interface and implementations.
package store

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/iammuhammadnoumankhan/talkflow/internal/domain"
)

// Store owns all session state. Every read returns a snapshot; callers never
// hold a live reference across calls.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, model string) (*domain.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	TouchSession(ctx context.Context, sessionID string) error
	DeleteSession(ctx context.Context, sessionID string) error
	ListSessions(ctx context.Context) ([]domain.SessionSummary, error)

	// AppendMessage stamps and appends a message. It does not advance the
	// session's last_updated time.
	AppendMessage(ctx context.Context, sessionID string, message domain.Message) (*domain.Message, error)

	// Lifecycle
	Close() error
}

func newSessionID() string {
	return uuid.New().String()
}

func newMessageID() string {
	return "msg_" + uuid.New().String()[:8]
}

// sortSummaries orders by last_updated descending, then by id so the output is
// stable across calls.
func sortSummaries(summaries []domain.SessionSummary) {
	slices.SortFunc(summaries, func(a, b domain.SessionSummary) int {
		if c := b.LastUpdated.Compare(a.LastUpdated); c != 0 {
			return c
		}
		return strings.Compare(a.SessionID, b.SessionID)
	})
}
