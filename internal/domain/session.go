package domain

import (
	"slices"
	"time"
)

// Session represents a conversation thread bound to one model.
type Session struct {
	SessionID string    `json:"session_id"`
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"last_updated"`
}

// Message represents a single turn entry in a session.
type Message struct {
	MessageID string    `json:"message_id,omitempty"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionSummary is the list view of a session.
type SessionSummary struct {
	SessionID    string    `json:"session_id"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"created_at"`
	LastUpdated  time.Time `json:"last_updated"`
	MessageCount int       `json:"message_count"`
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Messages = slices.Clone(s.Messages)
	if cp.Messages == nil {
		cp.Messages = []Message{}
	}
	return &cp
}

// Summary returns the list view of the session.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		SessionID:    s.SessionID,
		Model:        s.Model,
		CreatedAt:    s.CreatedAt,
		LastUpdated:  s.UpdatedAt,
		MessageCount: len(s.Messages),
	}
}
