package service

import (
	"github.com/iammuhammadnoumankhan/talkflow/internal/adapter/llm"
	"github.com/iammuhammadnoumankhan/talkflow/internal/domain"
)

// ProjectMessages converts a session's history into the backend message list.
// A non-empty systemPrompt is prepended as a system entry for this request
// only. Stored system messages are kept, so a supplied prompt adds to them
// rather than replacing them.
func ProjectMessages(session *domain.Session, systemPrompt string) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, len(session.Messages)+1)
	if systemPrompt != "" {
		messages = append(messages, llm.ChatMessage{Role: string(domain.RoleSystem), Content: systemPrompt})
	}
	for _, msg := range session.Messages {
		messages = append(messages, llm.ChatMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return messages
}
