package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/iammuhammadnoumankhan/talkflow/internal/adapter/llm"
	"github.com/iammuhammadnoumankhan/talkflow/internal/domain"
	"github.com/iammuhammadnoumankhan/talkflow/internal/policy"
)

// ChunkEmitter receives each reply fragment of a streaming turn in order.
// Returning an error aborts the turn.
type ChunkEmitter func(chunk domain.StreamChunk) error

// turn tracks a single chat request through its states.
type turn struct {
	state    domain.TurnState
	session  *domain.Session
	messages []llm.ChatMessage
	release  func()
}

func (t *turn) enter(state domain.TurnState) {
	t.state = state
}

func (t *turn) sessionID() string {
	if t.session == nil {
		return ""
	}
	return t.session.SessionID
}

// fail aborts the turn and wraps err with the state it was aborted in.
func (t *turn) fail(err error) error {
	state := t.state
	t.state = domain.TurnStateAborted
	log.Printf("WARN: chat turn aborted while %s (session %q): %v", state, t.sessionID(), err)
	return &domain.TurnError{SessionID: t.sessionID(), State: state, Err: err}
}

// Chat runs a blocking chat turn.
func (s *Service) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	t, err := s.beginTurn(ctx, req)
	if err != nil {
		return nil, err
	}
	defer t.release()

	t.enter(domain.TurnStateInvoking)
	resp, err := s.llmClient.Chat(ctx, &llm.ChatRequest{
		Model:    t.session.Model,
		Messages: t.messages,
	})
	if err != nil {
		return nil, t.fail(err)
	}
	if resp.Message == nil {
		return nil, t.fail(fmt.Errorf("%w: reply has no message", llm.ErrProtocol))
	}

	reply, err := s.commit(ctx, t, resp.Message.Content)
	if err != nil {
		return nil, err
	}

	return &domain.ChatResponse{
		Response:  reply.Content,
		SessionID: t.session.SessionID,
		Model:     t.session.Model,
		Timestamp: reply.Timestamp,
	}, nil
}

// ChatStream runs a streaming chat turn, passing every fragment to emit as it
// arrives. The reply is committed only if the backend completes the stream.
func (s *Service) ChatStream(ctx context.Context, req domain.ChatRequest, emit ChunkEmitter) (*domain.StreamDone, error) {
	t, err := s.beginTurn(ctx, req)
	if err != nil {
		return nil, err
	}
	defer t.release()

	t.enter(domain.TurnStateInvoking)
	var reply strings.Builder
	_, err = s.llmClient.ChatStream(ctx, &llm.ChatRequest{
		Model:    t.session.Model,
		Messages: t.messages,
	}, func(chunk *llm.StreamChunk) error {
		content := chunk.Content()
		reply.WriteString(content)
		return emit(domain.StreamChunk{Content: content, SessionID: t.session.SessionID})
	})
	if err != nil {
		return nil, t.fail(err)
	}

	if _, err := s.commit(ctx, t, reply.String()); err != nil {
		return nil, err
	}

	return &domain.StreamDone{
		Done:      true,
		SessionID: t.session.SessionID,
		Model:     t.session.Model,
	}, nil
}

// beginTurn resolves the session, records the user message and projects the
// history. On success the caller owns t.release.
func (s *Service) beginTurn(ctx context.Context, req domain.ChatRequest) (_ *turn, err error) {
	t := &turn{state: domain.TurnStateResolving, release: func() {}}
	defer func() {
		if err != nil {
			t.release()
		}
	}()

	if strings.TrimSpace(req.Message) == "" {
		return nil, t.fail(fmt.Errorf("%w: message is required", domain.ErrInvalidRequest))
	}
	req.Model = strings.TrimSpace(req.Model)
	if req.Model == "" {
		return nil, t.fail(fmt.Errorf("%w: model is required", domain.ErrInvalidRequest))
	}

	if err := s.admit(ctx, req); err != nil {
		return nil, t.fail(err)
	}

	if req.SessionID != "" {
		release, err := s.locks.acquire(ctx, req.SessionID)
		if err != nil {
			return nil, t.fail(err)
		}
		t.release = release

		session, err := s.store.GetSession(ctx, req.SessionID)
		if err != nil {
			return nil, t.fail(err)
		}
		t.session = session
		if session.Model != req.Model {
			return nil, t.fail(fmt.Errorf("%w: session uses %s, request asked for %s", domain.ErrModelMismatch, session.Model, req.Model))
		}
	} else {
		session, err := s.store.CreateSession(ctx, req.Model)
		if err != nil {
			return nil, t.fail(fmt.Errorf("failed to create session: %w", err))
		}
		t.session = session
		log.Printf("INFO: created session %s for model %s", session.SessionID, session.Model)

		release, err := s.locks.acquire(ctx, session.SessionID)
		if err != nil {
			return nil, t.fail(err)
		}
		t.release = release
	}

	msg, err := s.store.AppendMessage(ctx, t.session.SessionID, domain.Message{
		Role:    domain.RoleUser,
		Content: req.Message,
	})
	if err != nil {
		return nil, t.fail(fmt.Errorf("failed to save user message: %w", err))
	}
	t.session.Messages = append(t.session.Messages, *msg)

	t.enter(domain.TurnStateProjecting)
	t.messages = ProjectMessages(t.session, req.SystemPrompt)

	return t, nil
}

// commit stores the assistant reply and advances the session's last_updated
// time. It runs detached from caller cancellation.
func (s *Service) commit(ctx context.Context, t *turn, content string) (*domain.Message, error) {
	t.enter(domain.TurnStateCommitting)
	ctx = context.WithoutCancel(ctx)

	msg, err := s.store.AppendMessage(ctx, t.session.SessionID, domain.Message{
		Role:    domain.RoleAssistant,
		Content: content,
	})
	if err != nil {
		return nil, t.fail(fmt.Errorf("failed to save assistant message: %w", err))
	}
	if err := s.store.TouchSession(ctx, t.session.SessionID); err != nil {
		return nil, t.fail(fmt.Errorf("failed to touch session: %w", err))
	}

	t.enter(domain.TurnStateDone)
	return msg, nil
}

// admit evaluates the chat admission policy.
func (s *Service) admit(ctx context.Context, req domain.ChatRequest) error {
	if s.policyEngine == nil {
		return nil
	}

	decision, reason, err := s.policyEngine.Evaluate(ctx, policy.Input{
		Model:           req.Model,
		SessionID:       req.SessionID,
		NewSession:      req.SessionID == "",
		MessageBytes:    len(req.Message),
		MaxMessageBytes: s.config.MaxMessageBytes,
		HasSystemPrompt: req.SystemPrompt != "",
	})
	if err != nil {
		return fmt.Errorf("failed to evaluate chat policy: %w", err)
	}

	switch decision {
	case policy.DecisionAllow:
		return nil
	case policy.DecisionBlock:
		if reason == "" {
			return domain.ErrRequestBlocked
		}
		return fmt.Errorf("%w: %s", domain.ErrRequestBlocked, reason)
	default:
		return fmt.Errorf("unknown policy decision %q", decision)
	}
}
