// Package policy evaluates the chat admission policy with OPA.
package policy

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions returned by the chat policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Input is the document the policy is evaluated against.
type Input struct {
	Model           string `json:"model"`
	SessionID       string `json:"session_id"`
	NewSession      bool   `json:"new_session"`
	MessageBytes    int    `json:"message_bytes"`
	MaxMessageBytes int    `json:"max_message_bytes"`
	HasSystemPrompt bool   `json:"has_system_prompt"`
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
// The module must define data.chat_policy.decision and data.chat_policy.reason.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("decision = data.chat_policy.decision; reason = data.chat_policy.reason"),
		rego.Module("chat_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// LoadEngine builds an engine from a rego file, or from DefaultPolicy when
// path is empty.
func LoadEngine(ctx context.Context, path string) (*Engine, error) {
	if path == "" {
		return NewEngine(ctx, DefaultPolicy)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return NewEngine(ctx, string(content))
}

// Evaluate checks the chat policy.
// Returns: decision (allow, block), reason (optional), error
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 {
		return DecisionAllow, "default", nil
	}

	decision, ok := results[0].Bindings["decision"].(string)
	if !ok {
		return DecisionAllow, "unexpected return type", nil
	}
	reason, _ := results[0].Bindings["reason"].(string)

	return decision, reason, nil
}

// DefaultPolicy is the default policy content.
const DefaultPolicy = `
package chat_policy

default decision = "allow"
default reason = ""

too_large {
	input.max_message_bytes > 0
	input.message_bytes > input.max_message_bytes
}

decision = "block" {
	too_large
}

reason = msg {
	too_large
	msg := sprintf("message is %d bytes, limit is %d", [input.message_bytes, input.max_message_bytes])
}
`
