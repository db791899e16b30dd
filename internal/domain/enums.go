// Package domain defines the core domain models for talkflow.
package domain

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// TurnState is the state of a single chat turn.
type TurnState string

const (
	TurnStateResolving  TurnState = "resolving"
	TurnStateProjecting TurnState = "projecting"
	TurnStateInvoking   TurnState = "invoking"
	TurnStateCommitting TurnState = "committing"
	TurnStateDone       TurnState = "done"
	TurnStateAborted    TurnState = "aborted"
)

// Terminal reports whether no further transition is possible.
func (s TurnState) Terminal() bool {
	return s == TurnStateDone || s == TurnStateAborted
}

// Error codes returned to clients.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeSessionNotFound    = "session_not_found"
	ErrorCodeModelMismatch      = "model_mismatch"
	ErrorCodeModelUnavailable   = "model_unavailable"
	ErrorCodeRequestBlocked     = "request_blocked"
	ErrorCodeBackendUnavailable = "backend_unavailable"
	ErrorCodeBackendError       = "backend_error"
	ErrorCodeProtocolError      = "protocol_error"
	ErrorCodeCancelled          = "cancelled"
	ErrorCodeInternalError      = "internal_error"
)
