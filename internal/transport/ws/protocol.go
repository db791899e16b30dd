package ws

// Message types from client to server
const (
	TypeChat   = "chat"
	TypeCancel = "cancel"
)

// Message types from server to client
const (
	TypeDelta = "delta"
	TypeDone  = "done"
	TypeError = "error"
)

// Error codes specific to the WebSocket transport. Turn failures reuse the
// codes of the HTTP API.
const (
	ErrorCodeInvalidMessage = "invalid_message"
	ErrorCodeTurnInProgress = "turn_in_progress"
	ErrorCodeNoActiveTurn   = "no_active_turn"
)

// BaseMessage contains common fields for all messages.
type BaseMessage struct {
	Type      string `json:"type"`
	Ts        int64  `json:"ts,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatMessage starts a streaming chat turn.
type ChatMessage struct {
	BaseMessage
	Message      string `json:"message"`
	Model        string `json:"model"`
	SystemPrompt string `json:"system_prompt,omitempty"`
}

// CancelMessage aborts the in-flight turn with the given request id.
type CancelMessage struct {
	BaseMessage
}

// DeltaMessage carries one reply fragment.
type DeltaMessage struct {
	BaseMessage
	Content string `json:"content"`
}

// DoneMessage ends a turn whose reply was committed.
type DoneMessage struct {
	BaseMessage
	Model string `json:"model"`
}

// ErrorMessage reports a rejected message or a failed turn.
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"code"`
	Message string `json:"message"`
}
