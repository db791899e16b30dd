package llm

import (
	"log"
	"os"
	"strings"
	"time"
)

const (
	// EnvMode is the environment variable name for mode selection.
	EnvMode = "TALKFLOW_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewLLMClient creates an LLM client based on the TALKFLOW_MODE environment variable.
// If TALKFLOW_MODE=MOCK, returns a MockClient; otherwise returns a real Client.
func NewLLMClient(baseURL string, timeout time.Duration) LLMClient {
	return NewLLMClientForMode(os.Getenv(EnvMode), baseURL, timeout)
}

// NewLLMClientForMode is NewLLMClient with an explicit mode.
func NewLLMClientForMode(mode, baseURL string, timeout time.Duration) LLMClient {
	if strings.EqualFold(mode, ModeMock) {
		log.Println("INFO: mock mode selected, using echo LLM client")
		return NewMockClient()
	}

	return NewClient(baseURL, timeout)
}
