package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a backend call when no timeout is configured.
const DefaultTimeout = 60 * time.Second

// maxErrorBody caps how much of a failure body is kept.
const maxErrorBody = 64 << 10

var errStreamIdle = errors.New("stream idle timeout")

// Client is the Ollama HTTP client.
type Client struct {
	baseURL      string
	timeout      time.Duration
	httpClient   *http.Client
	streamClient *http.Client
}

// NewClient creates a new Ollama client. Blocking calls are bounded by timeout
// as a whole; streaming calls are bounded by timeout between records.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		streamClient: &http.Client{
			Transport: transport,
		},
	}
}

// Chat sends a chat request (non-streaming).
func (c *Client) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	req.Stream = false

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/api/chat", req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, unavailable(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unavailable(ctx, err)
	}

	if !isSuccess(resp.StatusCode) {
		return nil, newBackendError(resp.StatusCode, respBody)
	}

	var result ChatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if result.Message == nil {
		return nil, fmt.Errorf("%w: response has no message", ErrProtocol)
	}

	return &result, nil
}

// ChatStream sends a streaming chat request and decodes newline-delimited
// records until one carries done=true.
func (c *Client) ChatStream(ctx context.Context, req *ChatRequest, callback StreamCallback) (*StreamChunk, error) {
	req.Stream = true

	streamCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	idle := time.AfterFunc(c.timeout, func() { cancel(errStreamIdle) })
	defer idle.Stop()

	httpReq, err := c.newRequest(streamCtx, http.MethodPost, "/api/chat", req)
	if err != nil {
		return nil, err
	}

	resp, err := c.streamClient.Do(httpReq)
	if err != nil {
		return nil, c.streamFailure(ctx, streamCtx, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, newBackendError(resp.StatusCode, respBody)
	}

	reader := bufio.NewReader(resp.Body)

	for {
		idle.Reset(c.timeout)

		line, readErr := reader.ReadBytes('\n')

		if chunk, ok := decodeRecord(line); ok {
			if chunk.Error != "" {
				return nil, &BackendError{StatusCode: http.StatusInternalServerError, Body: chunk.Error}
			}

			if chunk.Content() != "" {
				// The idle bound covers backend silence, not a slow consumer.
				idle.Stop()
				if err := callback(chunk); err != nil {
					return nil, err
				}
			}

			if chunk.Done {
				return chunk, nil
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) && ctx.Err() == nil {
				return nil, fmt.Errorf("%w: stream ended before completion", ErrBackendUnavailable)
			}
			return nil, c.streamFailure(ctx, streamCtx, readErr)
		}
	}
}

// ListModels retrieves the list of locally available models.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	httpReq, err := c.newRequest(ctx, http.MethodGet, "/api/tags", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, unavailable(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unavailable(ctx, err)
	}

	if !isSuccess(resp.StatusCode) {
		return nil, newBackendError(resp.StatusCode, respBody)
	}

	var result TagsResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	return result.Models, nil
}

// decodeRecord parses one stream line. Blank and malformed lines are skipped.
func decodeRecord(line []byte) (*StreamChunk, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, false
	}

	var chunk StreamChunk
	if err := json.Unmarshal(line, &chunk); err != nil {
		return nil, false
	}
	return &chunk, true
}

func (c *Client) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	return httpReq, nil
}

// streamFailure classifies a streaming transport failure. Caller cancellation
// wins over the idle timeout.
func (c *Client) streamFailure(ctx, streamCtx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(context.Cause(streamCtx), errStreamIdle) {
		return fmt.Errorf("%w: no data received for %s", ErrBackendUnavailable, c.timeout)
	}
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}

func unavailable(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}

func newBackendError(status int, body []byte) *BackendError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &BackendError{
		StatusCode: status,
		Body:       strings.TrimSpace(string(body)),
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
