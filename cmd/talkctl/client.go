package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iammuhammadnoumankhan/talkflow/internal/domain"
)

// apiClient talks to the talkflow JSON API.
type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// apiError is a non-2xx answer from the server.
type apiError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"error"`
}

func (e *apiError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s (%s, %d)", e.Message, e.Code, e.StatusCode)
}

func (c *apiClient) Health(ctx context.Context) (*domain.HealthStatus, error) {
	var status domain.HealthStatus
	if err := c.do(ctx, http.MethodGet, "/api/health", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *apiClient) Models(ctx context.Context) ([]domain.ModelInfo, error) {
	var models []domain.ModelInfo
	if err := c.do(ctx, http.MethodGet, "/api/models", &models); err != nil {
		return nil, err
	}
	return models, nil
}

func (c *apiClient) ListSessions(ctx context.Context) ([]domain.SessionSummary, error) {
	var sessions []domain.SessionSummary
	if err := c.do(ctx, http.MethodGet, "/api/sessions", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *apiClient) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	var session domain.Session
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+url.PathEscape(id), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *apiClient) CreateSession(ctx context.Context, model string) (*domain.CreateSessionResponse, error) {
	var created domain.CreateSessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/sessions?model="+url.QueryEscape(model), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *apiClient) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/sessions/"+url.PathEscape(id), nil)
}

func (c *apiClient) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{StatusCode: resp.StatusCode}
		if json.Unmarshal(body, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = string(body)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
