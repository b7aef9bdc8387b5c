package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// BackendClient talks to the gazette portal's REST backend: the AI search
// endpoint plus the best-effort statistics and history-clear endpoints.
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewBackendClient creates a client for the portal backend. The generous
// timeout accounts for AI calls; retry policy is out of scope here.
func NewBackendClient(baseURL string) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type aiSearchRequest struct {
	Message string     `json:"message"`
	History []ChatTurn `json:"history"`
}

// Send submits a message with its prior history to the AI search endpoint.
func (c *BackendClient) Send(ctx context.Context, message string, history []ChatTurn) (*ChatResponse, error) {
	body, err := json.Marshal(aiSearchRequest{Message: message, History: history})
	if err != nil {
		return nil, &CollaboratorError{Endpoint: "ai-search", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ai-search", bytes.NewReader(body))
	if err != nil {
		return nil, &CollaboratorError{Endpoint: "ai-search", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &CollaboratorError{Endpoint: "ai-search", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &CollaboratorError{
			Endpoint: "ai-search",
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, &CollaboratorError{Endpoint: "ai-search", Err: err}
	}
	return &chatResp, nil
}

// RecordUsage reports a usage event to the statistics endpoint. Fire and
// forget: failures are logged and never block the action that triggered them.
func (c *BackendClient) RecordUsage(ctx context.Context, event, sessionID string) {
	payload := map[string]string{"event": event, "session_id": sessionID}
	if err := c.post(ctx, "/api/statistics", payload); err != nil {
		LogDebug("usage statistics call failed", "event", event, "error", err)
	}
}

// ClearHistory asks the backend to clear the remote chat history. Best
// effort: the local clear has already succeeded when this is called.
func (c *BackendClient) ClearHistory(ctx context.Context) {
	if err := c.post(ctx, "/api/chat-history/clear", struct{}{}); err != nil {
		LogWarn("remote history clear failed, local history already cleared", "error", err)
	}
}

func (c *BackendClient) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &CollaboratorError{Endpoint: path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &CollaboratorError{Endpoint: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &CollaboratorError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &CollaboratorError{Endpoint: path, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return nil
}
