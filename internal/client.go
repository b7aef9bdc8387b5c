package internal

import "context"

// ChatResponse is the AI endpoint's answer to one submitted message.
type ChatResponse struct {
	Success       bool            `json:"success"`
	Response      string          `json:"response,omitempty"`
	SearchResults []GazetteRecord `json:"searchResults,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// ChatClient is the AI-chat collaborator. The core treats it as an opaque
// call: no retries, no batching, no rate limiting.
type ChatClient interface {
	Send(ctx context.Context, message string, history []ChatTurn) (*ChatResponse, error)
}
