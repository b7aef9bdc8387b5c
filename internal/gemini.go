package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	geminiModelName = "gemini-1.5-flash-latest"

	gazetteSystemInstruction = "You are a research assistant for the Ghana Gazette archive. " +
		"Answer questions about published gazette entries (change of name, change of date of birth, " +
		"appointments and other legal notices). If the answer is not found in the gazette records, " +
		"clearly state that you don't have the information. Keep answers concise and do not make up entries."
)

// GeminiClient is a ChatClient backed directly by the Gemini API, used when
// no portal backend is configured.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a Gemini-backed chat client.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() {
	if c.client != nil {
		if err := c.client.Close(); err != nil {
			LogWarn("error closing GenAI client", "error", err)
		}
	}
}

// Send submits a message with its prior history to Gemini. Gemini returns
// prose only; the search-result snapshot stays empty on this path.
func (c *GeminiClient) Send(ctx context.Context, message string, history []ChatTurn) (*ChatResponse, error) {
	model := c.client.GenerativeModel(geminiModelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(gazetteSystemInstruction)},
	}

	chatSession := model.StartChat()
	chatSession.History = historyToContents(history)

	resp, err := chatSession.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return nil, &CollaboratorError{Endpoint: "gemini", Err: err}
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		LogWarn("gemini response was empty or had no valid candidates")
		return &ChatResponse{Success: false, Error: "empty response from model"}, nil
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}

	if text.Len() == 0 {
		return &ChatResponse{Success: false, Error: "non-text response from model"}, nil
	}

	return &ChatResponse{Success: true, Response: text.String()}, nil
}

// historyToContents maps the portal's {role, content} history onto Gemini
// content, translating the assistant role to Gemini's "model".
func historyToContents(history []ChatTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := turn.Role
		if role == string(RoleAssistant) {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}
	return contents
}
