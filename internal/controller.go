package internal

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ControllerState is the lifecycle state of the active conversation.
type ControllerState int

const (
	StateIdle ControllerState = iota
	StateComposing
	StateAwaitingResponse
)

func (s ControllerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComposing:
		return "composing"
	case StateAwaitingResponse:
		return "awaiting-response"
	default:
		return "unknown"
	}
}

// ChatController owns the single active conversation. It is the only
// component that accepts new messages; on every settle it writes both the
// catalog row and the conversation body through the repository.
//
// Execution is single-threaded and event-driven: the controller serializes
// conversation mutation by rejecting re-entrant Submit while a response is
// outstanding, not by locking. Folder, favorite, and feedback writes on other
// sessions touch disjoint keys and may proceed during that window.
type ChatController struct {
	repo   *SessionRepository
	client ChatClient

	state     ControllerState
	sessionID string
	title     string
	messages  []Message
	history   []ChatTurn
	results   []GazetteRecord
}

// NewChatController creates a controller with a fresh, empty conversation.
func NewChatController(repo *SessionRepository, client ChatClient) *ChatController {
	c := &ChatController{repo: repo, client: client}
	c.reset()
	return c
}

func (c *ChatController) reset() {
	c.state = StateIdle
	c.sessionID = uuid.NewString()
	c.title = DefaultTitle
	c.messages = nil
	c.history = nil
	c.results = nil
}

// State returns the controller's lifecycle state.
func (c *ChatController) State() ControllerState { return c.state }

// SessionID returns the active session's id.
func (c *ChatController) SessionID() string { return c.sessionID }

// Title returns the active session's title.
func (c *ChatController) Title() string { return c.title }

// Messages returns a copy of the in-memory message log.
func (c *ChatController) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// SearchResults returns a copy of the last search-result snapshot.
func (c *ChatController) SearchResults() []GazetteRecord {
	out := make([]GazetteRecord, len(c.results))
	copy(out, c.results)
	return out
}

// Compose marks the user as typing. No-op unless the controller is idle.
func (c *ChatController) Compose() {
	if c.state == StateIdle {
		c.state = StateComposing
	}
}

// Submit sends a user message to the AI endpoint. The user message is
// appended optimistically and retained even when the call fails, so the user
// never loses their input. A Submit while a response is outstanding is a
// no-op, not queued. A response arriving after NewConversation switched the
// active session is discarded rather than applied to the wrong session.
func (c *ChatController) Submit(ctx context.Context, text string) error {
	if c.state == StateAwaitingResponse {
		LogDebug("submit ignored, response already in flight", "session", c.sessionID)
		return nil
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &ValidationError{Field: "message", Reason: "message must not be empty"}
	}

	prior := make([]ChatTurn, len(c.history))
	copy(prior, c.history)

	c.messages = append(c.messages, Message{
		Role:      RoleUser,
		Content:   trimmed,
		Timestamp: time.Now(),
	})
	c.history = append(c.history, ChatTurn{Role: string(RoleUser), Content: trimmed})

	// Title derivation happens exactly once, on the first user message while
	// the title is still the placeholder.
	if c.title == DefaultTitle {
		c.title = TruncateTitle(trimmed)
	}

	originID := c.sessionID
	c.state = StateAwaitingResponse
	c.persist()

	resp, err := c.client.Send(ctx, trimmed, prior)

	// NewConversation may have run while the call was outstanding (the client
	// yields control back to the event loop). The stale result belongs to the
	// abandoned session and must not touch the new one.
	if c.sessionID != originID {
		LogDebug("discarding response for abandoned session", "session", originID)
		return nil
	}

	c.state = StateIdle

	if err != nil {
		c.persist()
		var collab *CollaboratorError
		if errors.As(err, &collab) {
			return err
		}
		return &CollaboratorError{Endpoint: "ai-chat", Err: err}
	}
	if !resp.Success {
		c.persist()
		reason := resp.Error
		if reason == "" {
			reason = "request failed"
		}
		return &CollaboratorError{Endpoint: "ai-chat", Err: errors.New(reason)}
	}

	c.messages = append(c.messages, Message{
		Role:      RoleAssistant,
		Content:   resp.Response,
		Timestamp: time.Now(),
	})
	c.history = append(c.history, ChatTurn{Role: string(RoleAssistant), Content: resp.Response})
	if len(resp.SearchResults) > 0 {
		c.results = resp.SearchResults
	}

	c.persist()
	return nil
}

// NewConversation resets the in-memory log and allocates a fresh session id.
// Valid from any state; the previous session's persisted data is untouched,
// and any in-flight response for it will be discarded on arrival.
func (c *ChatController) NewConversation() {
	c.reset()
}

// LoadSession replaces the active conversation with a persisted one. Valid
// only while idle. An absent or corrupt conversation keeps the current state
// silently.
func (c *ChatController) LoadSession(sessionID string) error {
	if c.state != StateIdle {
		return errors.New("cannot load a session while a conversation is active")
	}

	conv, ok := c.repo.LoadConversation(sessionID)
	if !ok {
		LogDebug("conversation absent, keeping current session", "session", sessionID)
		return nil
	}

	c.state = StateIdle
	c.sessionID = sessionID
	c.messages = conv.Messages
	c.history = conv.History
	c.results = conv.SearchResults
	c.title = conv.Title
	if c.title == "" {
		if entry, ok := c.repo.Get(sessionID); ok && entry.Title != "" {
			c.title = entry.Title
		} else {
			c.title = DefaultTitle
		}
	}
	return nil
}

// persist writes the catalog row and the conversation body. Folder and
// favorite state live on the catalog row and are carried over from the
// existing entry so a conversation write never clobbers them.
func (c *ChatController) persist() {
	entry := SessionEntry{
		ID:           c.sessionID,
		Title:        c.title,
		Timestamp:    time.Now(),
		MessageCount: len(c.messages),
	}
	if prev, ok := c.repo.Get(c.sessionID); ok {
		entry.FolderID = prev.FolderID
		entry.IsFavorite = prev.IsFavorite
	}
	c.repo.Upsert(entry)
	c.repo.SaveConversation(c.sessionID, &Conversation{
		Messages:      c.messages,
		History:       c.history,
		SearchResults: c.results,
		Title:         c.title,
	})
}
