package internal

import "time"

// DefaultTitle is the placeholder title a new conversation starts with.
// It is replaced exactly once, by the first user message.
const DefaultTitle = "New Conversation"

const (
	// maxCatalogEntries caps the session catalog. The catalog is scanned and
	// rendered in full on every load, so it must not grow without bound.
	maxCatalogEntries = 100

	// maxTitleRunes is the length the auto-derived title is truncated to.
	maxTitleRunes = 50
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a conversation. Messages are append-only;
// their index in the conversation is the stable identifier used for feedback.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatTurn is the {role, content} pair sent to the AI endpoint as history.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GazetteRecord is one search result returned by the AI endpoint. The core
// stores it as an opaque snapshot alongside the conversation.
type GazetteRecord struct {
	ID        string `json:"id,omitempty"`
	Type      string `json:"type,omitempty"` // e.g. "change_of_name", "appointment"
	Name      string `json:"name,omitempty"`
	Details   string `json:"details,omitempty"`
	GazetteNo string `json:"gazette_no,omitempty"`
	Date      string `json:"date,omitempty"`
	Page      int    `json:"page,omitempty"`
}

// SessionEntry is one row of the session catalog. The conversation body is
// stored separately, under a session-scoped key.
type SessionEntry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Timestamp    time.Time `json:"timestamp"`
	MessageCount int       `json:"message_count"`
	FolderID     string    `json:"folder_id,omitempty"` // empty means unfiled
	IsFavorite   bool      `json:"is_favorite"`
}

// Folder is a user-defined label for organizing sessions. Membership is
// stored on the session record (SessionEntry.FolderID), never here.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is the persisted body of a session: the full message log, the
// history slice replayed to the AI endpoint, and the last search snapshot.
type Conversation struct {
	Messages      []Message       `json:"messages"`
	History       []ChatTurn      `json:"chat_history"`
	SearchResults []GazetteRecord `json:"search_results,omitempty"`
	Title         string          `json:"title"`
}

// FeedbackValue is a per-message like/dislike mark.
type FeedbackValue string

const (
	FeedbackNone    FeedbackValue = "none"
	FeedbackLike    FeedbackValue = "like"
	FeedbackDislike FeedbackValue = "dislike"
)

// TruncateTitle shortens a derived title to the display limit, rune-safe.
func TruncateTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= maxTitleRunes {
		return text
	}
	return string(runes[:maxTitleRunes])
}
