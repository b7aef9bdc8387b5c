package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/egazette/gazette-chat/internal"
)

// JSONLExporter exports a session as JSON Lines: one metadata line followed
// by one line per message
type JSONLExporter struct{}

type jsonlMeta struct {
	Type         string `json:"type"` // "session"
	SessionID    string `json:"session_id"`
	Title        string `json:"title"`
	MessageCount int    `json:"message_count"`
}

type jsonlMessage struct {
	Type      string    `json:"type"` // "message"
	SessionID string    `json:"session_id"`
	Index     int       `json:"index"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Export writes the session metadata and messages, one JSON object per line
func (e *JSONLExporter) Export(entry internal.SessionEntry, conv *internal.Conversation, w io.Writer) error {
	encoder := json.NewEncoder(w)

	meta := jsonlMeta{
		Type:         "session",
		SessionID:    entry.ID,
		Title:        entry.Title,
		MessageCount: entry.MessageCount,
	}
	if err := encoder.Encode(meta); err != nil {
		return err
	}

	if conv == nil {
		return nil
	}
	for i, msg := range conv.Messages {
		line := jsonlMessage{
			Type:      "message",
			SessionID: entry.ID,
			Index:     i,
			Role:      string(msg.Role),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
		if err := encoder.Encode(line); err != nil {
			return err
		}
	}
	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
