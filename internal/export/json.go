package export

import (
	"encoding/json"
	"io"

	"github.com/egazette/gazette-chat/internal"
)

// JSONExporter exports a session as one indented JSON document
type JSONExporter struct{}

type jsonDocument struct {
	Session       internal.SessionEntry    `json:"session"`
	Messages      []internal.Message       `json:"messages"`
	SearchResults []internal.GazetteRecord `json:"search_results,omitempty"`
}

// Export writes the session and its conversation as JSON
func (e *JSONExporter) Export(entry internal.SessionEntry, conv *internal.Conversation, w io.Writer) error {
	doc := jsonDocument{Session: entry}
	if conv != nil {
		doc.Messages = conv.Messages
		doc.SearchResults = conv.SearchResults
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
