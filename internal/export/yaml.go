package export

import (
	"io"

	"github.com/egazette/gazette-chat/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports a session as one YAML document
type YAMLExporter struct{}

type yamlDocument struct {
	Session       internal.SessionEntry    `yaml:"session"`
	Messages      []internal.Message       `yaml:"messages"`
	SearchResults []internal.GazetteRecord `yaml:"search_results,omitempty"`
}

// Export writes the session and its conversation as YAML
func (e *YAMLExporter) Export(entry internal.SessionEntry, conv *internal.Conversation, w io.Writer) error {
	doc := yamlDocument{Session: entry}
	if conv != nil {
		doc.Messages = conv.Messages
		doc.SearchResults = conv.SearchResults
	}

	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	return encoder.Encode(doc)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
