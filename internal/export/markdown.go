package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/egazette/gazette-chat/internal"
)

// MarkdownExporter exports a session in Markdown format
type MarkdownExporter struct{}

// Export writes the session header, messages, and search snapshot as Markdown
func (e *MarkdownExporter) Export(entry internal.SessionEntry, conv *internal.Conversation, w io.Writer) error {
	title := entry.Title
	if title == "" {
		title = entry.ID
	}
	_, _ = fmt.Fprintf(w, "# %s\n\n", title)
	_, _ = fmt.Fprintf(w, "**Session:** %s  \n", entry.ID)
	if entry.FolderID != "" {
		_, _ = fmt.Fprintf(w, "**Folder:** %s  \n", entry.FolderID)
	}
	if entry.IsFavorite {
		_, _ = fmt.Fprintf(w, "**Favorite:** yes  \n")
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", entry.MessageCount)

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	if conv != nil {
		for i, msg := range conv.Messages {
			timestamp := ""
			if !msg.Timestamp.IsZero() {
				timestamp = fmt.Sprintf(" (%s)", msg.Timestamp.Format("2006-01-02 15:04"))
			}

			content := escapeMarkdown(msg.Content)
			_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", msg.Role, timestamp, content)

			if i < len(conv.Messages)-1 {
				_, _ = fmt.Fprintf(w, "---\n\n")
			}
		}

		if len(conv.SearchResults) > 0 {
			_, _ = fmt.Fprintf(w, "---\n\n")
			_, _ = fmt.Fprintf(w, "## Gazette records\n\n")
			for _, record := range conv.SearchResults {
				_, _ = fmt.Fprintf(w, "- **%s** %s", record.Type, record.Name)
				if record.GazetteNo != "" {
					_, _ = fmt.Fprintf(w, " (Gazette No. %s", record.GazetteNo)
					if record.Date != "" {
						_, _ = fmt.Fprintf(w, ", %s", record.Date)
					}
					_, _ = fmt.Fprintf(w, ")")
				}
				_, _ = fmt.Fprintf(w, "\n")
			}
		}
	}

	return nil
}

// escapeMarkdown escapes markdown special characters outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
