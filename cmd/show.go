package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/egazette/gazette-chat/internal"
	"github.com/spf13/cobra"
)

var (
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	feedbackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)
)

var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "View a saved conversation",
	Long: `View a saved conversation: its messages, any like/dislike marks, and the
latest gazette record snapshot.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]

		repos, closeDB, err := openRepositories()
		if err != nil {
			return err
		}
		defer closeDB()

		conv, ok := repos.sessions.LoadConversation(sessionID)
		if !ok {
			return fmt.Errorf("no saved conversation for session %s", sessionID)
		}

		title := conv.Title
		if title == "" {
			title = internal.DefaultTitle
		}
		fmt.Println(sessionHeaderStyle.Render("💬 " + title))

		meta := fmt.Sprintf("Session %s • %d message(s)", sessionID, len(conv.Messages))
		if entry, found := repos.sessions.Get(sessionID); found {
			if entry.IsFavorite {
				meta += " • ★ favorite"
			}
			if entry.FolderID != "" {
				if folder, ok := repos.folders.Get(entry.FolderID); ok {
					meta += " • 📁 " + folder.Name
				}
			}
		}
		fmt.Println(sessionMetaStyle.Render(meta))

		feedback := repos.annotations.SessionFeedback(sessionID)
		for i, msg := range conv.Messages {
			label := userMessageStyle.Render(fmt.Sprintf("[%d] user", i))
			if msg.Role == internal.RoleAssistant {
				label = assistantMessageStyle.Render(fmt.Sprintf("[%d] assistant", i))
			}
			if value, ok := feedback[i]; ok {
				mark := "👍"
				if value == internal.FeedbackDislike {
					mark = "👎"
				}
				label += " " + feedbackStyle.Render(mark)
			}
			fmt.Println(label)
			fmt.Println(messageContentStyle.Render(msg.Content))
		}

		if len(conv.SearchResults) > 0 {
			fmt.Println(sessionHeaderStyle.Render("📜 Gazette records"))
			printRecords(conv.SearchResults)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
