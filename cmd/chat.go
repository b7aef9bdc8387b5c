package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/egazette/gazette-chat/internal"
	"github.com/spf13/cobra"
)

var chatSessionID string

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	replyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Padding(0, 1)

	chatHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	chatErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive gazette-search conversation",
	Long: `Start an interactive conversation with the gazette archive.

Type a question to search; the answer and any matching gazette records are
saved to the local session store as you go.

In-session commands:
  /new              Start a fresh conversation
  /load <id>        Load a saved session
  /fav              Toggle favorite on the current session
  /like <index>     Like a message by its index
  /dislike <index>  Dislike a message by its index
  /results          Show the latest gazette record snapshot
  /quit             Exit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repos, closeDB, err := openRepositories()
		if err != nil {
			return err
		}
		defer closeDB()

		ctx := cmd.Context()
		client, closeClient, err := newChatClient(ctx)
		if err != nil {
			return err
		}
		defer closeClient()

		// Statistics always go to the portal backend, independent of which
		// chat provider answers the questions.
		stats := internal.NewBackendClient(cfg.BackendURL)

		controller := internal.NewChatController(repos.sessions, client)
		if chatSessionID != "" {
			if err := controller.LoadSession(chatSessionID); err != nil {
				return err
			}
		}

		fmt.Println(chatHintStyle.Render(fmt.Sprintf("Session %s — type /quit to exit, /new for a fresh conversation", shortID(controller.SessionID()))))

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for {
			fmt.Print(promptStyle.Render("❯ "))
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			if strings.HasPrefix(line, "/") {
				if quit := runChatCommand(ctx, line, controller, repos); quit {
					break
				}
				continue
			}

			// A completed line means the user was composing; the controller
			// leaves Composing again when the submit settles.
			controller.Compose()
			if err := controller.Submit(ctx, line); err != nil {
				var collab *internal.CollaboratorError
				if errors.As(err, &collab) {
					fmt.Println(chatErrorStyle.Render("The archive did not respond: " + collab.Err.Error()))
					fmt.Println(chatHintStyle.Render("Your question was kept, you can resubmit it."))
					continue
				}
				fmt.Println(chatErrorStyle.Render(err.Error()))
				continue
			}

			go stats.RecordUsage(context.WithoutCancel(ctx), "ai_search", controller.SessionID())

			messages := controller.Messages()
			if len(messages) > 0 {
				last := messages[len(messages)-1]
				if last.Role == internal.RoleAssistant {
					fmt.Println(replyStyle.Render(last.Content))
				}
			}
			if results := controller.SearchResults(); len(results) > 0 {
				fmt.Println(chatHintStyle.Render(fmt.Sprintf("%d gazette record(s) in the snapshot — /results to view", len(results))))
			}
		}

		return scanner.Err()
	},
}

// runChatCommand handles a slash command. Returns true when the REPL should exit.
func runChatCommand(ctx context.Context, line string, controller *internal.ChatController, repos *repositories) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/new":
		controller.NewConversation()
		fmt.Println(chatHintStyle.Render("Started session " + shortID(controller.SessionID())))
	case "/load":
		if len(fields) < 2 {
			fmt.Println(chatErrorStyle.Render("usage: /load <session-id>"))
			return false
		}
		before := controller.SessionID()
		if err := controller.LoadSession(fields[1]); err != nil {
			fmt.Println(chatErrorStyle.Render(err.Error()))
			return false
		}
		if controller.SessionID() == before {
			fmt.Println(chatHintStyle.Render("No saved conversation under that id"))
		} else {
			fmt.Println(chatHintStyle.Render(fmt.Sprintf("Loaded %q (%d messages)", controller.Title(), len(controller.Messages()))))
		}
	case "/fav":
		favorite, err := repos.sessions.ToggleFavorite(controller.SessionID())
		if err != nil {
			fmt.Println(chatErrorStyle.Render("Nothing saved for this session yet, send a message first"))
			return false
		}
		if favorite {
			fmt.Println(chatHintStyle.Render("Added to favorites"))
		} else {
			fmt.Println(chatHintStyle.Render("Removed from favorites"))
		}
	case "/like", "/dislike":
		if len(fields) < 2 {
			fmt.Println(chatErrorStyle.Render("usage: " + fields[0] + " <message-index>"))
			return false
		}
		index, err := strconv.Atoi(fields[1])
		if err != nil || index < 0 || index >= len(controller.Messages()) {
			fmt.Println(chatErrorStyle.Render("invalid message index"))
			return false
		}
		value := repos.annotations.Like(controller.SessionID(), index, fields[0] == "/like")
		fmt.Println(chatHintStyle.Render(fmt.Sprintf("Message %d: %s", index, value)))
	case "/results":
		results := controller.SearchResults()
		if len(results) == 0 {
			fmt.Println(chatHintStyle.Render("No gazette records in the current snapshot"))
			return false
		}
		printRecords(results)
	default:
		fmt.Println(chatErrorStyle.Render("unknown command " + fields[0]))
	}
	return false
}

func printRecords(records []internal.GazetteRecord) {
	for _, record := range records {
		line := fmt.Sprintf("• %s — %s", record.Type, record.Name)
		if record.GazetteNo != "" {
			line += fmt.Sprintf(" (Gazette No. %s", record.GazetteNo)
			if record.Date != "" {
				line += ", " + record.Date
			}
			line += ")"
		}
		fmt.Println(line)
		if record.Details != "" {
			fmt.Println(chatHintStyle.Render("  " + record.Details))
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "Resume a saved session by id")
}
