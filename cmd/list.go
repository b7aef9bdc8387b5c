package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/egazette/gazette-chat/internal"
	"github.com/spf13/cobra"
)

var (
	listFolder    string
	listFavorites bool
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	folderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)

	favoriteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions",
	Long:  `List saved chat sessions, most recently touched first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repos, closeDB, err := openRepositories()
		if err != nil {
			return err
		}
		defer closeDB()

		entries := repos.sessions.ListAll()

		if listFolder != "" {
			folder, ok := repos.folders.Get(listFolder)
			if !ok {
				folder, ok = repos.folders.FindByName(listFolder)
			}
			if !ok {
				return fmt.Errorf("unknown folder %q", listFolder)
			}
			entries = repos.sessions.SessionsInFolder(folder.ID)
		}

		if listFavorites {
			var favorites []internal.SessionEntry
			for _, entry := range entries {
				if entry.IsFavorite {
					favorites = append(favorites, entry)
				}
			}
			entries = favorites
		}

		displaySessions(entries, repos.folders)
		return nil
	},
}

func displaySessions(entries []internal.SessionEntry, folders *internal.FolderRepository) {
	if len(entries) == 0 {
		fmt.Println(headerStyle.Render("📋 No sessions found"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("📋 Found %d session(s)", len(entries)))
	fmt.Println(header)
	fmt.Println()

	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Updated")+"\t"+titleStyle.Render("Folder")+"\t"+titleStyle.Render("★")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 110))

	for _, entry := range entries {
		title := lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Render(displayTitle(entry.Title))

		msgCount := countStyle.Render(strconv.Itoa(entry.MessageCount))
		updated := dateStyle.Render(relativeDate(entry.Timestamp))

		folderName := dateStyle.Render("—")
		if entry.FolderID != "" {
			if folder, ok := folders.Get(entry.FolderID); ok {
				folderName = folderStyle.Render(folder.Name)
			} else {
				folderName = folderStyle.Render(shortID(entry.FolderID))
			}
		}

		star := " "
		if entry.IsFavorite {
			star = favoriteStyle.Render("★")
		}

		id := idStyle.Render(shortID(entry.ID))
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n", id, title, msgCount, updated, folderName, star)
	}

	_ = w.Flush()
	fmt.Println()
	fmt.Println(idStyle.Render("💡 Tip: Use the full ID (e.g., ") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(entries[0].ID) +
		idStyle.Render(") with `gazette-chat show <id>`"))
}

// displayTitle shortens a title for the list table, rune-safe so multi-byte
// characters are never split.
func displayTitle(title string) string {
	if title == "" {
		return "Untitled"
	}
	runes := []rune(title)
	if len(runes) > 50 {
		return string(runes[:47]) + "..."
	}
	return title
}

func relativeDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listFolder, "folder", "", "Only sessions in the given folder (id or name)")
	listCmd.Flags().BoolVar(&listFavorites, "favorites", false, "Only favorited sessions")
}
