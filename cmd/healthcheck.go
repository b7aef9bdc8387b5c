package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/egazette/gazette-chat/internal"
	"github.com/spf13/cobra"
)

var healthcheckGC bool

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check the chat database and report orphaned conversations",
	Long: `Check the health of the local chat store:
  • Database accessibility
  • Catalog, folder, favorite, and feedback counts
  • Conversation bodies orphaned by catalog eviction

The session catalog keeps only the most recent entries; evicted sessions
leave their conversation bodies behind. Use --gc to delete those bodies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("🔍 Gazette Chat Health Check"))
		fmt.Println()

		fmt.Println(infoStyle.Render("Step 1: Opening chat database..."))
		repos, closeDB, err := openRepositories()
		if err != nil {
			return err
		}
		defer closeDB()
		fmt.Println(successStyle.Render("✅ Database opened"))
		if verbose {
			fmt.Printf("   Path: %s\n", cfg.DatabasePath)
		}
		fmt.Println()

		fmt.Println(infoStyle.Render("Step 2: Counting stored entities..."))
		sessions := repos.sessions.ListAll()
		fmt.Println(successStyle.Render(fmt.Sprintf("✅ %d session(s), %d folder(s), %d favorite(s)",
			len(sessions), len(repos.folders.ListAll()), len(repos.sessions.Favorites()))))
		fmt.Println()

		fmt.Println(infoStyle.Render("Step 3: Scanning for orphaned conversation bodies..."))
		orphans, err := findOrphanedConversations(repos)
		if err != nil {
			return fmt.Errorf("failed to scan conversation keys: %w", err)
		}
		if len(orphans) == 0 {
			fmt.Println(successStyle.Render("✅ No orphaned conversations"))
			return nil
		}

		fmt.Println(warningStyle.Render(fmt.Sprintf("⚠️  %d orphaned conversation body(ies)", len(orphans))))
		if verbose {
			for _, key := range orphans {
				fmt.Printf("   %s\n", key)
			}
		}

		if !healthcheckGC {
			fmt.Println(infoStyle.Render("   Re-run with --gc to delete them"))
			return nil
		}

		removed := 0
		for _, key := range orphans {
			if err := repos.store.Remove(key); err != nil {
				internal.LogWarn("failed to remove orphaned conversation", "key", key, "error", err)
				continue
			}
			repos.annotations.ClearSession(strings.TrimPrefix(key, internal.ConversationKey("")))
			removed++
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("✅ Removed %d orphaned conversation(s)", removed)))
		return nil
	},
}

// findOrphanedConversations returns the store keys of conversation bodies
// whose session id is no longer present in the catalog.
func findOrphanedConversations(repos *repositories) ([]string, error) {
	keys, err := repos.store.Keys(internal.ConversationKey(""))
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{})
	for _, entry := range repos.sessions.ListAll() {
		known[internal.ConversationKey(entry.ID)] = struct{}{}
	}

	var orphans []string
	for _, key := range keys {
		if !strings.HasPrefix(key, internal.ConversationKey("")) {
			continue
		}
		if _, ok := known[key]; !ok {
			orphans = append(orphans, key)
		}
	}
	return orphans, nil
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVar(&healthcheckGC, "gc", false, "Delete orphaned conversation bodies")
}
