package cmd

import (
	"context"
	"fmt"

	"github.com/egazette/gazette-chat/internal"
	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the local chat history",
	Long: `Delete every saved conversation and the session catalog. Folders are kept.

The remote history-clear endpoint is notified best-effort; the local clear
succeeds even when the remote call fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes {
			return fmt.Errorf("this deletes all saved conversations; re-run with --yes to confirm")
		}

		repos, closeDB, err := openRepositories()
		if err != nil {
			return err
		}
		defer closeDB()

		count := len(repos.sessions.ListAll())
		repos.sessions.ClearAll()
		repos.annotations.ClearAll()
		fmt.Printf("Cleared %d session(s)\n", count)

		// Best effort; local state is already cleared.
		backend := internal.NewBackendClient(cfg.BackendURL)
		backend.ClearHistory(context.WithoutCancel(cmd.Context()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Confirm deletion")
}
