package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var favoriteCmd = &cobra.Command{
	Use:   "favorite <session-id>",
	Short: "Toggle a session's favorite flag",
	Long: `Toggle the favorite flag on a saved session. The flag and the favorites
index are always updated together. Use 'list --favorites' to see them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repos, closeDB, err := openRepositories()
		if err != nil {
			return err
		}
		defer closeDB()

		favorite, err := repos.sessions.ToggleFavorite(args[0])
		if err != nil {
			return err
		}
		if favorite {
			fmt.Printf("★ Session %s added to favorites\n", shortID(args[0]))
		} else {
			fmt.Printf("Session %s removed from favorites\n", shortID(args[0]))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(favoriteCmd)
}
