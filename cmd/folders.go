package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Organize sessions into folders",
	Long: `Manage folders for saved sessions.

Folders are labels: a session belongs to at most one folder, and deleting a
folder only unfiles its sessions, it never deletes conversations.`,
}

var foldersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders and how many sessions each holds",
	RunE: func(cmd *cobra.Command, args []string) error {
		repos, closeDB, err := openRepositories()
		if err != nil {
			return err
		}
		defer closeDB()

		folders := repos.folders.ListAll()
		if len(folders) == 0 {
			fmt.Println(headerStyle.Render("📁 No folders yet"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("📁 %d folder(s)", len(folders))))
		fmt.Println()

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)
		_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Sessions")+"\t"+titleStyle.Render("Created")+"\t")
		_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))
		for _, folder := range folders {
			count := len(repos.sessions.SessionsInFolder(folder.ID))
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
				idStyle.Render(shortID(folder.ID)),
				folderStyle.Render(folder.Name),
				countStyle.Render(fmt.Sprintf("%d", count)),
				dateStyle.Render(relativeDate(folder.CreatedAt)))
		}
		_ = w.Flush()
		return nil
	},
}

var foldersCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repos, closeDB, err := openRepositories()
		if err != nil {
			return err
		}
		defer closeDB()

		folder, err := repos.folders.Create(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created folder %q (%s)\n", folder.Name, folder.ID)
		return nil
	},
}

var foldersDeleteCmd = &cobra.Command{
	Use:   "delete <folder-id>",
	Short: "Delete a folder, unfiling its sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repos, closeDB, err := openRepositories()
		if err != nil {
			return err
		}
		defer closeDB()

		filed := len(repos.sessions.SessionsInFolder(args[0]))
		repos.folders.Delete(args[0])
		fmt.Printf("Deleted folder %s, unfiled %d session(s)\n", args[0], filed)
		return nil
	},
}

var foldersMoveCmd = &cobra.Command{
	Use:   "move <session-id> <folder-id>",
	Short: "Move a session into a folder (use '-' to unfile)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		repos, closeDB, err := openRepositories()
		if err != nil {
			return err
		}
		defer closeDB()

		sessionID, folderID := args[0], args[1]
		if folderID == "-" {
			if err := repos.sessions.SetFolder(sessionID, ""); err != nil {
				return err
			}
			fmt.Printf("Unfiled session %s\n", shortID(sessionID))
			return nil
		}

		folder, ok := repos.folders.Get(folderID)
		if !ok {
			folder, ok = repos.folders.FindByName(folderID)
		}
		if !ok {
			return fmt.Errorf("unknown folder %q", folderID)
		}
		if err := repos.sessions.SetFolder(sessionID, folder.ID); err != nil {
			return err
		}
		fmt.Printf("Moved session %s into %q\n", shortID(sessionID), folder.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(foldersCmd)
	foldersCmd.AddCommand(foldersListCmd)
	foldersCmd.AddCommand(foldersCreateCmd)
	foldersCmd.AddCommand(foldersDeleteCmd)
	foldersCmd.AddCommand(foldersMoveCmd)
}
