package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/egazette/gazette-chat/internal"
	"github.com/egazette/gazette-chat/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat    string
	exportOutputDir string
)

var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export sessions to file",
	Long: `Export saved conversations to various formats (jsonl, md, yaml, json).

Without arguments every saved session is exported, one file per session.
Use 'gazette-chat list' to see available session IDs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repos, closeDB, err := openRepositories()
		if err != nil {
			return err
		}
		defer closeDB()

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		var entries []internal.SessionEntry
		if len(args) == 1 {
			entry, ok := repos.sessions.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown session %s", args[0])
			}
			entries = []internal.SessionEntry{entry}
		} else {
			entries = repos.sessions.ListAll()
		}

		if len(entries) == 0 {
			fmt.Println("No sessions to export")
			return nil
		}

		if err := os.MkdirAll(exportOutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		exported := 0
		for _, entry := range entries {
			conv, ok := repos.sessions.LoadConversation(entry.ID)
			if !ok {
				internal.LogWarn("skipping session without conversation body", "session", entry.ID)
				continue
			}

			path := filepath.Join(exportOutputDir, fmt.Sprintf("session-%s.%s", entry.ID, exporter.Extension()))
			file, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := exporter.Export(entry, conv, file); err != nil {
				file.Close()
				return fmt.Errorf("failed to export session %s: %w", entry.ID, err)
			}
			if err := file.Close(); err != nil {
				return err
			}
			exported++
		}

		fmt.Printf("Exported %d session(s) to %s\n", exported, exportOutputDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVar(&exportOutputDir, "output", "exports", "Output directory")
}
