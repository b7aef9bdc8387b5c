package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/egazette/gazette-chat/internal"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	dbPath  string
	cfgPath string

	cfg        *internal.Config
	logCleanup func() error

	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gazette-chat",
	Short: "AI-assisted gazette search with saved conversations",
	Long: `Search the gazette archive in natural language and manage your saved
conversations locally.

Conversations are persisted in a local database. You can organize them into
folders, mark favorites, rate individual answers, and export full sessions.

Quick Start:
  gazette-chat chat                       # Start or resume a conversation
  gazette-chat list                       # List saved sessions
  gazette-chat show <session-id>          # View one conversation
  gazette-chat export --format md         # Export sessions as Markdown`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)

		path := cfgPath
		if path == "" {
			path = internal.DefaultConfigPath()
		}
		loaded, err := internal.LoadConfig(path)
		if err != nil {
			return err
		}
		if dbPath != "" {
			loaded.DatabasePath = dbPath
		}
		if err := loaded.EnsureDataDir(); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}

		logCleanup = internal.SetupLogger(loaded.LogFile)
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			_ = logCleanup()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Custom chat database location")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default ~/.gazette-chat.yaml)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// repositories bundles the store-backed components commands work with.
type repositories struct {
	store       *internal.SQLiteStore
	sessions    *internal.SessionRepository
	folders     *internal.FolderRepository
	annotations *internal.AnnotationStore
}

// openRepositories opens the chat database and loads all repositories.
// The returned cleanup closes the database.
func openRepositories() (*repositories, func(), error) {
	db, err := internal.OpenDatabase(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open chat database: %w", err)
	}

	store := internal.NewSQLiteStore(db)
	sessions := internal.NewSessionRepository(store)
	repos := &repositories{
		store:       store,
		sessions:    sessions,
		folders:     internal.NewFolderRepository(store, sessions),
		annotations: internal.NewAnnotationStore(store),
	}
	return repos, func() { _ = db.Close() }, nil
}

// newChatClient builds the configured AI-chat collaborator.
func newChatClient(ctx context.Context) (internal.ChatClient, func(), error) {
	switch cfg.Provider {
	case internal.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
		client, err := internal.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	default:
		return internal.NewBackendClient(cfg.BackendURL), func() {}, nil
	}
}
