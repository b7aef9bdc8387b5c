package cmd

import (
	"fmt"
	"strconv"

	"github.com/egazette/gazette-chat/internal"
	"github.com/spf13/cobra"
)

var likeCmd = &cobra.Command{
	Use:   "like <session-id> <message-index>",
	Short: "Like a message (repeat to clear)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return rateMessage(args[0], args[1], true)
	},
}

var dislikeCmd = &cobra.Command{
	Use:   "dislike <session-id> <message-index>",
	Short: "Dislike a message (repeat to clear)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return rateMessage(args[0], args[1], false)
	},
}

func rateMessage(sessionID, indexArg string, liked bool) error {
	index, err := strconv.Atoi(indexArg)
	if err != nil || index < 0 {
		return fmt.Errorf("invalid message index %q", indexArg)
	}

	repos, closeDB, err := openRepositories()
	if err != nil {
		return err
	}
	defer closeDB()

	if entry, ok := repos.sessions.Get(sessionID); ok && index >= entry.MessageCount {
		return fmt.Errorf("session %s has only %d message(s)", shortID(sessionID), entry.MessageCount)
	}

	value := repos.annotations.Like(sessionID, index, liked)
	switch value {
	case internal.FeedbackNone:
		fmt.Printf("Cleared mark on message %d\n", index)
	default:
		fmt.Printf("Marked message %d as %s\n", index, value)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(dislikeCmd)
}
