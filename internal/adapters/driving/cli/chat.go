package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinsafe/guardian-cli/internal/adapters/driving/tui"
	"github.com/clinsafe/guardian-cli/internal/core/domain"
)

var (
	chatMessage string

	chatCmd = &cobra.Command{
		Use:   "chat",
		Short: "Talk to the safety agent",
		Long: `Start a conversation with the safety agent about the active patient.

The agent can read the record, run individual safety checks and append
clinical notes during the conversation. Without --message an interactive
terminal session opens; with --message a single turn runs and prints the
reply.

If the model provider reports an exhausted quota the session degrades:
it stays open but answers every message with a fixed notice until a new
session is started.`,
		RunE: runChat,
	}
)

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "send a single message and exit")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	if chatMessage != "" {
		session := chatService.NewSession(cmd.Context())
		reply, err := session.SendMessage(cmd.Context(), chatMessage)
		if err != nil {
			return fmt.Errorf("chat turn failed: %w", err)
		}
		cmd.Println(reply)
		if session.State() == domain.SessionDegraded {
			cmd.PrintErrln("(session degraded: the model backend is unavailable)")
		}
		return nil
	}

	app := tui.NewApp(chatService, patientService)
	if recordWatcher != nil {
		app.SetRecordWatcher(recordWatcher)
	}
	return app.Run(cmd.Context())
}
