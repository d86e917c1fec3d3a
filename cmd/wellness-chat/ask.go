// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/wellness-chat/internal/agent"
	"github.com/pdiddy/wellness-chat/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and print the answer",
	Long: `Ask one question and print the answer with its sources and suggested
follow-ups. The exchange is recorded in the history database; pass --session
to add it to an existing conversation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("session", "", "add the exchange to a stored session")
	askCmd.Flags().Bool("json", false, "print the turn as JSON")
	rootCmd.AddCommand(askCmd)
}

// askOutput is the JSON form of one answered question.
type askOutput struct {
	Session     string                `json:"session"`
	Question    string                `json:"question"`
	Answer      types.FormattedAnswer `json:"answer"`
	FollowUps   []string              `json:"follow_ups"`
	Invocations []agent.Invocation    `json:"invocations,omitempty"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sessionID, _ := cmd.Flags().GetString("session")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	a, err := newAssistant(ctx, cfg, sessionID)
	if err != nil {
		return err
	}
	defer a.Close()

	turn, err := a.session.Ask(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(askOutput{
			Session:     a.session.ID(),
			Question:    turn.Question,
			Answer:      turn.Answer,
			FollowUps:   turn.FollowUps,
			Invocations: turn.Invocations,
		})
	}
	renderTurn(out, turn)
	return nil
}
