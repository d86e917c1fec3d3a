// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/pdiddy/wellness-chat/internal/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation with the assistant. Type a question and
press enter. After each answer, type the number of a suggested follow-up to
ask it. Type "exit" or "quit", or press Ctrl-D, to leave.

Pass --session to continue a conversation stored in the history database.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().String("session", "", "resume a stored session by ID")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sessionID, _ := cmd.Flags().GetString("session")

	ctx := cmd.Context()
	a, err := newAssistant(ctx, cfg, sessionID)
	if err != nil {
		return err
	}
	defer a.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          labelStyle.Render("you> "),
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("starting prompt: %w", err)
	}
	defer rl.Close()

	out := rl.Stdout()
	fmt.Fprintln(out, helpStyle.Render(fmt.Sprintf("Session %s. Type a question, a follow-up number, or \"exit\".", a.session.ID())))

	var followups []string
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		question, quit := resolveInput(line, followups)
		if quit {
			return nil
		}
		if question == "" {
			continue
		}

		turn, err := askInterruptible(ctx, a.session, question)
		if err != nil {
			renderError(out, err)
			continue
		}
		renderTurn(out, turn)
		followups = turn.FollowUps
	}
}

// resolveInput maps a REPL line to a question. A bare number picks the
// matching follow-up from the previous answer.
func resolveInput(line string, followups []string) (question string, quit bool) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "exit", "quit":
		return "", true
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(followups) {
		return followups[n-1], false
	}
	return line, false
}

// askInterruptible runs one turn that Ctrl-C cancels without leaving the
// REPL.
func askInterruptible(ctx context.Context, s *chat.Session, question string) (chat.Turn, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	return s.Ask(ctx, question)
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".config", "wellness-chat")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "prompt_history")
}
