// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/wellness-chat/internal/answer"
	"github.com/pdiddy/wellness-chat/internal/chat"
)

// Styles for terminal output.
var (
	accent = lipgloss.Color("#d16ba5")
	dim    = lipgloss.Color("#6e7681")

	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	sourceStyle   = lipgloss.NewStyle().Foreground(dim)
	followupStyle = lipgloss.NewStyle().Italic(true).Foreground(accent)
	helpStyle     = lipgloss.NewStyle().Foreground(dim)
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5f5f"))
)

// renderTurn prints an answer, its sources and numbered follow-ups.
func renderTurn(w io.Writer, turn chat.Turn) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, turn.Answer.Summary)

	if sources := answer.SourceLines(turn.Answer); len(sources) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, labelStyle.Render(answer.SourcesMarker))
		for _, s := range sources {
			fmt.Fprintln(w, sourceStyle.Render(s))
		}
	}

	if len(turn.FollowUps) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, labelStyle.Render("You might also ask:"))
		for i, q := range turn.FollowUps {
			fmt.Fprintln(w, followupStyle.Render(fmt.Sprintf("  [%d] %s", i+1, q)))
		}
	}
	fmt.Fprintln(w)
}

func renderError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}
