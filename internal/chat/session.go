// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chat drives one conversation: it sends each question with the
// recent transcript to the agent, splits the answer for display, proposes
// follow-up questions, and records the exchange.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdiddy/wellness-chat/internal/agent"
	"github.com/pdiddy/wellness-chat/internal/answer"
	"github.com/pdiddy/wellness-chat/internal/llm"
	"github.com/pdiddy/wellness-chat/pkg/types"
)

const defaultHistoryTurns = 20

// Answerer produces a final answer for a question given prior messages.
type Answerer interface {
	Run(ctx context.Context, history []llm.Message, input string) (agent.Result, error)
}

// FollowUpGenerator proposes follow-up questions for an answer.
type FollowUpGenerator interface {
	Generate(ctx context.Context, prior string) ([]string, error)
}

// Transcript stores the conversation.
type Transcript interface {
	NewSession(ctx context.Context) (string, error)
	SessionExists(ctx context.Context, id string) (bool, error)
	Append(ctx context.Context, msg types.ChatMessage) error
	Messages(ctx context.Context, sessionID string, limit int) ([]types.ChatMessage, error)
}

// Options configures a Session.
type Options struct {
	// SessionID resumes a stored session. Empty starts a new one.
	SessionID string

	// HistoryTurns bounds how many prior messages are sent with each
	// question (default 20).
	HistoryTurns int

	Logger *slog.Logger
}

// Session is one conversation. It is not safe for concurrent use.
type Session struct {
	id           string
	agent        Answerer
	followups    FollowUpGenerator
	store        Transcript
	historyTurns int
	logger       *slog.Logger
}

// NewSession starts or resumes a conversation. A nil followups disables
// follow-up generation.
func NewSession(ctx context.Context, store Transcript, a Answerer, followups FollowUpGenerator, opts Options) (*Session, error) {
	if opts.HistoryTurns <= 0 {
		opts.HistoryTurns = defaultHistoryTurns
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	id := opts.SessionID
	if id == "" {
		var err error
		if id, err = store.NewSession(ctx); err != nil {
			return nil, err
		}
	} else {
		ok, err := store.SessionExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("resuming session %s: not found", id)
		}
	}

	return &Session{
		id:           id,
		agent:        a,
		followups:    followups,
		store:        store,
		historyTurns: opts.HistoryTurns,
		logger:       opts.Logger.With("session", id),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Turn is the outcome of one question.
type Turn struct {
	Question string

	// Raw is the model's final text; Answer is Raw split for display.
	Raw    string
	Answer types.FormattedAnswer

	// FollowUps is empty when generation is disabled or failed.
	FollowUps []string

	Invocations []agent.Invocation
}

// Ask answers question in the context of the conversation so far and
// records both sides of the exchange. A follow-up failure is logged and
// leaves FollowUps empty; it never fails the turn.
func (s *Session) Ask(ctx context.Context, question string) (Turn, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Turn{}, fmt.Errorf("empty question")
	}

	prior, err := s.store.Messages(ctx, s.id, s.historyTurns)
	if err != nil {
		return Turn{}, fmt.Errorf("loading history: %w", err)
	}

	res, err := s.agent.Run(ctx, toLLM(prior), question)
	if err != nil {
		return Turn{}, fmt.Errorf("answering: %w", err)
	}

	for _, m := range []types.ChatMessage{
		{SessionID: s.id, Role: types.RoleUser, Content: question},
		{SessionID: s.id, Role: types.RoleAssistant, Content: res.Answer},
	} {
		if err := s.store.Append(ctx, m); err != nil {
			return Turn{}, fmt.Errorf("recording %s message: %w", m.Role, err)
		}
	}

	turn := Turn{
		Question:    question,
		Raw:         res.Answer,
		Answer:      answer.Format(res.Answer),
		Invocations: res.Invocations,
	}

	if s.followups != nil {
		qs, err := s.followups.Generate(ctx, res.Answer)
		if err != nil {
			s.logger.Warn("follow-up generation failed", "err", err)
		} else {
			turn.FollowUps = qs
		}
	}
	return turn, nil
}

// toLLM converts stored messages to model messages. A window cut mid-turn
// can start with an assistant reply; those leading replies are dropped since
// the conversation sent to the model must open with the user.
func toLLM(msgs []types.ChatMessage) []llm.Message {
	for len(msgs) > 0 && msgs[0].Role == types.RoleAssistant {
		msgs = msgs[1:]
	}
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		role := llm.RoleUser
		if m.Role == types.RoleAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	return out
}
