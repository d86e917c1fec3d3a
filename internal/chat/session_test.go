// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/wellness-chat/internal/agent"
	"github.com/pdiddy/wellness-chat/internal/followup"
	"github.com/pdiddy/wellness-chat/internal/history"
	"github.com/pdiddy/wellness-chat/internal/llm"
	"github.com/pdiddy/wellness-chat/pkg/types"
)

type fakeAgent struct {
	answer string
	err    error
	seen   [][]llm.Message
}

func (f *fakeAgent) Run(ctx context.Context, history []llm.Message, input string) (agent.Result, error) {
	f.seen = append(f.seen, history)
	if f.err != nil {
		return agent.Result{}, f.err
	}
	return agent.Result{Answer: f.answer + " (" + input + ")", Steps: 1}, nil
}

type fakeFollowups struct {
	qs  []string
	err error
}

func (f *fakeFollowups) Generate(ctx context.Context, prior string) ([]string, error) {
	return f.qs, f.err
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newStore(t *testing.T) *history.Store {
	t.Helper()
	s, err := history.NewStore("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAskFormatsAndRecords(t *testing.T) {
	store := newStore(t)
	ag := &fakeAgent{answer: "Summary.\nSources:\n1. https://a"}
	fu := &fakeFollowups{qs: []string{"Q1", "Q2"}}

	s, err := NewSession(context.Background(), store, ag, fu, Options{Logger: quiet()})
	require.NoError(t, err)

	turn, err := s.Ask(context.Background(), "  cramps?  ")
	require.NoError(t, err)
	assert.Equal(t, "cramps?", turn.Question)
	assert.Equal(t, "Summary.", turn.Answer.Summary)
	assert.Equal(t, "Sources:\n1. https://a (cramps?)", turn.Answer.SourcesBlock)
	assert.Equal(t, []string{"Q1", "Q2"}, turn.FollowUps)

	msgs, err := store.Messages(context.Background(), s.ID(), 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, types.RoleUser, msgs[0].Role)
	assert.Equal(t, "cramps?", msgs[0].Content)
	assert.Equal(t, turn.Raw, msgs[1].Content)
}

func TestAskSendsRecentHistory(t *testing.T) {
	store := newStore(t)
	ag := &fakeAgent{answer: "A"}
	s, err := NewSession(context.Background(), store, ag, nil, Options{HistoryTurns: 3, Logger: quiet()})
	require.NoError(t, err)

	for _, q := range []string{"one", "two", "three"} {
		_, err := s.Ask(context.Background(), q)
		require.NoError(t, err)
	}

	require.Len(t, ag.seen, 3)
	assert.Empty(t, ag.seen[0])
	assert.Len(t, ag.seen[1], 2)
	// The three-message window starts on the first reply, which is dropped.
	last := ag.seen[2]
	require.Len(t, last, 2)
	assert.Equal(t, llm.RoleUser, last[0].Role)
	assert.Equal(t, "two", last[0].Content)
	assert.Equal(t, llm.RoleAssistant, last[1].Role)
	assert.Equal(t, "A (two)", last[1].Content)
}

func TestToLLMOpensWithUser(t *testing.T) {
	tests := []struct {
		name  string
		roles []types.Role
		want  []llm.Role
	}{
		{"empty", nil, []llm.Role{}},
		{"starts with user", []types.Role{types.RoleUser, types.RoleAssistant}, []llm.Role{llm.RoleUser, llm.RoleAssistant}},
		{"leading reply dropped", []types.Role{types.RoleAssistant, types.RoleUser, types.RoleAssistant}, []llm.Role{llm.RoleUser, llm.RoleAssistant}},
		{"only replies", []types.Role{types.RoleAssistant}, []llm.Role{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msgs []types.ChatMessage
			for _, r := range tt.roles {
				msgs = append(msgs, types.ChatMessage{Role: r, Content: string(r)})
			}
			got := []llm.Role{}
			for _, m := range toLLM(msgs) {
				got = append(got, m.Role)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAskFollowUpFailureIsNotFatal(t *testing.T) {
	store := newStore(t)
	fu := &fakeFollowups{err: &followup.MalformedOutputError{Raw: "nope", Err: errors.New("bad json")}}
	s, err := NewSession(context.Background(), store, &fakeAgent{answer: "plain answer"}, fu, Options{Logger: quiet()})
	require.NoError(t, err)

	turn, err := s.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.Empty(t, turn.FollowUps)
	assert.False(t, turn.Answer.HasSources())
}

func TestAskAgentErrorRecordsNothing(t *testing.T) {
	store := newStore(t)
	s, err := NewSession(context.Background(), store, &fakeAgent{err: agent.ErrStepLimit}, nil, Options{Logger: quiet()})
	require.NoError(t, err)

	_, err = s.Ask(context.Background(), "q")
	assert.ErrorIs(t, err, agent.ErrStepLimit)

	msgs, err := store.Messages(context.Background(), s.ID(), 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestAskEmptyQuestion(t *testing.T) {
	s, err := NewSession(context.Background(), newStore(t), &fakeAgent{}, nil, Options{Logger: quiet()})
	require.NoError(t, err)
	_, err = s.Ask(context.Background(), "   ")
	assert.Error(t, err)
}

func TestResumeSession(t *testing.T) {
	store := newStore(t)
	first, err := NewSession(context.Background(), store, &fakeAgent{answer: "A"}, nil, Options{Logger: quiet()})
	require.NoError(t, err)
	_, err = first.Ask(context.Background(), "earlier")
	require.NoError(t, err)

	ag := &fakeAgent{answer: "B"}
	resumed, err := NewSession(context.Background(), store, ag, nil, Options{SessionID: first.ID(), Logger: quiet()})
	require.NoError(t, err)
	assert.Equal(t, first.ID(), resumed.ID())

	_, err = resumed.Ask(context.Background(), "later")
	require.NoError(t, err)
	assert.Len(t, ag.seen[0], 2)

	_, err = NewSession(context.Background(), store, ag, nil, Options{SessionID: "missing", Logger: quiet()})
	assert.Error(t, err)
}
