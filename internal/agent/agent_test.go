// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/wellness-chat/internal/literature"
	"github.com/pdiddy/wellness-chat/internal/llm"
	"github.com/pdiddy/wellness-chat/internal/websearch"
	"github.com/pdiddy/wellness-chat/pkg/types"
)

// scriptedModel returns canned responses in order and records requests.
type scriptedModel struct {
	replies  []llm.Response
	err      error
	requests []llm.Request
}

func (m *scriptedModel) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return llm.Response{}, m.err
	}
	if len(m.requests) > len(m.replies) {
		return m.replies[len(m.replies)-1], nil
	}
	return m.replies[len(m.requests)-1], nil
}

type fakeWeb struct {
	res   websearch.Result
	err   error
	query string
}

func (f *fakeWeb) Search(ctx context.Context, q string) (websearch.Result, error) {
	f.query = q
	return f.res, f.err
}

type fakeLit struct {
	bundle types.SearchResultBundle
	err    error
	params literature.SearchParams
}

func (f *fakeLit) Search(ctx context.Context, p literature.SearchParams) (types.SearchResultBundle, error) {
	f.params = p
	if f.err != nil {
		return types.SearchResultBundle{}, f.err
	}
	b := f.bundle
	b.Query = p.Query
	return b, nil
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func call(id, name, args string) llm.ToolCall {
	return llm.ToolCall{ID: id, Name: name, Arguments: json.RawMessage(args)}
}

func TestRunDirectAnswer(t *testing.T) {
	m := &scriptedModel{replies: []llm.Response{{Content: "  Drink water.\nSources:\n1. a\n2. b  "}}}
	a := New(m, []Tool{WebSearchTool{Searcher: &fakeWeb{}}}, Options{Logger: quiet()})

	history := []llm.Message{{Role: llm.RoleUser, Content: "earlier"}, {Role: llm.RoleAssistant, Content: "reply"}}
	res, err := a.Run(context.Background(), history, "how much water?")
	require.NoError(t, err)

	assert.Equal(t, "Drink water.\nSources:\n1. a\n2. b", res.Answer)
	assert.Equal(t, 1, res.Steps)
	require.Len(t, m.requests, 1)
	req := m.requests[0]
	assert.Equal(t, DefaultSystemPrompt, req.System)
	require.Len(t, req.Messages, 3)
	assert.Equal(t, "how much water?", req.Messages[2].Content)
	require.Len(t, req.Tools, 1)
	assert.Equal(t, WebSearchName, req.Tools[0].Name)
}

func TestRunToolRoundTrip(t *testing.T) {
	lit := &fakeLit{bundle: types.SearchResultBundle{
		Mode:        types.ModeAbstracts,
		Identifiers: []string{"111"},
		Records:     []types.CitationRecord{{Text: "HRT reduces hot flashes.", SourceCitation: "(Smith 2020 - 111)", Identifier: "111", URL: "https://pubmed.ncbi.nlm.nih.gov/111/"}},
	}}
	m := &scriptedModel{replies: []llm.Response{
		{ToolCalls: []llm.ToolCall{call("c1", LiteratureName, `{"query":"hot flashes","num_results":3}`)}},
		{Content: "Answer.\nSources:\n1. https://pubmed.ncbi.nlm.nih.gov/111/"},
	}}
	a := New(m, []Tool{WebSearchTool{Searcher: &fakeWeb{}}, LiteratureTool{Searcher: lit}}, Options{Logger: quiet()})

	res, err := a.Run(context.Background(), nil, "do hot flashes respond to HRT?")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Steps)
	assert.Equal(t, []Invocation{{Tool: LiteratureName, Arguments: `{"query":"hot flashes","num_results":3}`}}, res.Invocations)
	assert.Equal(t, "hot flashes", lit.params.Query)
	assert.Equal(t, 3, lit.params.MaxResults)

	second := m.requests[1].Messages
	require.Len(t, second, 3)
	assert.Equal(t, llm.RoleAssistant, second[1].Role)
	assert.Equal(t, llm.RoleTool, second[2].Role)
	assert.Equal(t, "c1", second[2].ToolCallID)
	assert.Contains(t, second[2].Content, "(Smith 2020 - 111)")
	assert.Contains(t, second[2].Content, "PMIDs: 111")
}

func TestRunToolErrorIsFedBack(t *testing.T) {
	web := &fakeWeb{err: &websearch.ErrorResult{StatusCode: 429}}
	m := &scriptedModel{replies: []llm.Response{
		{ToolCalls: []llm.ToolCall{
			call("c1", WebSearchName, `{"query":"yoga"}`),
			call("c2", "calculator", `{}`),
		}},
		{Content: "fallback answer"},
	}}
	a := New(m, []Tool{WebSearchTool{Searcher: web}}, Options{Logger: quiet()})

	res, err := a.Run(context.Background(), nil, "yoga for cramps?")
	require.NoError(t, err)
	assert.Equal(t, "fallback answer", res.Answer)
	require.Len(t, res.Invocations, 2)
	assert.True(t, res.Invocations[0].Failed)
	assert.True(t, res.Invocations[1].Failed)

	msgs := m.requests[1].Messages
	assert.Equal(t, "Error: Unable to fetch results. Status code: 429", msgs[2].Content)
	assert.Equal(t, `Error: unknown tool "calculator"`, msgs[3].Content)
}

func TestRunStepLimit(t *testing.T) {
	m := &scriptedModel{replies: []llm.Response{
		{ToolCalls: []llm.ToolCall{call("c", WebSearchName, `{"query":"x"}`)}},
	}}
	web := &fakeWeb{res: websearch.Result{Summary: "s", URLs: []string{"u"}}}
	a := New(m, []Tool{WebSearchTool{Searcher: web}}, Options{MaxSteps: 2, Logger: quiet()})

	res, err := a.Run(context.Background(), nil, "loop")
	assert.ErrorIs(t, err, ErrStepLimit)
	assert.Equal(t, 2, res.Steps)
}

func TestRunModelError(t *testing.T) {
	boom := errors.New("model down")
	a := New(&scriptedModel{err: boom}, nil, Options{Logger: quiet()})

	_, err := a.Run(context.Background(), nil, "q")
	assert.ErrorIs(t, err, boom)
}

func TestCustomSystemPrompt(t *testing.T) {
	m := &scriptedModel{replies: []llm.Response{{Content: "ok"}}}
	a := New(m, nil, Options{SystemPrompt: "custom", Logger: quiet()})
	_, err := a.Run(context.Background(), nil, "q")
	require.NoError(t, err)
	assert.Equal(t, "custom", m.requests[0].System)
}
