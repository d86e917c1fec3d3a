// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mcptools

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/wellness-chat/internal/agent"
	"github.com/pdiddy/wellness-chat/internal/literature"
	"github.com/pdiddy/wellness-chat/internal/websearch"
	"github.com/pdiddy/wellness-chat/pkg/types"
)

type fakeWeb struct {
	res websearch.Result
	err error
}

func (f *fakeWeb) Search(ctx context.Context, q string) (websearch.Result, error) {
	return f.res, f.err
}

type fakeLit struct {
	got literature.SearchParams
	err error
}

func (f *fakeLit) Search(ctx context.Context, p literature.SearchParams) (types.SearchResultBundle, error) {
	f.got = p
	if f.err != nil {
		return types.SearchResultBundle{}, f.err
	}
	return types.SearchResultBundle{
		Query:       p.Query,
		Mode:        types.ModeAbstracts,
		Identifiers: []string{"1", "2"},
		Records:     []types.CitationRecord{{Text: "t", SourceCitation: "(Lee 2020 - 1)", Identifier: "1"}},
	}, nil
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return tc.Text
}

func TestPubMedSearch(t *testing.T) {
	lit := &fakeLit{}
	h := NewHandlers(&fakeWeb{}, lit, quiet())

	res, err := h.PubMedSearch(context.Background(), callRequest("pubmed_search", map[string]any{
		"query":       "endometriosis",
		"num_results": 5,
		"search_mode": "fulltext",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	assert.Equal(t, "endometriosis", lit.got.Query)
	assert.Equal(t, 5, lit.got.MaxResults)
	assert.Equal(t, types.ModeFullText, lit.got.Mode)

	var bundle types.SearchResultBundle
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &bundle))
	assert.Equal(t, []string{"1", "2"}, bundle.Identifiers)
	assert.Len(t, bundle.Records, 1)
}

func TestPubMedSearchErrors(t *testing.T) {
	h := NewHandlers(&fakeWeb{}, &fakeLit{err: &literature.InvalidModeError{Mode: "x"}}, quiet())

	res, err := h.PubMedSearch(context.Background(), callRequest("pubmed_search", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = h.PubMedSearch(context.Background(), callRequest("pubmed_search", map[string]any{"query": "q", "search_mode": "x"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "invalid search mode")
}

func TestWebSearch(t *testing.T) {
	h := NewHandlers(&fakeWeb{res: websearch.Result{Summary: "s", URLs: []string{"https://a"}}}, &fakeLit{}, quiet())

	res, err := h.WebSearch(context.Background(), callRequest("web_search", map[string]any{"query": "sleep"}))
	require.NoError(t, err)
	var got websearch.Result
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Equal(t, []string{"https://a"}, got.URLs)
}

func TestWebSearchErrorDescriptor(t *testing.T) {
	h := NewHandlers(&fakeWeb{err: &websearch.ErrorResult{StatusCode: 401}}, &fakeLit{}, quiet())

	res, err := h.WebSearch(context.Background(), callRequest("web_search", map[string]any{"query": "sleep"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "Error: Unable to fetch results. Status code: 401", resultText(t, res))
}

func TestToMCPTool(t *testing.T) {
	server := mcpserver.NewMCPServer("wellness-chat", "test")
	Register(server, NewHandlers(&fakeWeb{}, &fakeLit{}, quiet()))

	tool := toMCPTool(agent.LiteratureTool{}.Definition())
	assert.Equal(t, "pubmed_search", tool.Name)
	assert.Equal(t, "object", tool.InputSchema.Type)
	assert.Equal(t, []string{"query"}, tool.InputSchema.Required)
	assert.Contains(t, tool.InputSchema.Properties, "search_mode")
}
