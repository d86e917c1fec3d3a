// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/wellness-chat/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var searchTool = ToolDefinition{
	Name:        "pubmed_search",
	Description: "PubMed Search",
	Parameters: Schema{
		Properties: map[string]any{"query": map[string]any{"type": "string"}},
		Required:   []string{"query"},
	},
}

// --- Schema ---

func TestSchemaJSON(t *testing.T) {
	got := searchTool.Parameters.JSON()
	assert.Equal(t, "object", got["type"])
	assert.Equal(t, []string{"query"}, got["required"])

	empty := Schema{}.JSON()
	assert.Equal(t, map[string]any{}, empty["properties"])
	_, ok := empty["required"]
	assert.False(t, ok)
}

// --- OpenAI ---

func TestOpenAIToolCall(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o",
			"choices":[{"index":0,"finish_reason":"tool_calls","message":{"role":"assistant","content":"",
			"tool_calls":[{"id":"call_1","type":"function","function":{"name":"pubmed_search","arguments":"{\"query\":\"pcos\"}"}}]}}]}`)
	}))
	defer srv.Close()

	m := NewOpenAI(types.ModelConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Model: "gpt-4o"})
	resp, err := m.Complete(context.Background(), Request{
		System: "be helpful",
		Messages: []Message{
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "call_0", Name: "web_search", Arguments: json.RawMessage(`{"query":"x"}`)}}},
			{Role: RoleTool, ToolCallID: "call_0", Name: "web_search", Content: "result"},
		},
		Tools: []ToolDefinition{searchTool},
	})
	require.NoError(t, err)

	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "call_1", resp.ToolCalls[0].ID)
	assert.Equal(t, "pubmed_search", resp.ToolCalls[0].Name)
	assert.JSONEq(t, `{"query":"pcos"}`, string(resp.ToolCalls[0].Arguments))
	assert.Equal(t, "tool_calls", resp.StopReason)

	msgs := body["messages"].([]any)
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "tool", msgs[3].(map[string]any)["role"])
	assert.Equal(t, "call_0", msgs[3].(map[string]any)["tool_call_id"])
	tools := body["tools"].([]any)
	require.Len(t, tools, 1)
	fn := tools[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "pubmed_search", fn["name"])
}

func TestOpenAIJSONMode(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `{"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"questions\":[]}"}}]}`)
	}))
	defer srv.Close()

	m := NewOpenAI(types.ModelConfig{APIKey: "sk-test", BaseURL: srv.URL})
	resp, err := m.Complete(context.Background(), Request{
		Model:      "gpt-4o-mini",
		Messages:   []Message{{Role: RoleUser, Content: "q"}},
		JSONOutput: true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"questions":[]}`, resp.Content)
	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
}

func TestOpenAIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	m := NewOpenAI(types.ModelConfig{APIKey: "sk-test", BaseURL: srv.URL})
	_, err := m.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.False(t, retryable(err))
}

// --- Anthropic ---

func TestAnthropicToolUse(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"), r.URL.Path)
		assert.Equal(t, "ak-test", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-5",
			"content":[{"type":"text","text":"Let me search."},{"type":"tool_use","id":"tu_1","name":"pubmed_search","input":{"query":"pcos"}}],
			"stop_reason":"tool_use","stop_sequence":null,"usage":{"input_tokens":3,"output_tokens":5}}`)
	}))
	defer srv.Close()

	m := NewAnthropic(types.ModelConfig{APIKey: "ak-test", BaseURL: srv.URL + "/"})
	resp, err := m.Complete(context.Background(), Request{
		System: "be helpful",
		Messages: []Message{
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, ToolCalls: []ToolCall{
				{ID: "tu_0", Name: "web_search", Arguments: json.RawMessage(`{"query":"x"}`)},
				{ID: "tu_9", Name: "web_search"},
			}},
			{Role: RoleTool, ToolCallID: "tu_0", Content: "result"},
			{Role: RoleTool, ToolCallID: "tu_9", Content: "Error: Unable to fetch results. Status code: 500"},
		},
		Tools: []ToolDefinition{searchTool},
	})
	require.NoError(t, err)

	assert.Equal(t, "Let me search.", resp.Content)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "tu_1", resp.ToolCalls[0].ID)
	assert.JSONEq(t, `{"query":"pcos"}`, string(resp.ToolCalls[0].Arguments))
	assert.Equal(t, "tool_use", resp.StopReason)

	// Two tool results collapse into one user turn.
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 3)
	last := msgs[2].(map[string]any)
	assert.Equal(t, "user", last["role"])
	blocks := last["content"].([]any)
	require.Len(t, blocks, 2)
	assert.Equal(t, "tool_result", blocks[0].(map[string]any)["type"])
	assert.Equal(t, true, blocks[1].(map[string]any)["is_error"])

	system := body["system"].([]any)
	assert.Equal(t, "be helpful", system[0].(map[string]any)["text"])
	tools := body["tools"].([]any)
	assert.Equal(t, "pubmed_search", tools[0].(map[string]any)["name"])
}

func TestAnthropicJSONMode(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"msg_2","type":"message","role":"assistant","model":"m",
			"content":[{"type":"text","text":"`+"```json\\n{\\\"questions\\\":[\\\"Q1\\\"]}\\n```"+`"}],
			"stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":1,"output_tokens":1}}`)
	}))
	defer srv.Close()

	m := NewAnthropic(types.ModelConfig{APIKey: "ak-test", BaseURL: srv.URL + "/"})
	resp, err := m.Complete(context.Background(), Request{
		Messages:   []Message{{Role: RoleUser, Content: "q"}},
		JSONOutput: true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"questions":["Q1"]}`, resp.Content)
	system := body["system"].([]any)
	assert.Equal(t, jsonInstruction, system[0].(map[string]any)["text"])
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct{ in, want string }{
		{"{}", "{}"},
		{"```json\n{}\n```", "{}"},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// --- New ---

func TestNew(t *testing.T) {
	_, err := New(types.ModelConfig{Provider: types.ProviderOpenAI}, quietLogger())
	assert.Error(t, err, "missing key")

	_, err = New(types.ModelConfig{Provider: "llama", APIKey: "k"}, quietLogger())
	assert.ErrorContains(t, err, "unknown model provider")

	m, err := New(types.ModelConfig{Provider: types.ProviderAnthropic, APIKey: "k"}, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &retrying{}, m)
}

// --- WithRetry ---

type flakyModel struct {
	failures int
	err      error
	calls    int
}

func (f *flakyModel) Complete(ctx context.Context, req Request) (Response, error) {
	f.calls++
	if f.calls <= f.failures {
		return Response{}, f.err
	}
	return Response{Content: "ok"}, nil
}

func withFastBackoff(t *testing.T) {
	t.Helper()
	orig := backoffBase
	backoffBase = time.Millisecond
	t.Cleanup(func() { backoffBase = orig })
}

func TestWithRetryRecovers(t *testing.T) {
	withFastBackoff(t)
	f := &flakyModel{failures: 2, err: errors.New("connection reset")}

	resp, err := WithRetry(f, 3, quietLogger()).Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 3, f.calls)
}

func TestWithRetryExhausted(t *testing.T) {
	withFastBackoff(t)
	f := &flakyModel{failures: 10, err: errors.New("connection reset")}

	_, err := WithRetry(f, 2, quietLogger()).Complete(context.Background(), Request{})
	assert.ErrorContains(t, err, "after 2 retries")
	assert.Equal(t, 3, f.calls)
}

func TestWithRetryStopsOnContextError(t *testing.T) {
	withFastBackoff(t)
	f := &flakyModel{failures: 10, err: context.DeadlineExceeded}

	_, err := WithRetry(f, 3, quietLogger()).Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, f.calls)
}
