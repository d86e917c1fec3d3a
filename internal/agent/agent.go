// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent runs the tool-calling loop between the chat model and the
// retrieval tools. Each user turn is sent with the conversation so far; the
// model may request tool calls, whose results are fed back until it
// produces a final answer or the step budget runs out.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdiddy/wellness-chat/internal/llm"
)

// ErrStepLimit is returned when the model keeps requesting tools past the
// configured number of round trips.
var ErrStepLimit = errors.New("agent step limit reached without a final answer")

const defaultMaxSteps = 6

// Options configures an Agent.
type Options struct {
	// SystemPrompt replaces DefaultSystemPrompt when set.
	SystemPrompt string

	// MaxSteps bounds model round trips per turn (default 6).
	MaxSteps int

	Logger *slog.Logger
}

// Agent is the tool-calling loop. It is stateless between turns; callers
// pass the prior conversation to Run.
type Agent struct {
	model    llm.ChatModel
	tools    []Tool
	byName   map[string]Tool
	system   string
	maxSteps int
	logger   *slog.Logger
}

// New builds an Agent over model with the given tools.
func New(model llm.ChatModel, tools []Tool, opts Options) *Agent {
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = defaultMaxSteps
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Definition().Name] = t
	}
	return &Agent{
		model:    model,
		tools:    tools,
		byName:   byName,
		system:   opts.SystemPrompt,
		maxSteps: opts.MaxSteps,
		logger:   opts.Logger,
	}
}

// Invocation records one tool call made during a turn.
type Invocation struct {
	Tool      string `json:"tool"`
	Arguments string `json:"arguments"`
	Failed    bool   `json:"failed"`
}

// Result is the outcome of one turn.
type Result struct {
	// Answer is the model's final text.
	Answer string

	// Steps counts model round trips.
	Steps int

	Invocations []Invocation
}

// Run answers input given the prior conversation. Tool failures are handed
// back to the model as "Error: ..." tool results so it can fall back to
// another tool; model failures end the turn with an error.
func (a *Agent) Run(ctx context.Context, history []llm.Message, input string) (Result, error) {
	msgs := make([]llm.Message, 0, len(history)+1)
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: input})

	defs := make([]llm.ToolDefinition, len(a.tools))
	for i, t := range a.tools {
		defs[i] = t.Definition()
	}

	var res Result
	for step := 0; step < a.maxSteps; step++ {
		res.Steps++
		resp, err := a.model.Complete(ctx, llm.Request{
			System:   a.system,
			Messages: msgs,
			Tools:    defs,
		})
		if err != nil {
			return res, fmt.Errorf("model call (step %d): %w", res.Steps, err)
		}

		if len(resp.ToolCalls) == 0 {
			res.Answer = strings.TrimSpace(resp.Content)
			a.logger.Info("agent answered", "steps", res.Steps, "tool_calls", len(res.Invocations))
			return res, nil
		}

		msgs = append(msgs, llm.Message{Role: llm.RoleAssistant, Content: resp.Content, ToolCalls: resp.ToolCalls})
		for _, call := range resp.ToolCalls {
			out, failed := a.invoke(ctx, call)
			res.Invocations = append(res.Invocations, Invocation{Tool: call.Name, Arguments: string(call.Arguments), Failed: failed})
			msgs = append(msgs, llm.Message{Role: llm.RoleTool, ToolCallID: call.ID, Name: call.Name, Content: out})
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
	}
	return res, ErrStepLimit
}

// invoke runs one tool call and renders its outcome as tool result text.
func (a *Agent) invoke(ctx context.Context, call llm.ToolCall) (string, bool) {
	tool, ok := a.byName[call.Name]
	if !ok {
		a.logger.Warn("model requested unknown tool", "tool", call.Name)
		return fmt.Sprintf("Error: unknown tool %q", call.Name), true
	}

	a.logger.Info("tool call", "tool", call.Name, "arguments", string(call.Arguments))
	out, err := tool.Invoke(ctx, call.Arguments)
	if err != nil {
		a.logger.Warn("tool failed", "tool", call.Name, "err", err)
		msg := err.Error()
		if !strings.HasPrefix(msg, "Error:") {
			msg = "Error: " + msg
		}
		return msg, true
	}
	return out, false
}
