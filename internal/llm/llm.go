// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm is a provider-neutral chat model client. The agent loop and
// the follow-up generator talk to a ChatModel; backends translate requests
// to the OpenAI chat completions API or the Anthropic messages API.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pdiddy/wellness-chat/pkg/types"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one conversation entry. Assistant messages may carry tool
// calls; tool messages answer one call by ToolCallID.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	Name       string
}

// ToolCall is a structured request from the model to run a tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// Schema is a JSON Schema object describing tool arguments.
type Schema struct {
	Properties map[string]any
	Required   []string
}

// JSON returns the schema as a JSON Schema object.
func (s Schema) JSON() map[string]any {
	props := s.Properties
	if props == nil {
		props = map[string]any{}
	}
	m := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(s.Required) > 0 {
		m["required"] = s.Required
	}
	return m
}

// ToolDefinition advertises one tool to the model.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  Schema
}

// Request is one completion call.
type Request struct {
	// Model overrides the backend's default model when set.
	Model    string
	System   string
	Messages []Message
	Tools    []ToolDefinition

	// JSONOutput asks for a single JSON object as the reply.
	JSONOutput bool

	MaxTokens int
}

// Response is the model's reply: text, tool calls, or both.
type Response struct {
	Content    string
	ToolCalls  []ToolCall
	StopReason string
}

// ChatModel completes a conversation.
type ChatModel interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

const (
	defaultMaxTokens      = 1024
	defaultOpenAIModel    = "gpt-4o"
	defaultAnthropicModel = "claude-sonnet-4-5"
)

// New builds the backend named by cfg.Provider, wrapped with retries.
func New(cfg types.ModelConfig, logger *slog.Logger) (ChatModel, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for model provider %q", cfg.Provider)
	}

	var backend ChatModel
	switch cfg.Provider {
	case types.ProviderOpenAI, "":
		backend = NewOpenAI(cfg)
	case types.ProviderAnthropic:
		backend = NewAnthropic(cfg)
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
	return WithRetry(backend, cfg.MaxRetries, logger), nil
}
