// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/wellness-chat/internal/agent"
	"github.com/pdiddy/wellness-chat/internal/chat"
	"github.com/pdiddy/wellness-chat/internal/config"
	"github.com/pdiddy/wellness-chat/internal/followup"
	"github.com/pdiddy/wellness-chat/internal/history"
	"github.com/pdiddy/wellness-chat/internal/literature"
	"github.com/pdiddy/wellness-chat/internal/llm"
	"github.com/pdiddy/wellness-chat/internal/websearch"
	"github.com/pdiddy/wellness-chat/pkg/types"
)

// errNoWebKey is returned when a command needs web search but no
// subscription token is configured.
var errNoWebKey = errors.New("web search needs an API key: set BRAVE_SEARCH_API_KEY or web_search.api_key")

func loadConfig() (types.AssistantConfig, error) {
	return config.Load(viper.GetViper(), loadedSecrets)
}

func newLiteratureClient(cfg types.AssistantConfig) *literature.Client {
	return literature.NewClient(cfg.Literature, nil, logger)
}

func newWebClient(cfg types.AssistantConfig) (*websearch.Client, error) {
	if cfg.WebSearch.APIKey == "" {
		return nil, errNoWebKey
	}
	return websearch.NewClient(cfg.WebSearch, nil, logger), nil
}

// newTools builds the tools the assistant may call. Web search is left out,
// with a warning, when no key is configured.
func newTools(cfg types.AssistantConfig) []agent.Tool {
	lit := newLiteratureClient(cfg)
	tools := []agent.Tool{agent.LiteratureTool{Searcher: lit}}

	web, err := newWebClient(cfg)
	if err != nil {
		logger.Warn("web search disabled", "err", err)
		return tools
	}
	return append([]agent.Tool{agent.WebSearchTool{Searcher: web}}, tools...)
}

// assistant bundles what a chat command needs and owns the history store.
type assistant struct {
	session *chat.Session
	store   *history.Store
}

func (a *assistant) Close() error {
	return a.store.Close()
}

// newAssistant wires the model, tools and transcript into a chat session.
// sessionID, when set, resumes a stored conversation.
func newAssistant(ctx context.Context, cfg types.AssistantConfig, sessionID string) (*assistant, error) {
	model, err := llm.New(cfg.Model, logger)
	if err != nil {
		return nil, err
	}

	store, err := history.NewStore(cfg.Chat.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}

	ag := agent.New(model, newTools(cfg), agent.Options{
		MaxSteps: cfg.Chat.MaxSteps,
		Logger:   logger,
	})

	var followups chat.FollowUpGenerator
	if cfg.Chat.Followups {
		followups = followup.NewGenerator(model, cfg.Model.FollowupModel, logger)
	}

	session, err := chat.NewSession(ctx, store, ag, followups, chat.Options{
		SessionID:    sessionID,
		HistoryTurns: cfg.Chat.HistoryTurns,
		Logger:       logger,
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	return &assistant{session: session, store: store}, nil
}
