// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config assembles the assistant configuration from a viper
// instance (config file, WELLNESS_CHAT_* environment, flags) and the
// resolved secrets.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/wellness-chat/internal/secrets"
	"github.com/pdiddy/wellness-chat/pkg/types"
)

// EnvPrefix is prepended to environment overrides, e.g.
// WELLNESS_CHAT_LITERATURE_MAX_RESULTS.
const EnvPrefix = "WELLNESS_CHAT"

// modelDefaults holds the answer and follow-up model used for each provider
// when the config names none.
var modelDefaults = map[types.ModelProvider][2]string{
	types.ProviderOpenAI:    {"gpt-4o", "gpt-4o-mini"},
	types.ProviderAnthropic: {"claude-sonnet-4-5", "claude-sonnet-4-5"},
}

// userAgent identifies the client to upstream services.
const userAgent = "wellness-chat/0.1"

// defaults holds every config key with its default. Registering every key
// lets AutomaticEnv override keys that no config file mentions.
var defaults = map[string]any{
	"literature.timeout":             30 * time.Second,
	"literature.user_agent":          userAgent,
	"literature.api_key":             "",
	"literature.email":               "",
	"literature.tool":                "wellness-chat",
	"literature.year_min":            1990,
	"literature.year_max":            2024,
	"literature.max_results":         10,
	"literature.mode":                string(types.ModeAbstracts),
	"literature.concurrency":         4,
	"literature.requests_per_second": 0.0,

	"web_search.timeout":    30 * time.Second,
	"web_search.user_agent": userAgent,
	"web_search.api_key":    "",
	"web_search.count":      5,

	"model.provider":       string(types.ProviderOpenAI),
	"model.model":          "",
	"model.followup_model": "",
	"model.api_key":        "",
	"model.base_url":       "",
	"model.max_tokens":     4096,
	"model.max_retries":    3,
	"model.timeout":        120 * time.Second,

	"chat.history_path":  "",
	"chat.max_steps":     6,
	"chat.history_turns": 20,
	"chat.followups":     true,
}

// SetDefaults registers defaults and environment lookup on v.
func SetDefaults(v *viper.Viper) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes v into an AssistantConfig, fills API keys that the config
// leaves empty from sec, and validates the result. Callers should have
// called SetDefaults on v.
func Load(v *viper.Viper, sec secrets.Store) (types.AssistantConfig, error) {
	var cfg types.AssistantConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	if mode, ok := types.ParseSearchMode(string(cfg.Literature.Mode)); ok {
		cfg.Literature.Mode = mode
	}
	cfg.Model.Provider = types.ModelProvider(strings.ToLower(string(cfg.Model.Provider)))
	if names, ok := modelDefaults[cfg.Model.Provider]; ok && cfg.Model.Model == "" {
		cfg.Model.Model = names[0]
		fill(&cfg.Model.FollowupModel, names[1])
	}
	fill(&cfg.Model.FollowupModel, cfg.Model.Model)

	fill(&cfg.Literature.APIKey, sec.Get(secrets.NCBIKey))
	fill(&cfg.Literature.Email, sec.Get(secrets.NCBIEmail))
	fill(&cfg.WebSearch.APIKey, sec.Get(secrets.BraveKey))
	switch cfg.Model.Provider {
	case types.ProviderAnthropic:
		fill(&cfg.Model.APIKey, sec.Get(secrets.AnthropicKey))
	default:
		fill(&cfg.Model.APIKey, sec.Get(secrets.OpenAIKey))
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// Validate reports every constraint cfg violates. Missing API keys are not
// checked here; each command checks the keys it needs.
func Validate(cfg types.AssistantConfig) error {
	var errs []error
	lit := cfg.Literature
	if !lit.Mode.Valid() {
		errs = append(errs, fmt.Errorf("literature.mode: %q is not %q or %q", lit.Mode, types.ModeAbstracts, types.ModeFullText))
	}
	if lit.YearMin > lit.YearMax {
		errs = append(errs, fmt.Errorf("literature.year_min %d is after year_max %d", lit.YearMin, lit.YearMax))
	}
	if lit.MaxResults <= 0 {
		errs = append(errs, fmt.Errorf("literature.max_results must be positive"))
	}
	if lit.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("literature.concurrency must be positive"))
	}
	if cfg.WebSearch.Count <= 0 || cfg.WebSearch.Count > 20 {
		errs = append(errs, fmt.Errorf("web_search.count must be between 1 and 20"))
	}
	switch cfg.Model.Provider {
	case types.ProviderOpenAI, types.ProviderAnthropic:
	default:
		errs = append(errs, fmt.Errorf("model.provider: unknown provider %q", cfg.Model.Provider))
	}
	if cfg.Chat.MaxSteps <= 0 {
		errs = append(errs, fmt.Errorf("chat.max_steps must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
