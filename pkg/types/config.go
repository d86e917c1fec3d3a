package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "wellness-chat/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// LiteratureConfig holds settings for the biomedical literature search.
type LiteratureConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIKey is an optional NCBI E-utilities key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Email and Tool identify the client to NCBI, as its usage policy asks.
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`
	Tool  string `json:"tool,omitempty" yaml:"tool,omitempty" mapstructure:"tool"`

	// YearMin and YearMax bound the publication date range (inclusive).
	YearMin int `json:"year_min" yaml:"year_min" mapstructure:"year_min"`
	YearMax int `json:"year_max" yaml:"year_max" mapstructure:"year_max"`

	// MaxResults caps the identifiers returned by the lookup step.
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Mode is the default retrieval mode: abstracts or fulltext.
	Mode SearchMode `json:"mode" yaml:"mode" mapstructure:"mode"`

	// Concurrency bounds simultaneous full-text fetches (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`

	// RequestsPerSecond caps the request rate to NCBI. Zero selects 3/s,
	// or 10/s when APIKey is set.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// WebSearchConfig holds settings for the general web search tool.
type WebSearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIKey is the web search subscription token.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Count caps the number of results requested (default 5).
	Count int `json:"count" yaml:"count" mapstructure:"count"`
}

// ModelProvider identifies the hosted model API.
type ModelProvider string

const (
	ProviderOpenAI    ModelProvider = "openai"
	ProviderAnthropic ModelProvider = "anthropic"
)

// ModelConfig holds settings for the language model client.
type ModelConfig struct {
	Provider ModelProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model answers user questions; FollowupModel proposes follow-ups.
	Model         string `json:"model" yaml:"model" mapstructure:"model"`
	FollowupModel string `json:"followup_model" yaml:"followup_model" mapstructure:"followup_model"`

	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint (proxies, tests).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ChatConfig holds settings for the conversational layer.
type ChatConfig struct {
	// HistoryPath is the SQLite transcript file. Empty keeps the
	// transcript in memory for the lifetime of the process.
	HistoryPath string `json:"history_path" yaml:"history_path" mapstructure:"history_path"`

	// MaxSteps bounds model round trips per user turn.
	MaxSteps int `json:"max_steps" yaml:"max_steps" mapstructure:"max_steps"`

	// HistoryTurns bounds how many prior messages are sent with each request.
	HistoryTurns int `json:"history_turns" yaml:"history_turns" mapstructure:"history_turns"`

	// Followups toggles follow-up question generation.
	Followups bool `json:"followups" yaml:"followups" mapstructure:"followups"`
}

// AssistantConfig groups all component configurations.
type AssistantConfig struct {
	Literature LiteratureConfig `json:"literature" yaml:"literature" mapstructure:"literature"`
	WebSearch  WebSearchConfig  `json:"web_search" yaml:"web_search" mapstructure:"web_search"`
	Model      ModelConfig      `json:"model" yaml:"model" mapstructure:"model"`
	Chat       ChatConfig       `json:"chat" yaml:"chat" mapstructure:"chat"`
}
