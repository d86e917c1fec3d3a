// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/wellness-chat/internal/literature"
	"github.com/pdiddy/wellness-chat/internal/llm"
	"github.com/pdiddy/wellness-chat/internal/websearch"
	"github.com/pdiddy/wellness-chat/pkg/types"
)

// Tool is a capability the model can call by name with JSON arguments.
// Invoke returns the text fed back to the model.
type Tool interface {
	Definition() llm.ToolDefinition
	Invoke(ctx context.Context, args json.RawMessage) (string, error)
}

// Tool names as the model sees them.
const (
	WebSearchName  = "web_search"
	LiteratureName = "pubmed_search"
)

// WebSearcher is the part of websearch.Client the web tool needs.
type WebSearcher interface {
	Search(ctx context.Context, query string) (websearch.Result, error)
}

// LiteratureSearcher is the part of literature.Client the literature tool
// needs.
type LiteratureSearcher interface {
	Search(ctx context.Context, p literature.SearchParams) (types.SearchResultBundle, error)
}

var (
	_ WebSearcher        = (*websearch.Client)(nil)
	_ LiteratureSearcher = (*literature.Client)(nil)
)

// WebSearchTool answers general wellness questions from web results.
type WebSearchTool struct {
	Searcher WebSearcher
}

// Definition describes the tool to the model.
func (WebSearchTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name: WebSearchName,
		Description: "Brave Search. Useful for general questions about women's health and wellness, " +
			"including lifestyle, nutrition, fitness, and mental wellbeing. Returns a summary of " +
			"search results and a list of URLs. Input should be a search query.",
		Parameters: llm.Schema{
			Properties: map[string]any{
				"query": map[string]any{"type": "string", "description": "Search query."},
			},
			Required: []string{"query"},
		},
	}
}

// Invoke runs the search. A failed search returns *websearch.ErrorResult,
// whose text the agent relays to the model.
func (w WebSearchTool) Invoke(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Query string `json:"query"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if strings.TrimSpace(in.Query) == "" {
		return "", fmt.Errorf("query is required")
	}

	res, err := w.Searcher.Search(ctx, in.Query)
	if err != nil {
		return "", err
	}
	if len(res.URLs) == 0 {
		return fmt.Sprintf("No web results found for %q.", in.Query), nil
	}
	return res.Summary + "\nURLs:\n" + strings.Join(res.URLs, "\n"), nil
}

// LiteratureTool answers medical and scientific questions from PubMed
// abstracts or open-access full text.
type LiteratureTool struct {
	Searcher LiteratureSearcher

	// MaxChars bounds the rendered records handed to the model. Zero means
	// no bound.
	MaxChars int
}

// Definition describes the tool to the model.
func (LiteratureTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name: LiteratureName,
		Description: "PubMed Search. Useful for searching scientific and medical literature related to " +
			"women's health, including reproductive health, menstrual cycles, menopause, and specific " +
			"medical conditions. Returns relevant abstracts or full-text passages with citations and URLs. " +
			"Input should be a search query.",
		Parameters: llm.Schema{
			Properties: map[string]any{
				"query":       map[string]any{"type": "string", "description": "Search query."},
				"year_min":    map[string]any{"type": "integer", "description": "Earliest publication year (default 1990)."},
				"year_max":    map[string]any{"type": "integer", "description": "Latest publication year (default 2024)."},
				"num_results": map[string]any{"type": "integer", "description": "Maximum articles to retrieve (default 10)."},
				"search_mode": map[string]any{
					"type":        "string",
					"enum":        []string{string(types.ModeAbstracts), string(types.ModeFullText)},
					"description": "abstracts (default) or fulltext (open-access articles only).",
				},
			},
			Required: []string{"query"},
		},
	}
}

// LiteratureArgs are the literature tool's JSON arguments.
type LiteratureArgs struct {
	Query      string `json:"query"`
	YearMin    int    `json:"year_min,omitempty"`
	YearMax    int    `json:"year_max,omitempty"`
	NumResults int    `json:"num_results,omitempty"`
	SearchMode string `json:"search_mode,omitempty"`
}

// Params converts the arguments to search parameters. An unrecognized
// mode is passed through so the search rejects it.
func (a LiteratureArgs) Params() literature.SearchParams {
	mode, _ := types.ParseSearchMode(a.SearchMode)
	return literature.SearchParams{
		Query:      a.Query,
		YearMin:    a.YearMin,
		YearMax:    a.YearMax,
		MaxResults: a.NumResults,
		Mode:       mode,
	}
}

// Invoke runs the search and renders the bundle for the model.
func (l LiteratureTool) Invoke(ctx context.Context, args json.RawMessage) (string, error) {
	var in LiteratureArgs
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if strings.TrimSpace(in.Query) == "" {
		return "", fmt.Errorf("query is required")
	}

	bundle, err := l.Searcher.Search(ctx, in.Params())
	if err != nil {
		return "", err
	}
	return RenderBundle(bundle, l.MaxChars), nil
}

// RenderBundle is the literature tool's text output: the search term and
// identifiers, then the records.
func RenderBundle(bundle types.SearchResultBundle, maxChars int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Search term: %s\n", bundle.Query)
	fmt.Fprintf(&b, "Mode: %s\n", bundle.Mode)
	fmt.Fprintf(&b, "PMIDs: %s\n\n", strings.Join(bundle.Identifiers, ", "))
	b.WriteString(literature.FormatForModel(bundle, maxChars))
	return b.String()
}

func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
