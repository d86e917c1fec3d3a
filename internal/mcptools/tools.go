// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mcptools exposes the web and literature search tools over the
// Model Context Protocol so other assistants can call them directly.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pdiddy/wellness-chat/internal/agent"
	"github.com/pdiddy/wellness-chat/internal/llm"
)

// Handlers serve the registered tools.
type Handlers struct {
	web    agent.WebSearcher
	lit    agent.LiteratureSearcher
	logger *slog.Logger
}

// NewHandlers builds the tool handlers. A nil logger uses slog.Default().
func NewHandlers(web agent.WebSearcher, lit agent.LiteratureSearcher, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{web: web, lit: lit, logger: logger}
}

// Register adds web_search and pubmed_search to server. The tool schemas
// are the ones the chat agent advertises to its model.
func Register(server *mcpserver.MCPServer, h *Handlers) {
	server.AddTool(toMCPTool(agent.WebSearchTool{}.Definition()), h.WebSearch)
	server.AddTool(toMCPTool(agent.LiteratureTool{}.Definition()), h.PubMedSearch)
}

func toMCPTool(def llm.ToolDefinition) mcp.Tool {
	return mcp.Tool{
		Name:        def.Name,
		Description: def.Description,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: def.Parameters.Properties,
			Required:   def.Parameters.Required,
		},
	}
}

// WebSearch handles the web_search tool.
func (h *Handlers) WebSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	res, err := h.web.Search(ctx, query)
	if err != nil {
		h.logger.Warn("mcp web search failed", "query", query, "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

// PubMedSearch handles the pubmed_search tool.
func (h *Handlers) PubMedSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	args := agent.LiteratureArgs{
		Query:      query,
		YearMin:    request.GetInt("year_min", 0),
		YearMax:    request.GetInt("year_max", 0),
		NumResults: request.GetInt("num_results", 0),
		SearchMode: request.GetString("search_mode", ""),
	}
	bundle, err := h.lit.Search(ctx, args.Params())
	if err != nil {
		h.logger.Warn("mcp literature search failed", "query", query, "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("literature search failed: %v", err)), nil
	}
	return jsonResult(bundle)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
