// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/pdiddy/wellness-chat/internal/agent"
	"github.com/pdiddy/wellness-chat/internal/mcptools"
	"github.com/pdiddy/wellness-chat/internal/websearch"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the search tools over MCP on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout that exposes the
web_search and pubmed_search tools. Logs go to stderr so they never mix with
protocol messages.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// noWebSearch answers every web search with a key error so the tool stays
// listed but reports why it cannot run.
type noWebSearch struct{}

func (noWebSearch) Search(ctx context.Context, query string) (websearch.Result, error) {
	return websearch.Result{}, errNoWebKey
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var web agent.WebSearcher = noWebSearch{}
	if c, err := newWebClient(cfg); err == nil {
		web = c
	} else {
		logger.Warn("web_search will fail", "err", err)
	}

	server := mcpserver.NewMCPServer("wellness-chat", version)
	mcptools.Register(server, mcptools.NewHandlers(web, newLiteratureClient(cfg), logger))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("mcp server starting on stdio")
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	}
}
