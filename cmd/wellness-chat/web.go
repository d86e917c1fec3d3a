// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

var webCmd = &cobra.Command{
	Use:   "web [query]",
	Short: "Run a web search and print the result summary",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWeb,
}

func init() {
	webCmd.Flags().Bool("json", false, "print the result as JSON")
	rootCmd.AddCommand(webCmd)
}

func runWeb(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newWebClient(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res, err := client.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if len(res.URLs) == 0 {
		fmt.Fprintln(out, "No results.")
		return nil
	}
	fmt.Fprint(out, res.Summary)
	return nil
}
