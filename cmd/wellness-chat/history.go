// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/wellness-chat/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List and export stored conversations",
	Long: `Inspect the conversation history database configured by chat.history_path.
With no history_path set, conversations are not kept between runs and this
command has nothing to show.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyExportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export one session as YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryExport,
}

func init() {
	historyExportCmd.Flags().String("format", "yaml", "output format: yaml or json")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Chat.HistoryPath == "" {
		return nil, fmt.Errorf("chat.history_path is not set")
	}
	return history.NewStore(cfg.Chat.HistoryPath)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := store.Sessions(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMESSAGES\tSTARTED\tUPDATED")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.ID, s.Messages,
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			s.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "yaml":
		return store.ExportYAML(cmd.Context(), args[0], cmd.OutOrStdout())
	case "json":
		return store.ExportJSON(cmd.Context(), args[0], cmd.OutOrStdout())
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}
