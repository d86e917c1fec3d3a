// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/wellness-chat/internal/literature"
	"github.com/pdiddy/wellness-chat/pkg/types"
)

var pubmedCmd = &cobra.Command{
	Use:   "pubmed [query]",
	Short: "Search PubMed and print citation records",
	Long: `Search PubMed for a query and print the extracted citation records.

In abstracts mode each matching article yields one record from its abstract.
In fulltext mode the search is restricted to open-access articles and each
body passage of the article yields a record.

Output formats: table (default), json, csl (CSL-YAML for reference
managers), and model (the text the assistant sees).

Use --save to write the search and its results to a YAML file, and --load
to print a saved file again without querying NCBI.`,
	Args: func(cmd *cobra.Command, args []string) error {
		load, _ := cmd.Flags().GetString("load")
		if load == "" && len(args) == 0 {
			return fmt.Errorf("a query is required unless --load is given")
		}
		return nil
	},
	RunE: runPubMed,
}

func init() {
	pubmedCmd.Flags().Int("year-min", 0, "earliest publication year (default from config)")
	pubmedCmd.Flags().Int("year-max", 0, "latest publication year (default from config)")
	pubmedCmd.Flags().Int("max-results", 0, "maximum PubMed identifiers to retrieve (default from config)")
	pubmedCmd.Flags().String("mode", "", "retrieval mode: abstracts or fulltext (default from config)")
	pubmedCmd.Flags().String("format", "table", "output format: table, json, csl, model")
	pubmedCmd.Flags().Int("max-chars", 0, "character limit for --format model (0 for none)")
	pubmedCmd.Flags().String("save", "", "write the search and results to a YAML file")
	pubmedCmd.Flags().String("load", "", "print a saved search file instead of searching")
	rootCmd.AddCommand(pubmedCmd)
}

func runPubMed(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	maxChars, _ := cmd.Flags().GetInt("max-chars")
	out := cmd.OutOrStdout()

	if load, _ := cmd.Flags().GetString("load"); load != "" {
		bf, err := literature.ReadBundleFile(load)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Loaded search %q (%s, %s)\n", bf.Search.Query, bf.Search.Mode, bf.Summary.Timestamp.Format("2006-01-02 15:04"))
		return writeBundle(out, bf.Results, format, maxChars)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newLiteratureClient(cfg)

	params := literature.SearchParams{Query: strings.Join(args, " ")}
	params.YearMin, _ = cmd.Flags().GetInt("year-min")
	params.YearMax, _ = cmd.Flags().GetInt("year-max")
	params.MaxResults, _ = cmd.Flags().GetInt("max-results")
	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		m, ok := types.ParseSearchMode(mode)
		if !ok {
			return &literature.InvalidModeError{Mode: mode}
		}
		params.Mode = m
	}
	params = client.Resolve(params)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "Searching PubMed for %q (%d-%d, %s, max %d)...\n",
		params.Query, params.YearMin, params.YearMax, params.Mode, params.MaxResults)
	bundle, err := client.Search(ctx, params)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetString("save"); save != "" {
		if err := literature.WriteBundleFile(save, params, bundle); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved to %s\n", save)
	}
	return writeBundle(out, bundle, format, maxChars)
}

func writeBundle(w io.Writer, bundle types.SearchResultBundle, format string, maxChars int) error {
	switch format {
	case "table", "":
		literature.FormatTable(bundle, w)
		return nil
	case "json":
		return literature.FormatJSON(bundle, w)
	case "csl":
		return literature.FormatCSL(bundle, w)
	case "model":
		_, err := fmt.Fprintln(w, literature.FormatForModel(bundle, maxChars))
		return err
	default:
		return fmt.Errorf("unknown format %q (want table, json, csl or model)", format)
	}
}
