// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/wellness-chat/pkg/types"
)

// FormatTable writes the bundle's records as a human-readable table to w.
func FormatTable(bundle types.SearchResultBundle, w io.Writer) {
	if len(bundle.Records) == 0 {
		fmt.Fprintf(w, "No records found (%d identifiers).\n", len(bundle.Identifiers))
		return
	}

	fmt.Fprintf(w, "%-4s  %-30s  %-12s  %s\n", "#", "Citation", "Section", "Text")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range bundle.Records {
		section := r.SectionType
		if section == "" {
			section = "abstract"
		}
		fmt.Fprintf(w, "%-4d  %-30s  %-12s  %s\n",
			i+1, truncate(r.SourceCitation, 30), truncate(section, 12), truncate(oneLine(r.Text), 58))
	}

	fmt.Fprintf(w, "\n%d records from %d identifiers", len(bundle.Records), len(bundle.Identifiers))
	if len(bundle.Skipped) > 0 {
		fmt.Fprintf(w, " (%d skipped)", len(bundle.Skipped))
	}
	fmt.Fprintln(w)
}

// FormatJSON writes the whole bundle as indented JSON to w.
func FormatJSON(bundle types.SearchResultBundle, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(bundle)
}

// FormatForModel renders records as plain text for a language model: one
// block per record with its citation, URL and text. When maxChars is
// positive, records that would push the output past it are dropped and a
// note says how many were left out.
func FormatForModel(bundle types.SearchResultBundle, maxChars int) string {
	if len(bundle.Records) == 0 {
		return fmt.Sprintf("No PubMed results found for %q.", bundle.Query)
	}

	var b strings.Builder
	omitted := 0
	for i, r := range bundle.Records {
		var block strings.Builder
		fmt.Fprintf(&block, "Citation: %s\n", r.SourceCitation)
		if r.URL != "" {
			fmt.Fprintf(&block, "URL: %s\n", r.URL)
		}
		if r.SectionType != "" {
			fmt.Fprintf(&block, "Section: %s\n", r.SectionType)
		}
		fmt.Fprintf(&block, "Text: %s\n", r.Text)

		if maxChars > 0 && b.Len() > 0 && b.Len()+block.Len()+1 > maxChars {
			omitted = len(bundle.Records) - i
			break
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(block.String())
	}
	if omitted > 0 {
		fmt.Fprintf(&b, "\n(%d more records omitted)\n", omitted)
	}
	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
