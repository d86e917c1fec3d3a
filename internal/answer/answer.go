// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package answer splits a model's final text into the summary shown to the
// user and its trailing sources block.
package answer

import (
	"strings"

	"github.com/pdiddy/wellness-chat/pkg/types"
)

// SourcesMarker introduces the sources block in a model answer.
const SourcesMarker = "Sources:"

// Format splits raw on the first occurrence of SourcesMarker. The summary is
// the trimmed text before it; the sources block is the text from the marker
// onward, unchanged. Without a marker raw is the summary as given.
func Format(raw string) types.FormattedAnswer {
	before, after, found := strings.Cut(raw, SourcesMarker)
	if !found {
		return types.FormattedAnswer{Summary: raw}
	}
	return types.FormattedAnswer{
		Summary:      strings.TrimSpace(before),
		SourcesBlock: SourcesMarker + after,
	}
}

// SourceLines returns the non-empty lines of the sources block after the
// marker, with list numbering left intact.
func SourceLines(a types.FormattedAnswer) []string {
	if !a.HasSources() {
		return nil
	}
	rest := strings.TrimPrefix(a.SourcesBlock, SourcesMarker)
	var lines []string
	for _, l := range strings.Split(rest, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
