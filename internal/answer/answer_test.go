// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantSummary string
		wantSources string
	}{
		{"marker", "A\nSources:\nB", "A", "Sources:\nB"},
		{"no marker", "no marker here", "no marker here", ""},
		{"no marker keeps text as given", "  Rest well.\n", "  Rest well.\n", ""},
		{"trims summary", "\n  Eat well.  \n\nSources:\n1. https://a.example", "Eat well.", "Sources:\n1. https://a.example"},
		{"splits once", "A Sources: B Sources: C", "A", "Sources: B Sources: C"},
		{"marker first", "Sources: x", "", "Sources: x"},
		{"empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.raw)
			if got.Summary != tt.wantSummary {
				t.Errorf("Summary = %q, want %q", got.Summary, tt.wantSummary)
			}
			if got.SourcesBlock != tt.wantSources {
				t.Errorf("SourcesBlock = %q, want %q", got.SourcesBlock, tt.wantSources)
			}
			if got.HasSources() != (tt.wantSources != "") {
				t.Errorf("HasSources() = %v", got.HasSources())
			}
		})
	}
}

func TestSourceLines(t *testing.T) {
	a := Format("Summary.\nSources:\n1. https://a.example\n\n2. https://b.example\n")
	lines := SourceLines(a)
	if len(lines) != 2 || lines[0] != "1. https://a.example" || lines[1] != "2. https://b.example" {
		t.Errorf("SourceLines() = %q", lines)
	}
	if SourceLines(Format("plain")) != nil {
		t.Error("SourceLines() without marker should be nil")
	}
}
