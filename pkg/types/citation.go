// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the wellness-chat assistant:
// citation records and result bundles produced by literature retrieval, the
// formatted answer shown to the user, chat transcript messages, and config.
package types

import (
	"fmt"
	"strings"
)

// SearchMode selects how the literature orchestrator retrieves text for
// the identifiers returned by the lookup step.
type SearchMode string

const (
	// ModeAbstracts fetches one batched bibliographic record set and
	// extracts abstracts.
	ModeAbstracts SearchMode = "abstracts"

	// ModeFullText fetches segmented open-access documents one identifier
	// at a time and extracts body passages.
	ModeFullText SearchMode = "fulltext"
)

// Valid reports whether m is one of the recognized modes.
func (m SearchMode) Valid() bool {
	return m == ModeAbstracts || m == ModeFullText
}

// ParseSearchMode converts s (case-insensitive, surrounding space ignored)
// to a SearchMode. Unknown values are returned unchanged with ok=false so
// callers can report the original input.
func ParseSearchMode(s string) (SearchMode, bool) {
	m := SearchMode(strings.ToLower(strings.TrimSpace(s)))
	return m, m.Valid()
}

// Fallbacks used when a record lacks author or year metadata.
const (
	UnknownAuthor = "Unknown"
	UnknownYear   = "n.d."
)

// CitationRecord is one normalized unit of retrieved text plus its
// formatted source attribution. Text is never a reference list, caption,
// title, or table fragment.
type CitationRecord struct {
	// Text is the abstract body or the passage body.
	Text string `json:"text" yaml:"text"`

	// SourceCitation is formatted as "(Author Year - ID)".
	SourceCitation string `json:"source_citation" yaml:"source_citation"`

	// Identifier is the literature index identifier (PMID).
	Identifier string `json:"identifier" yaml:"identifier"`

	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// SectionType and ContentType are the lowercased passage tags for
	// full-text records. Empty for abstracts.
	SectionType string `json:"section_type,omitempty" yaml:"section_type,omitempty"`
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`

	// SequenceOffset is the passage character offset within the document.
	SequenceOffset int `json:"sequence_offset,omitempty" yaml:"sequence_offset,omitempty"`

	// PMCID is the open-access document identifier for full-text records.
	PMCID string `json:"pmcid,omitempty" yaml:"pmcid,omitempty"`

	// Author is the lead author's surname and Year the publication year,
	// as used in SourceCitation.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`
	Year   string `json:"year,omitempty" yaml:"year,omitempty"`
}

// FormatCitation renders the "(Author Year - ID)" attribution. Empty author
// or year fall back to UnknownAuthor and UnknownYear so the result is always
// well-formed.
func FormatCitation(author, year, id string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		author = UnknownAuthor
	}
	year = strings.TrimSpace(year)
	if year == "" {
		year = UnknownYear
	}
	return fmt.Sprintf("(%s %s - %s)", author, year, id)
}

// Skip records an identifier that produced no usable record and why.
type Skip struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Reason     string `json:"reason" yaml:"reason"`
}

// SearchResultBundle is the uniform result of a literature search.
// Identifiers reflects the upstream ranked order of the lookup step;
// Records may cover a strict subset of them.
type SearchResultBundle struct {
	Records     []CitationRecord `json:"records" yaml:"records"`
	Identifiers []string         `json:"identifiers" yaml:"identifiers"`
	Query       string           `json:"query" yaml:"query"`
	Mode        SearchMode       `json:"mode" yaml:"mode"`
	Skipped     []Skip           `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// FormattedAnswer is a model answer split for display.
type FormattedAnswer struct {
	Summary string `json:"summary" yaml:"summary"`

	// SourcesBlock is the literal text from the "Sources:" marker onward,
	// or empty when the answer had no marker.
	SourcesBlock string `json:"sources_block,omitempty" yaml:"sources_block,omitempty"`
}

// HasSources reports whether the answer carried a sources block.
func (a FormattedAnswer) HasSources() bool {
	return a.SourcesBlock != ""
}
