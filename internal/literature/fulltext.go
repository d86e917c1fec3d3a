// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/wellness-chat/pkg/types"
)

// pmcURL is the public landing page for one PMC open-access article.
const pmcURL = "https://www.ncbi.nlm.nih.gov/pmc/articles/%s/"

// surnameLabel prefixes the surname segment of a BioC name infon,
// e.g. "surname:Smith;given-names:Jane".
const surnameLabel = "surname:"

// Passage tags that never carry substantive body text.
var (
	excludedContentTypes = map[string]bool{
		"ref":   true, // reference list entries
		"front": true, // front matter
	}
	excludedContentSubstrings = []string{"table", "caption", "title"}
	excludedSectionTypes      = map[string]bool{
		"auth_cont": true, // author contributions
	}
)

// keepPassage reports whether a passage with the given content type and
// section type holds body text. Both comparisons are case-insensitive.
func keepPassage(contentType, sectionType string) bool {
	ct := strings.ToLower(contentType)
	if excludedContentTypes[ct] {
		return false
	}
	for _, s := range excludedContentSubstrings {
		if strings.Contains(ct, s) {
			return false
		}
	}
	return !excludedSectionTypes[strings.ToLower(sectionType)]
}

// ExtractFullText fetches the open-access BioC document for each id and
// returns one citation record per body passage. Documents are fetched
// concurrently, bounded by the configured concurrency and rate limit, but
// records keep passage order within a document and id order across
// documents.
//
// Failures are per identifier: an id whose document cannot be fetched or
// parsed is reported as a skip and the rest continue. The returned error is
// non-nil only when ctx ends before the batch completes.
func (c *Client) ExtractFullText(ctx context.Context, ids []string) ([]types.CitationRecord, []types.Skip, error) {
	type slot struct {
		records []types.CitationRecord
		err     error
	}
	slots := make([]slot, len(ids))

	var g errgroup.Group
	g.SetLimit(c.cfg.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			recs, err := c.fetchDocument(ctx, id)
			slots[i] = slot{records: recs, err: err}
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var records []types.CitationRecord
	var skips []types.Skip
	for i, s := range slots {
		if s.err != nil {
			skips = append(skips, types.Skip{Identifier: ids[i], Reason: s.err.Error()})
			c.logger.Warn("skipping document", "identifier", ids[i], "reason", s.err)
			continue
		}
		records = append(records, s.records...)
	}

	c.logger.Info("parsed full text", "records", len(records), "documents", len(ids)-len(skips))
	return records, skips, nil
}

// fetchDocument downloads and parses the BioC document for one id.
func (c *Client) fetchDocument(ctx context.Context, id string) ([]types.CitationRecord, error) {
	body, err := c.get(ctx, biocURL+"/"+url.PathEscape(id)+"/unicode")
	if err != nil {
		return nil, skipf("fetching document: %v", err)
	}
	coll, err := decodeBioC(body)
	if err != nil {
		return nil, err
	}
	return parseBioC(coll, id)
}

// decodeBioC accepts either a single BioC collection or a list of them,
// in which case the first is used.
func decodeBioC(body []byte) (biocCollection, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var colls []biocCollection
		if err := json.Unmarshal(trimmed, &colls); err != nil {
			return biocCollection{}, skipf("parsing document: %v", err)
		}
		if len(colls) == 0 {
			return biocCollection{}, skipf("empty collection list")
		}
		return colls[0], nil
	}
	var coll biocCollection
	if err := json.Unmarshal(trimmed, &coll); err != nil {
		return biocCollection{}, skipf("parsing document: %v", err)
	}
	return coll, nil
}

// parseBioC turns the first document of a collection into citation
// records, dropping non-body passages.
func parseBioC(coll biocCollection, id string) ([]types.CitationRecord, error) {
	if len(coll.Documents) == 0 {
		return nil, skipf("no documents")
	}
	doc := coll.Documents[0]
	if len(doc.Passages) == 0 {
		return nil, skipf("no passages")
	}

	author := leadAuthor(doc.Passages[0].infon("name_0"))
	year := ""
	if len(coll.Date) >= 4 {
		year = coll.Date[:4]
	}
	citation := types.FormatCitation(author, year, id)

	pmcid := doc.ID
	if pmcid != "" && !strings.HasPrefix(strings.ToUpper(pmcid), "PMC") {
		pmcid = "PMC" + pmcid
	}
	link := ""
	if pmcid != "" {
		link = fmt.Sprintf(pmcURL, pmcid)
	}

	var records []types.CitationRecord
	for _, p := range doc.Passages {
		contentType := p.infon("type")
		sectionType := p.infon("section_type")
		if !keepPassage(contentType, sectionType) {
			continue
		}
		records = append(records, types.CitationRecord{
			Text:           p.Text,
			SourceCitation: citation,
			Identifier:     id,
			URL:            link,
			SectionType:    strings.ToLower(sectionType),
			ContentType:    strings.ToLower(contentType),
			SequenceOffset: p.Offset,
			PMCID:          pmcid,
			Author:         author,
			Year:           year,
		})
	}
	return records, nil
}

// leadAuthor extracts the surname from a BioC name infon such as
// "surname:Smith;given-names:Jane". A value without the label is used as is.
func leadAuthor(name string) string {
	first, _, _ := strings.Cut(name, ";")
	first = strings.TrimSpace(first)
	if len(first) >= len(surnameLabel) && strings.EqualFold(first[:len(surnameLabel)], surnameLabel) {
		first = first[len(surnameLabel):]
	}
	return strings.TrimSpace(first)
}

// BioC JSON structures.
type biocCollection struct {
	Source    string         `json:"source"`
	Date      string         `json:"date"`
	Documents []biocDocument `json:"documents"`
}

type biocDocument struct {
	ID       string        `json:"id"`
	Passages []biocPassage `json:"passages"`
}

type biocPassage struct {
	Infons map[string]any `json:"infons"`
	Offset int            `json:"offset"`
	Text   string         `json:"text"`
}

// infon returns the named passage tag as a string.
func (p biocPassage) infon(key string) string {
	switch v := p.Infons[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
