// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/beevik/etree"

	"github.com/pdiddy/wellness-chat/pkg/types"
)

// pubmedURL is the public landing page for one PubMed record.
const pubmedURL = "https://pubmed.ncbi.nlm.nih.gov/%s/"

// ExtractAbstracts fetches the bibliographic records for ids in one batched
// request and returns a citation record per article that has an abstract,
// a PMID, a completion year, and a first author surname. Output follows the
// order of ids; articles missing any of those fields are reported as skips.
//
// A transport failure or a body that is not a PubmedArticleSet document is
// returned as *UpstreamError.
func (c *Client) ExtractAbstracts(ctx context.Context, ids []string) ([]types.CitationRecord, []types.Skip, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}

	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"rettype": {"abstract"},
		"retmode": {"xml"},
	}
	c.identify(params)

	body, err := c.get(ctx, efetchURL+"?"+params.Encode())
	if err != nil {
		return nil, nil, &UpstreamError{Endpoint: "efetch", Err: err}
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, nil, &UpstreamError{Endpoint: "efetch", Err: fmt.Errorf("parsing XML: %w", err)}
	}
	root := doc.Root()
	if root == nil || root.Tag != "PubmedArticleSet" {
		return nil, nil, &UpstreamError{Endpoint: "efetch", Err: errors.New("response is not a PubmedArticleSet")}
	}

	articles := root.SelectElements("PubmedArticle")
	found := make(map[string]types.CitationRecord, len(articles))
	reasons := make(map[string]string)

	for i, article := range articles {
		rec, err := parseArticle(article)
		if err != nil {
			// Fall back to the requested id at the same position when the
			// article's own PMID could not be read.
			id := elementText(article.FindElement("./MedlineCitation/PMID"))
			if id == "" && i < len(ids) {
				id = ids[i]
			}
			reasons[id] = err.Error()
			continue
		}
		found[rec.Identifier] = rec
	}

	var records []types.CitationRecord
	var skips []types.Skip
	for _, id := range ids {
		if rec, ok := found[id]; ok {
			records = append(records, rec)
			delete(found, id)
			continue
		}
		reason, ok := reasons[id]
		if !ok {
			reason = "no record returned"
		}
		skips = append(skips, types.Skip{Identifier: id, Reason: reason})
		c.logger.Warn("skipping article", "identifier", id, "reason", reason)
	}

	c.logger.Info("parsed abstracts", "records", len(records), "articles", len(articles))
	return records, skips, nil
}

// parseArticle extracts one citation record from a PubmedArticle element.
// Any missing field is a skip.
func parseArticle(article *etree.Element) (types.CitationRecord, error) {
	medline := article.SelectElement("MedlineCitation")
	if medline == nil {
		return types.CitationRecord{}, skipf("no MedlineCitation")
	}

	abstract := medline.FindElement("./Article/Abstract")
	if abstract == nil {
		return types.CitationRecord{}, skipf("no abstract")
	}
	paragraphs := abstract.SelectElements("AbstractText")
	if len(paragraphs) == 0 {
		return types.CitationRecord{}, skipf("no abstract")
	}

	pmid := elementText(medline.SelectElement("PMID"))
	if pmid == "" {
		return types.CitationRecord{}, skipf("no PMID")
	}

	year := elementText(medline.FindElement("./DateCompleted/Year"))
	if year == "" {
		return types.CitationRecord{}, skipf("no completion year")
	}

	author := firstAuthorSurname(medline)
	if author == "" {
		return types.CitationRecord{}, skipf("no first author surname")
	}

	parts := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if t := NodeText(p); t != "" {
			parts = append(parts, t)
		}
	}
	text := strings.Join(parts, " ")
	if text == "" {
		return types.CitationRecord{}, skipf("empty abstract")
	}

	return types.CitationRecord{
		Text:           text,
		SourceCitation: types.FormatCitation(author, year, pmid),
		Identifier:     pmid,
		URL:            fmt.Sprintf(pubmedURL, pmid),
		Author:         author,
		Year:           year,
	}, nil
}

// firstAuthorSurname returns the LastName of the first Author in the list.
// A first author without a LastName (a collective) yields "".
func firstAuthorSurname(medline *etree.Element) string {
	list := medline.FindElement("./Article/AuthorList")
	if list == nil {
		return ""
	}
	first := list.SelectElement("Author")
	if first == nil {
		return ""
	}
	return elementText(first.SelectElement("LastName"))
}

// elementText returns the trimmed direct text of el, or "" for nil.
func elementText(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

// NodeText concatenates the character data of el and all of its
// descendants in document order. Each non-blank text run is trimmed and
// runs are joined by single spaces, so inline markup such as <i>, <sup> or
// nested labels does not drop or glue words.
func NodeText(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var parts []string
	collectText(el, &parts)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func collectText(el *etree.Element, parts *[]string) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			if s := strings.TrimSpace(t.Data); s != "" {
				*parts = append(*parts, s)
			}
		case *etree.Element:
			collectText(t, parts)
		}
	}
}
