package literature

import (
	"io"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wellness-chat/pkg/types"
)

// CSLItem is a bibliographic entry in CSL-YAML form, consumable by Pandoc
// and reference managers. Full-text records produce one item per article,
// not one per passage.
type CSLItem struct {
	ID     string    `yaml:"id"`
	Type   string    `yaml:"type"`
	Author []CSLName `yaml:"author,omitempty"`
	Issued *CSLDate  `yaml:"issued,omitempty"`
	PMID   string    `yaml:"PMID,omitempty"`
	PMCID  string    `yaml:"PMCID,omitempty"`
	URL    string    `yaml:"URL,omitempty"`
	Note   string    `yaml:"note,omitempty"`
}

// CSLName is a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a date in CSL date-parts form.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// CSLItems collapses records to one item per identifier in first-seen order.
func CSLItems(records []types.CitationRecord) []CSLItem {
	seen := make(map[string]bool, len(records))
	var items []CSLItem
	for _, r := range records {
		if seen[r.Identifier] {
			continue
		}
		seen[r.Identifier] = true
		items = append(items, toCSLItem(r))
	}
	return items
}

// FormatCSL writes the bundle's records as a CSL-YAML list to w.
func FormatCSL(bundle types.SearchResultBundle, w io.Writer) error {
	items := CSLItems(bundle.Records)
	if items == nil {
		items = []CSLItem{}
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(r types.CitationRecord) CSLItem {
	item := CSLItem{
		ID:    "pmid" + r.Identifier,
		Type:  "article-journal",
		PMID:  r.Identifier,
		PMCID: r.PMCID,
		URL:   r.URL,
		Note:  r.SourceCitation,
	}
	switch r.Author {
	case "", types.UnknownAuthor:
	default:
		item.Author = []CSLName{{Family: r.Author}}
	}
	if y, err := strconv.Atoi(r.Year); err == nil {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}
	return item
}
