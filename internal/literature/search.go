// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"context"
	"fmt"

	"github.com/pdiddy/wellness-chat/pkg/types"
)

// SearchParams holds one literature search request. Zero-valued fields take
// the client's configured defaults.
type SearchParams struct {
	Query      string
	YearMin    int
	YearMax    int
	MaxResults int
	Mode       types.SearchMode
}

// withDefaults fills zero-valued fields from cfg.
func (p SearchParams) withDefaults(cfg types.LiteratureConfig) SearchParams {
	if p.YearMin == 0 {
		p.YearMin = cfg.YearMin
	}
	if p.YearMax == 0 {
		p.YearMax = cfg.YearMax
	}
	if p.MaxResults <= 0 {
		p.MaxResults = cfg.MaxResults
	}
	if p.Mode == "" {
		p.Mode = cfg.Mode
	}
	return p
}

// Resolve returns p with zero-valued fields filled from the client's
// configuration, as Search will run it.
func (c *Client) Resolve(p SearchParams) SearchParams {
	return p.withDefaults(c.cfg)
}

// Search looks up identifiers for the query and extracts citation records
// with the requested mode. Fulltext mode restricts the lookup to the
// open-access subset, since only those documents can be fetched.
//
// The bundle's Identifiers are the raw lookup output even when extraction
// yields fewer records. A lookup with no hits returns an empty bundle without
// calling an extractor. An unknown mode fails with *InvalidModeError before
// any network call.
func (c *Client) Search(ctx context.Context, p SearchParams) (types.SearchResultBundle, error) {
	p = p.withDefaults(c.cfg)
	if !p.Mode.Valid() {
		return types.SearchResultBundle{}, &InvalidModeError{Mode: string(p.Mode)}
	}

	bundle := types.SearchResultBundle{Query: p.Query, Mode: p.Mode}

	ids, err := c.Lookup(ctx, LookupParams{
		Query:          p.Query,
		YearMin:        p.YearMin,
		YearMax:        p.YearMax,
		MaxResults:     p.MaxResults,
		OpenAccessOnly: p.Mode == types.ModeFullText,
	})
	if err != nil {
		return bundle, fmt.Errorf("looking up %q: %w", p.Query, err)
	}
	bundle.Identifiers = ids
	if len(ids) == 0 {
		c.logger.Info("literature search found nothing", "query", p.Query, "mode", p.Mode)
		return bundle, nil
	}

	var records []types.CitationRecord
	var skips []types.Skip
	switch p.Mode {
	case types.ModeFullText:
		records, skips, err = c.ExtractFullText(ctx, ids)
	default:
		records, skips, err = c.ExtractAbstracts(ctx, ids)
	}
	if err != nil {
		return bundle, fmt.Errorf("extracting %s: %w", p.Mode, err)
	}
	bundle.Records = records
	bundle.Skipped = skips

	c.logger.Info("literature search",
		"query", p.Query,
		"mode", p.Mode,
		"identifiers", len(ids),
		"records", len(records),
		"skipped", len(skips),
	)
	return bundle, nil
}
