// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// OpenAccessFilter restricts a PubMed query to records with free full text
// in the PMC open-access subset. It is prepended to the search term.
const OpenAccessFilter = "(pubmed pmc open access[filter])"

// LookupParams holds the identifier search parameters.
type LookupParams struct {
	Query          string
	YearMin        int
	YearMax        int
	MaxResults     int
	OpenAccessOnly bool
}

func (p LookupParams) validate() error {
	if strings.TrimSpace(p.Query) == "" {
		return fmt.Errorf("%w: query is empty", ErrInvalidQuery)
	}
	if p.YearMin > p.YearMax {
		return fmt.Errorf("%w: year_min %d is after year_max %d", ErrInvalidQuery, p.YearMin, p.YearMax)
	}
	if p.MaxResults <= 0 {
		return fmt.Errorf("%w: max_results must be positive, got %d", ErrInvalidQuery, p.MaxResults)
	}
	return nil
}

// lookupTerm builds the esearch term, with the open-access filter token
// first when requested.
func lookupTerm(query string, openAccessOnly bool) string {
	query = strings.TrimSpace(query)
	if openAccessOnly {
		return OpenAccessFilter + " " + query
	}
	return query
}

// lookupURL builds the relevance-sorted, date-filtered esearch request URL.
func (c *Client) lookupURL(p LookupParams) string {
	params := url.Values{
		"db":       {"pubmed"},
		"retmode":  {"json"},
		"sort":     {"relevance"},
		"datetype": {"pdat"},
		"mindate":  {strconv.Itoa(p.YearMin)},
		"maxdate":  {strconv.Itoa(p.YearMax)},
		"retmax":   {strconv.Itoa(p.MaxResults)},
		"term":     {lookupTerm(p.Query, p.OpenAccessOnly)},
	}
	c.identify(params)
	return esearchURL + "?" + params.Encode()
}

// Lookup returns PubMed identifiers matching the query in the order the
// index ranks them. An empty result is not an error.
func (c *Client) Lookup(ctx context.Context, p LookupParams) ([]string, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	body, err := c.get(ctx, c.lookupURL(p))
	if err != nil {
		return nil, &UpstreamError{Endpoint: "esearch", Err: err}
	}

	var resp esearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &UpstreamError{Endpoint: "esearch", Err: fmt.Errorf("parsing response: %w", err)}
	}
	if resp.Result == nil {
		return nil, &UpstreamError{Endpoint: "esearch", Err: errors.New("response has no esearchresult")}
	}
	if resp.Result.IDList == nil {
		msg := "esearchresult has no idlist"
		if resp.Result.Error != "" {
			msg += ": " + resp.Result.Error
		}
		return nil, &UpstreamError{Endpoint: "esearch", Err: errors.New(msg)}
	}

	c.logger.Debug("literature lookup", "query", p.Query, "open_access", p.OpenAccessOnly, "ids", len(resp.Result.IDList))
	return resp.Result.IDList, nil
}

// esearch JSON structures.
type esearchResponse struct {
	Result *esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
	Error  string   `json:"ERROR"`
}
