// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package literature retrieves biomedical literature from the NCBI
// E-utilities and the PMC open-access BioC service and normalizes it into
// citation records.
//
// A search runs in two steps: Lookup turns a free-text query into a ranked
// list of PubMed identifiers, then either ExtractAbstracts (one batched XML
// fetch) or ExtractFullText (one JSON fetch per identifier) turns those
// identifiers into types.CitationRecord values. Search ties the steps
// together and returns a types.SearchResultBundle.
//
// Item-level problems (an article with no abstract, a document that fails
// to download) are skipped and reported; only endpoint-level failures are
// returned as errors.
package literature

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/wellness-chat/internal/httputil"
	"github.com/pdiddy/wellness-chat/pkg/types"
)

// NCBI endpoints. Declared as vars so tests can substitute an httptest server.
var (
	esearchURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	efetchURL  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
	biocURL    = "https://www.ncbi.nlm.nih.gov/research/bionlp/RESTful/pmcoa.cgi/BioC_json"
)

const (
	defaultYearMin     = 1990
	defaultYearMax     = 2024
	defaultMaxResults  = 10
	defaultConcurrency = 4
	defaultTimeout     = 30 * time.Second

	// NCBI allows 3 requests/second without a key and 10 with one.
	anonymousRPS = 3
	keyedRPS     = 10
)

// Client talks to the literature endpoints. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	cfg     types.LiteratureConfig
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient builds a Client. A nil httpClient gets one with cfg.Timeout
// (default 30s); a nil logger uses slog.Default(). Zero-valued config
// fields take their defaults.
func NewClient(cfg types.LiteratureConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.YearMin == 0 {
		cfg.YearMin = defaultYearMin
	}
	if cfg.YearMax == 0 {
		cfg.YearMax = defaultYearMax
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.Mode == "" {
		cfg.Mode = types.ModeAbstracts
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = anonymousRPS
		if cfg.APIKey != "" {
			rps = keyedRPS
		}
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:    httpClient,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}
}

// Config returns the effective configuration, defaults applied.
func (c *Client) Config() types.LiteratureConfig { return c.cfg }

// get waits for the rate limiter and fetches rawURL.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	header := http.Header{}
	if c.cfg.UserAgent != "" {
		header.Set("User-Agent", c.cfg.UserAgent)
	}
	return httputil.Get(ctx, c.http, rawURL, header)
}

// identify adds the optional NCBI key and client identification to params.
func (c *Client) identify(params url.Values) {
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}
	if c.cfg.Tool != "" {
		params.Set("tool", c.cfg.Tool)
	}
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
}
