// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch queries the Brave web search API for general wellness
// questions and renders the hits as a plain-text summary for the model.
package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/wellness-chat/internal/httputil"
	"github.com/pdiddy/wellness-chat/pkg/types"
)

// searchURL is the Brave web search endpoint. Declared as a var so tests can
// substitute an httptest server.
var searchURL = "https://api.search.brave.com/res/v1/web/search"

const (
	defaultCount   = 5
	defaultTimeout = 30 * time.Second
)

// Result is the summary handed to the model plus the result URLs in
// upstream order.
type Result struct {
	Summary string   `json:"summary"`
	URLs    []string `json:"urls"`
}

// ErrorResult is the recoverable failure descriptor for a web search. Its
// text is what the model sees, so it can decide to try another tool.
// StatusCode is 0 when the request never got a response.
type ErrorResult struct {
	StatusCode int
	Err        error
}

func (e *ErrorResult) Error() string {
	return "Error: Unable to fetch results. Status code: " + strconv.Itoa(e.StatusCode)
}

func (e *ErrorResult) Unwrap() error { return e.Err }

// Client calls the web search API.
type Client struct {
	http   *http.Client
	cfg    types.WebSearchConfig
	logger *slog.Logger
}

// NewClient builds a Client. A nil httpClient gets one with cfg.Timeout; a
// nil logger uses slog.Default().
func NewClient(cfg types.WebSearchConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if cfg.Count <= 0 {
		cfg.Count = defaultCount
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{http: httpClient, cfg: cfg, logger: logger}
}

// Search runs one query. Any failure, including a transport error, comes
// back as *ErrorResult.
func (c *Client) Search(ctx context.Context, query string) (Result, error) {
	params := url.Values{
		"q":     {query},
		"count": {strconv.Itoa(c.cfg.Count)},
	}
	header := http.Header{}
	header.Set("Accept", "application/json")
	header.Set("X-Subscription-Token", c.cfg.APIKey)
	if c.cfg.UserAgent != "" {
		header.Set("User-Agent", c.cfg.UserAgent)
	}

	body, err := httputil.Get(ctx, c.http, searchURL+"?"+params.Encode(), header)
	if err != nil {
		status := 0
		var se *httputil.StatusError
		if errors.As(err, &se) {
			status = se.StatusCode
		}
		c.logger.Warn("web search failed", "query", query, "status", status, "err", err)
		return Result{}, &ErrorResult{StatusCode: status, Err: err}
	}

	var resp braveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Warn("web search response unreadable", "query", query, "err", err)
		return Result{}, &ErrorResult{StatusCode: http.StatusOK, Err: fmt.Errorf("parsing response: %w", err)}
	}

	res := summarize(resp.Web.Results)
	c.logger.Debug("web search", "query", query, "results", len(res.URLs))
	return res, nil
}

// summarize renders one "Title/URL/Description" block per hit, joined by
// newlines, in upstream order.
func summarize(hits []braveResult) Result {
	blocks := make([]string, len(hits))
	urls := make([]string, len(hits))
	for i, h := range hits {
		blocks[i] = fmt.Sprintf("Title: %s\nURL: %s\nDescription: %s\n", h.Title, h.URL, h.Description)
		urls[i] = h.URL
	}
	return Result{Summary: strings.Join(blocks, "\n"), URLs: urls}
}

// Brave JSON structures.
type braveResponse struct {
	Web struct {
		Results []braveResult `json:"results"`
	} `json:"web"`
}

type braveResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}
