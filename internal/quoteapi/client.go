// Package quoteapi is the client for the external quote-of-the-day provider.
//
// The endpoint is an opaque HTTP collaborator returning a JSON array whose
// first element carries the quote under "q" and the attribution under "a"
// (the ZenQuotes wire format). Missing fields fall back to fixed defaults
// rather than failing the fetch.
package quoteapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/daybook/internal/model"
)

// DefaultBaseURL is the production quote endpoint.
const DefaultBaseURL = "https://zenquotes.io/api/today"

// Timeout bounds a single fetch attempt; after this the attempt is treated
// as failed and the orchestrator's fallback logic applies.
const Timeout = 10 * time.Second

const (
	defaultText   = "Stay motivated!"
	defaultAuthor = "Unknown"
)

// Client fetches quotes over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the given endpoint; an empty baseURL means
// the production default.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: Timeout},
		logger:     logger,
	}
}

// quoteResponse is one element of the provider's JSON array.
type quoteResponse struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// FetchToday retrieves the current quote of the day. Timeouts, non-2xx
// statuses, and malformed bodies all return errors; the caller decides how
// to degrade.
func (c *Client) FetchToday(ctx context.Context) (*model.Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("quoteapi: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quoteapi: fetching quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("quoteapi: unexpected status %d from %s", resp.StatusCode, c.baseURL)
	}

	var quotes []quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("quoteapi: decoding response: %w", err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("quoteapi: empty response from %s", c.baseURL)
	}

	quote := &model.Quote{Text: quotes[0].Q, Author: quotes[0].A}
	if quote.Text == "" {
		quote.Text = defaultText
	}
	if quote.Author == "" {
		quote.Author = defaultAuthor
	}

	c.logger.Debug("fetched quote", slog.String("author", quote.Author))

	return quote, nil
}
