// Package alphavantage fetches quotes from the Alpha Vantage market data API.
//
// The API multiplexes every answer on a single /query endpoint. Failures are
// reported inside a 200 response: a "Note" or "Information" field when the
// rate limit is reached, an "Error Message" field for an invalid symbol.
// The absence of all known fields is itself an error.
package alphavantage

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the production endpoint of the quote API.
const DefaultBaseURL = "https://www.alphavantage.co"

// DefaultPace is the minimum delay between two consecutive API calls.
// The free tier allows 5 requests per minute, so 15s keeps a safe margin.
const DefaultPace = 15 * time.Second

// Error taxonomy, checkable with errors.Is.
var (
	// ErrTransport reports a non-success HTTP status.
	ErrTransport = errors.New("transport failure")
	// ErrRateLimited reports the provider's rate limit note.
	ErrRateLimited = errors.New("api rate limit reached")
	// ErrAPI reports an explicit error payload from the provider.
	ErrAPI = errors.New("api error")
	// ErrNoPrice reports an absent or non-numeric price field.
	ErrNoPrice = errors.New("no usable price in response")
	// ErrEmptySeries reports a historical response without any series.
	ErrEmptySeries = errors.New("no price series in response")
)

// Client queries the quote API. The zero value is not usable; use New.
type Client struct {
	key     string
	baseURL string
	httpc   *http.Client
	pace    time.Duration
	called  bool
}

// New returns a Client for the given API key, talking to the production
// endpoint through http.DefaultClient with the default pacing.
func New(key string) *Client {
	return &Client{key: key, baseURL: DefaultBaseURL, httpc: http.DefaultClient, pace: DefaultPace}
}

// WithHTTPClient sets the underlying HTTP client, for tests or caching transports.
func (c *Client) WithHTTPClient(httpc *http.Client) *Client {
	c.httpc = httpc
	return c
}

// WithBaseURL overrides the API endpoint.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// WithPace sets the fixed delay between consecutive calls. Zero disables pacing.
func (c *Client) WithPace(d time.Duration) *Client {
	c.pace = d
	return c
}

// throttle sleeps for the pacing delay between two consecutive calls.
// This is not a retry backoff: the delay applies unconditionally, whatever
// the outcome of the previous call, to respect the provider's rate limit.
func (c *Client) throttle() {
	if c.called && c.pace > 0 {
		time.Sleep(c.pace)
	}
	c.called = true
}

// apiFault returns the error reported inside a decoded 200 payload, if any.
func apiFault(jobj map[string]any) error {
	// The rate limit lives in a "Note" (legacy) or "Information" field.
	for _, field := range []string{"Note", "Information"} {
		if note, ok := jobj[field].(string); ok && note != "" {
			return fmt.Errorf("%w: %s", ErrRateLimited, note)
		}
	}
	if msg, ok := jobj["Error Message"].(string); ok && msg != "" {
		return fmt.Errorf("%w: %s", ErrAPI, msg)
	}
	return nil
}
