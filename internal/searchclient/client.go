// Package searchclient is a minimal client for the Globus Search API,
// covering the one operation this program needs: a free-text query against a
// named index.
package searchclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the public search service endpoint.
	DefaultBaseURL = "https://search.api.globus.org"

	// ResourceServer is the name the identity provider issues search
	// tokens under.
	ResourceServer = "search.api.globus.org"
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the service base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTransport sets a custom base transport underneath the authorizing
// transport. If not provided, http.DefaultTransport is used.
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.base = transport
	}
}

// Client performs authorized requests against the search service. Requests
// are signed by the token source passed to New, so callers never handle
// access tokens directly.
type Client struct {
	baseURL    string
	base       http.RoundTripper
	httpClient *http.Client
}

// New creates a Client whose requests carry tokens from the given source.
func New(tokenSource oauth2.TokenSource, opts ...ClientOption) (*Client, error) {
	if tokenSource == nil {
		return nil, fmt.Errorf("missing token source")
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		base:    http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &oauth2.Transport{
			Source: tokenSource,
			Base:   c.base,
		},
	}

	return c, nil
}

// Search runs a free-text query against the given index and returns the raw
// response document.
func (c *Client) Search(ctx context.Context, indexID, query string) (json.RawMessage, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	u = u.JoinPath("v1", "index", indexID, "search")

	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying index %s: %w", indexID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("search response is not valid JSON")
	}

	return json.RawMessage(body), nil
}

// APIError is a non-200 response from the search service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("search service returned %d: %s", e.StatusCode, e.Body)
}
