// Package crossref is a rate-limited client for the Crossref REST API,
// the primary bibliographic source.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/bibex/bibex/internal/reference"
)

const (
	// BaseURL is the Crossref REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is 2 requests per second, within the polite-pool guidance.
	RateLimit = 2.0

	// SourceName identifies this source in record provenance.
	SourceName = "crossref"
)

// Client is a rate-limited HTTP client for the Crossref REST API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithMailto sets the contact address sent in the User-Agent, which
// routes requests to the Crossref polite pool.
func WithMailto(mailto string) ClientOption {
	return func(c *Client) {
		c.mailto = mailto
	}
}

// NewClient creates a new Crossref REST API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if mailto := os.Getenv("BIBEX_MAILTO"); mailto != "" {
		c.mailto = mailto
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name implements the bibliographic source capability.
func (c *Client) Name() string { return SourceName }

// userAgent is the fixed client-identifying header Crossref asks for.
func (c *Client) userAgent() string {
	if c.mailto != "" {
		return fmt.Sprintf("bibex/1.0 (mailto:%s)", c.mailto)
	}
	return "bibex/1.0"
}

// get performs a rate-limited GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// Search runs a free-text bibliographic query and returns up to limit
// ranked candidates.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]reference.Candidate, error) {
	if limit <= 0 {
		limit = 5
	}

	q := url.Values{}
	q.Set("query.bibliographic", query)
	q.Set("rows", fmt.Sprintf("%d", limit))

	var envelope struct {
		Message struct {
			Items []Work `json:"items"`
		} `json:"message"`
	}
	if err := c.get(ctx, "/works", q, &envelope); err != nil {
		return nil, err
	}

	candidates := make([]reference.Candidate, 0, len(envelope.Message.Items))
	for _, w := range envelope.Message.Items {
		candidates = append(candidates, w.Candidate())
	}
	return candidates, nil
}

// LookupByIdentifier fetches the work registered under a DOI.
func (c *Client) LookupByIdentifier(ctx context.Context, doi string) (*reference.Candidate, error) {
	var envelope struct {
		Message Work `json:"message"`
	}
	if err := c.get(ctx, "/works/"+url.PathEscape(NormalizeDOI(doi)), nil, &envelope); err != nil {
		return nil, err
	}

	cand := envelope.Message.Candidate()
	if cand.Title == "" {
		return nil, ErrNotFound
	}
	return &cand, nil
}
