// Package s2 is a rate-limited client for the Semantic Scholar Graph
// API, the secondary bibliographic source.
package s2

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
	// BaseURL is the Graph API base URL.
	BaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is 1 request per second, the unauthenticated allowance.
	RateLimit = 1.0

	// SourceName identifies this source in record provenance.
	SourceName = "semanticscholar"

	// searchFields are the paper fields requested on every search.
	searchFields = "title,authors,year,venue,journal,externalIds"
)

// Client is a rate-limited HTTP client for the Semantic Scholar Graph API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

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

// NewClient creates a new Graph API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if key := os.Getenv("S2_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name implements the bibliographic source capability.
func (c *Client) Name() string { return SourceName }

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
	req.Header.Set("User-Agent", "bibex/1.0")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

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

// Search runs a free-text paper search and returns up to limit candidates.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]reference.Candidate, error) {
	if limit <= 0 {
		limit = 1
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("fields", searchFields)

	var envelope struct {
		Data []Paper `json:"data"`
	}
	if err := c.get(ctx, "/paper/search", q, &envelope); err != nil {
		return nil, err
	}

	candidates := make([]reference.Candidate, 0, len(envelope.Data))
	for _, p := range envelope.Data {
		candidates = append(candidates, p.Candidate())
	}
	return candidates, nil
}

// LookupByIdentifier fetches a paper by DOI.
func (c *Client) LookupByIdentifier(ctx context.Context, doi string) (*reference.Candidate, error) {
	q := url.Values{}
	q.Set("fields", searchFields)

	var paper Paper
	if err := c.get(ctx, "/paper/DOI:"+url.PathEscape(doi), q, &paper); err != nil {
		return nil, err
	}

	if paper.Title == "" {
		return nil, ErrNotFound
	}
	cand := paper.Candidate()
	return &cand, nil
}
