package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"merchlist/internal/model"
	"merchlist/internal/transport"
)

const (
	searchPath = "/task/products/search"
	userAgent  = "merchlist/1.0"
)

// Client is the HTTP client for the hosted product search API.
// Authentication is a static x-api-key header. The API sits behind a
// CDN that rate-limits unfamiliar TLS fingerprints, so the client uses
// the Chrome fingerprint transport.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Config holds catalog client configuration.
type Config struct {
	BaseURL string
	APIKey  string
}

// NewClient creates a catalog search client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("catalog base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("catalog API key is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid catalog base URL: %w", err)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport.NewChromeTransport(30 * time.Second),
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}, nil
}

// Search implements Searcher against the remote API.
// GET {base}/task/products/search?search={q}&page={n}&limit=10
func (c *Client) Search(ctx context.Context, query string, page int) ([]model.Product, error) {
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("search", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(PageSize))

	req, err := c.newRequest(ctx, searchPath+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}

	var resp []apiProduct
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	return toProducts(resp), nil
}

// newRequest creates a GET request with API key authentication.
func (c *Client) newRequest(ctx context.Context, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("x-api-key", c.apiKey)

	return req, nil
}

// do executes the request and decodes the response.
func (c *Client) do(req *http.Request, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewUpstreamError("catalog", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return model.NewUnauthorizedError("catalog API key rejected")
	case resp.StatusCode == http.StatusTooManyRequests:
		return model.NewRateLimitError("catalog")
	case resp.StatusCode >= 400:
		return model.NewUpstreamError("catalog",
			fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200)))
	}

	// The API returns a JSON null for an empty page; leave result at
	// its zero value in that case.
	if len(body) == 0 || string(body) == "null" {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return model.NewUpstreamError("catalog", fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// Verify Client implements Searcher at compile time.
var _ Searcher = (*Client)(nil)
