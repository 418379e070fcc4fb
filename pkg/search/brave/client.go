// Package brave provides a search.Provider implementation backed by the
// Brave Web Search API.
package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"sitefinder/pkg/search"
	"sitefinder/pkg/serrors"
)

const endpoint = "https://api.search.brave.com/res/v1/web/search"

// Client talks to the Brave Web Search REST API and fulfills the
// search.Provider interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs HTTP requests to the search API
	token      string       // token is the API subscription key
	count      int          // count is the number of results requested per query
}

// New constructs a Client that uses the provided http.Client and API token.
// count bounds how many results one query requests; zero means the API default.
func New(httpClient *http.Client, token string, count int) *Client {
	return &Client{
		httpClient: httpClient,
		token:      token,
		count:      count,
	}
}

// Name identifies this backend as a rate-limiter source and in logs.
func (c *Client) Name() string { return "brave" }

// Search runs one web query and returns the organic results in rank order.
func (c *Client) Search(ctx context.Context, query string) ([]search.Result, error) {
	// https://api-dashboard.search.brave.com/app/documentation/web-search/get-started
	params := url.Values{}
	params.Set("q", query)
	params.Set("country", "IT")
	params.Set("search_lang", "it")
	if c.count > 0 {
		params.Set("count", fmt.Sprintf("%d", c.count))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, serrors.With(serrors.ErrRateLimited, "rate limited: %s", strings.TrimSpace(string(b)))
	}
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized {
		return nil, serrors.With(serrors.ErrBlocked, "request refused: %s", strings.TrimSpace(string(b)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serrors.With(serrors.ErrUnavailable, "search failed: %s", strings.TrimSpace(string(b)))
	}

	// successful
	var searchResp struct {
		Web struct {
			Results []struct {
				URL         string `json:"url"`
				Title       string `json:"title"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.Unmarshal(b, &searchResp); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}

	out := make([]search.Result, 0, len(searchResp.Web.Results))
	for _, r := range searchResp.Web.Results {
		if r.URL == "" {
			continue
		}
		out = append(out, search.Result{
			URL:     r.URL,
			Title:   r.Title,
			Snippet: r.Description,
		})
	}

	return out, nil
}

// Ensure Client conforms to the search.Provider interface at compile time.
var _ search.Provider = (*Client)(nil)
