// Package news retrieves raw articles from headline providers and merges
// per-region result sets into category batches, tolerating partial failures.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://newsapi.org/v2"

// providerTimeLayout is the provider's published-at format: ISO-8601 UTC
// with second precision.
const providerTimeLayout = "2006-01-02T15:04:05Z"

// Client is a thin HTTP client for the headline/search provider.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a Client with a 30-second timeout HTTP client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithBaseURL creates a Client pointed at a custom base URL.
// Used by tests to target an httptest server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// Response is the provider's envelope for both endpoints.
type Response struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Articles     []RawArticle `json:"articles"`
}

// RawArticle is a single article as returned by the provider.
type RawArticle struct {
	Source      RawSource `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt string    `json:"publishedAt"`
	Content     string    `json:"content"`
}

// RawSource identifies the publisher. ID may be empty; Name is always set.
type RawSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HeadlinesParams are the query parameters for TopHeadlines.
type HeadlinesParams struct {
	Category string
	Country  string
	Query    string
	PageSize int
}

// SearchParams are the query parameters for Search.
type SearchParams struct {
	Query    string
	Language string
	SortBy   string
	PageSize int
}

// TopHeadlines fetches the provider's top-headlines endpoint for one
// category/country combination.
func (c *Client) TopHeadlines(ctx context.Context, p HeadlinesParams) (*Response, error) {
	q := url.Values{}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if p.Country != "" {
		q.Set("country", p.Country)
	}
	if p.Query != "" {
		q.Set("q", p.Query)
	}
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}

	return c.get(ctx, "/top-headlines", q)
}

// Search fetches the provider's everything endpoint for a free-text query.
func (c *Client) Search(ctx context.Context, p SearchParams) (*Response, error) {
	q := url.Values{}
	q.Set("q", p.Query)
	language := p.Language
	if language == "" {
		language = "en"
	}
	q.Set("language", language)
	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = "publishedAt"
	}
	q.Set("sortBy", sortBy)
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}

	return c.get(ctx, "/everything", q)
}

// get performs a provider request and decodes the response envelope.
func (c *Client) get(ctx context.Context, path string, q url.Values) (*Response, error) {
	q.Set("apiKey", c.apiKey)
	reqURL := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if out.Status != "ok" {
		return nil, fmt.Errorf("provider error: %s", out.Status)
	}

	return &out, nil
}
