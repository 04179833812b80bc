package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// DefaultURL is the public, unauthenticated OpenRouter model listing.
const DefaultURL = "https://openrouter.ai/api/v1/models"

// Fetcher loads the full model list.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Model, error)
}

// FetchFunc adapts a function to Fetcher.
type FetchFunc func(ctx context.Context) ([]Model, error)

// Fetch calls f.
func (f FetchFunc) Fetch(ctx context.Context) ([]Model, error) { return f(ctx) }

var _ Fetcher = (*Client)(nil)

// Client fetches the catalog with a single GET. It sends no credentials.
type Client struct {
	URL    string       // Listing URL; DefaultURL when empty.
	Client *http.Client // HTTP client; a 30 second default when nil.
	Logger *slog.Logger // Optional.

	clientOnce    sync.Once
	defaultClient *http.Client
}

// NewClient returns a Client for url. An empty url selects DefaultURL.
func NewClient(url string, logger *slog.Logger) *Client {
	return &Client{URL: url, Logger: logger}
}

type listResponse struct {
	Data []Model `json:"data"`
}

// Fetch performs the GET and decodes the {"data": [...]} envelope.
func (c *Client) Fetch(ctx context.Context) ([]Model, error) {
	url := c.URL
	if url == "" {
		url = DefaultURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("catalog: fetch: status %d: %s", resp.StatusCode, body)
	}

	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	c.logger().InfoContext(ctx, "catalog fetched",
		"url", url,
		"models", len(out.Data),
		"duration", time.Since(start),
	)

	return out.Data, nil
}

func (c *Client) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}

	c.clientOnce.Do(func() {
		c.defaultClient = &http.Client{Timeout: 30 * time.Second}
	})

	return c.defaultClient
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return discard
}

var discard = slog.New(slog.DiscardHandler)
