// Package shop is the read-only client for the shop's system-of-record API.
package shop

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// Config carries the connection settings for the shop API.
type Config struct {
	BaseURL string
	// Token is sent as a bearer token when non-empty.
	Token string
	// SalesKey names the envelope key some deployments wrap the sales list
	// in. "results" is always tried as a fallback.
	SalesKey string
	Timeout  time.Duration
}

// Client wraps interactions with the shop API.
type Client struct {
	baseURL    string
	token      string
	salesKey   string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		token:    cfg.Token,
		salesKey: cfg.SalesKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ping checks if the shop API is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "/health")
	return err
}

// Sales lists completed transactions. The payload may be a bare array or a
// paginated envelope; unexpected shapes degrade to an empty list.
func (c *Client) Sales(ctx context.Context) ([]SaleRecord, error) {
	body, err := c.get(ctx, "/sales")
	if err != nil {
		return nil, err
	}
	return decodeEnvelope[SaleRecord](body, c.salesKey), nil
}

// Projects lists units of work.
func (c *Client) Projects(ctx context.Context) ([]ProjectRecord, error) {
	body, err := c.get(ctx, "/projects")
	if err != nil {
		return nil, err
	}
	return decodeRecords[ProjectRecord](body, "projects")
}

// Customers lists buyer relationships.
func (c *Client) Customers(ctx context.Context) ([]CustomerRecord, error) {
	body, err := c.get(ctx, "/customers")
	if err != nil {
		return nil, err
	}
	return decodeRecords[CustomerRecord](body, "customers")
}

// Inventory lists stocked items.
func (c *Client) Inventory(ctx context.Context) ([]InventoryItemRecord, error) {
	body, err := c.get(ctx, "/inventory")
	if err != nil {
		return nil, err
	}
	return decodeRecords[InventoryItemRecord](body, "inventory")
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s%s", c.baseURL, path), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("shop: %s returned status %d", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
