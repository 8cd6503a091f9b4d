package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultURL = "https://ipapi.co/json/"

// Client resolves the caller's country via IP geolocation. The result
// only seeds the initial display currency, so callers treat failures as
// non-critical.
type Client struct {
	url    string
	client *http.Client
}

func New() *Client {
	return &Client{
		url:    defaultURL,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// NewWithURL points the client at a custom endpoint (for tests).
func NewWithURL(url string) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

type lookupResponse struct {
	CountryCode string `json:"country_code"`
}

// CountryCode returns the two-letter country code for the caller's IP.
func (c *Client) CountryCode(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("creating geolocation request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s returned status %d", c.url, resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding geolocation response: %w", err)
	}

	return body.CountryCode, nil
}
