// Package advice fetches a random piece of advice for the bot's help command.
package advice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultURL = "https://api.adviceslip.com/advice"
	Timeout    = 10 * time.Second
)

// ErrNoAdvice is returned when the endpoint answers without an advice text
var ErrNoAdvice = errors.New("no advice in response")

// Client is a client for the advice slip endpoint
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates an advice client; an empty url selects DefaultURL
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: Timeout,
		},
	}
}

type slipResponse struct {
	Slip struct {
		Advice string `json:"advice"`
	} `json:"slip"`
}

// Random returns the advice text served by the endpoint
func (c *Client) Random(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching advice: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result slipResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding advice: %w", err)
	}

	text := strings.TrimSpace(result.Slip.Advice)
	if text == "" {
		return "", ErrNoAdvice
	}
	return text, nil
}
