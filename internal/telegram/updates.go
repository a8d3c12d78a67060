package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// User represents a Telegram user
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Chat represents a Telegram chat
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// Message represents a Telegram message
type Message struct {
	MessageID int    `json:"message_id"`
	From      User   `json:"from"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date,omitempty"`
	Text      string `json:"text,omitempty"`
}

// CallbackQuery represents an incoming callback query from a button press
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data"`
}

// Update is one entry of getUpdates
type Update struct {
	UpdateID      int            `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// ChatIDString formats a chat ID the way the client expects it
func (c Chat) ChatIDString() string {
	return strconv.FormatInt(c.ID, 10)
}

// GetUpdates long-polls for updates after offset. timeoutSeconds of 0 returns immediately.
// Cancelling ctx aborts a poll in flight.
func GetUpdates(ctx context.Context, botToken string, offset int, timeoutSeconds int) ([]Update, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	params := url.Values{}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	if timeoutSeconds > 0 {
		params.Set("timeout", strconv.Itoa(timeoutSeconds))
	}

	endpoint := fmt.Sprintf("%s%s/getUpdates", apiBaseURL, botToken)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	// Add extra time to HTTP client timeout to account for Telegram's long polling
	clientTimeout := time.Duration(timeoutSeconds+10) * time.Second
	if clientTimeout < 15*time.Second {
		clientTimeout = 15 * time.Second
	}

	client := &Client{botToken: botToken, httpClient: &http.Client{Timeout: clientTimeout}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	raw, err := client.do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching updates: %w", err)
	}

	var updates []Update
	if err := json.Unmarshal(raw, &updates); err != nil {
		return nil, fmt.Errorf("decoding updates: %w", err)
	}
	return updates, nil
}
