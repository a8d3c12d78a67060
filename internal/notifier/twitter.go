package notifier

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/pfrederiksen/camp-sessions/internal/config"
	"github.com/pfrederiksen/camp-sessions/internal/logger"
)

// ErrMissingCredentials is returned when any Twitter key is unset
var ErrMissingCredentials = errors.New("missing required Twitter credentials")

// TwitterNotifier posts sessions to Twitter
type TwitterNotifier struct {
	client *twitter.Client
	delay  time.Duration
}

// NewTwitterNotifier creates a Twitter notifier from the environment secrets
func NewTwitterNotifier(secrets config.Secrets) (*TwitterNotifier, error) {
	if !secrets.HasTwitter() {
		return nil, ErrMissingCredentials
	}

	cfg := oauth1.NewConfig(secrets.TwitterAPIKey, secrets.TwitterAPISecret)
	token := oauth1.NewToken(secrets.TwitterAccessToken, secrets.TwitterAccessSecret)
	return NewTwitterNotifierWithClient(cfg.Client(oauth1.NoContext, token)), nil
}

// NewTwitterNotifierWithClient creates a notifier on an already authorized HTTP client
func NewTwitterNotifierWithClient(httpClient *http.Client) *TwitterNotifier {
	return &TwitterNotifier{
		client: twitter.NewClient(httpClient),
		delay:  2 * time.Second,
	}
}

// Notify posts one tweet per session
func (n *TwitterNotifier) Notify(a Announcement) error {
	for i, row := range a.Sessions {
		tweet := formatTweet(a.Label, row)

		if _, _, err := n.client.Statuses.Update(tweet, nil); err != nil {
			return fmt.Errorf("failed to post tweet for %q: %w", row.Title, err)
		}
		logger.Info("Posted announcement", logger.Fields{"slot": a.Label, "room": row.Room})

		// Rate limiting: wait between tweets
		if i < len(a.Sessions)-1 && n.delay > 0 {
			time.Sleep(n.delay)
		}
	}

	return nil
}
