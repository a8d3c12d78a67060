package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pfrederiksen/camp-sessions/internal/logger"
	"github.com/pfrederiksen/camp-sessions/internal/session"
	"github.com/pfrederiksen/camp-sessions/internal/telemetry"
)

const Timeout = 10 * time.Second

// Entry is one room's credential as served by the endpoint
type Entry struct {
	Room       string `json:"room"`
	URL        string `json:"url"`
	AccessCode string `json:"access_code"`
}

// UnmarshalJSON accepts a positional [room, url, code] triple or an object
func (e *Entry) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err == nil {
		return e.fromTriple(fields)
	}

	type plain Entry
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decoding credential entry: %w", err)
	}
	*e = Entry(obj)
	return nil
}

func (e *Entry) fromTriple(fields []json.RawMessage) error {
	if len(fields) < 3 {
		return fmt.Errorf("credential entry has %d fields, want 3", len(fields))
	}
	values := make([]string, 3)
	for i := range values {
		var v interface{}
		if err := json.Unmarshal(fields[i], &v); err != nil {
			return fmt.Errorf("decoding credential field %d: %w", i, err)
		}
		switch t := v.(type) {
		case string:
			values[i] = t
		case nil:
		case float64, bool:
			// access codes are sometimes served as numbers
			values[i] = fmt.Sprint(t)
		default:
			return fmt.Errorf("credential field %d is not a scalar", i)
		}
	}
	e.Room, e.URL, e.AccessCode = values[0], values[1], values[2]
	return nil
}

// Document is the credentials endpoint payload
type Document struct {
	Rooms []Entry `json:"rooms"`
}

// UnmarshalJSON flattens the rooms collection, which some endpoints nest one or more
// levels deeper than a plain list of triples.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Rooms json.RawMessage `json:"rooms"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding credentials document: %w", err)
	}
	d.Rooms = nil
	if len(raw.Rooms) == 0 || string(raw.Rooms) == "null" {
		return nil
	}
	return d.collect(raw.Rooms)
}

func (d *Document) collect(data json.RawMessage) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return err
		}
		d.Rooms = append(d.Rooms, e)
		return nil
	}
	if isEntry(items) {
		var e Entry
		if err := e.fromTriple(items); err != nil {
			return err
		}
		d.Rooms = append(d.Rooms, e)
		return nil
	}
	for _, item := range items {
		if err := d.collect(item); err != nil {
			return err
		}
	}
	return nil
}

// isEntry reports whether items is a triple of scalars rather than a list of entries
func isEntry(items []json.RawMessage) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		trimmed := strings.TrimSpace(string(item))
		if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
			return false
		}
	}
	return true
}

// Build merges entries into a credential map keyed by upper-cased room name.
// Later entries for the same room overwrite earlier ones.
func Build(entries []Entry) session.Credentials {
	creds := make(session.Credentials, len(entries))
	for _, e := range entries {
		if e.Room == "" {
			continue
		}
		creds.Set(e.Room, session.Credential{URL: e.URL, AccessCode: e.AccessCode})
	}
	return creds
}

// Client fetches the credentials endpoint
type Client struct {
	url        string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a credentials client for the endpoint url
func NewClient(url string) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: Timeout,
		},
		log: logger.Default().With(logger.Fields{"component": "credentials"}),
	}
}

// Fetch downloads the endpoint and builds the credential map
func (c *Client) Fetch(ctx context.Context) (session.Credentials, error) {
	if c.url == "" {
		return nil, errors.New("credentials URL is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching credentials: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding credentials: %w", err)
	}

	return Build(doc.Rooms), nil
}

// Load is Fetch with failures absorbed: errors are logged and yield an empty map
func (c *Client) Load(ctx context.Context) session.Credentials {
	creds, err := c.Fetch(ctx)
	if err != nil {
		c.log.Warn("Credentials unavailable, sessions will lack conferencing links", logger.Fields{
			"url":   c.url,
			"error": err.Error(),
		})
		telemetry.CredentialFetchFailed()
		return session.Credentials{}
	}

	c.log.Debug("Credentials loaded", logger.Fields{"rooms": len(creds)})
	telemetry.SetCredentialRooms(len(creds))
	return creds
}
