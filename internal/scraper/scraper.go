package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/pfrederiksen/camp-sessions/internal/session"
)

const (
	UserAgent = "camp-sessions/1.0 (github.com/pfrederiksen/camp-sessions)"
	Timeout   = 30 * time.Second
)

// Marker selectors of the session table, in the order they appear on the page
var (
	selTable    = cascadia.MustCompile(`[class*="sessiontable-cols-"]`)
	selTimeslot = cascadia.MustCompile("div.timeslot.cell")
	selSlot     = cascadia.MustCompile(`div[class^="sessionslot"]`)
	selActions  = cascadia.MustCompile("div.sessiontable-actions")
	selRoom     = cascadia.MustCompile("h3")
	selTitle    = cascadia.MustCompile("h5")
	selDesc     = cascadia.MustCompile("div.description")
	selRoomDesc = cascadia.MustCompile("div.room-description")
)

var (
	// ErrNoSessionTable is returned when the page has no session table marker
	ErrNoSessionTable = errors.New("session table not found")
	// ErrTruncated is returned when the document ends before the table is complete
	ErrTruncated = errors.New("session table truncated")
)

// Scraper handles fetching and parsing session plan pages
type Scraper struct {
	client    *http.Client
	userAgent string
}

// Option configures a Scraper
type Option func(*Scraper)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) {
		s.client = c
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchPlan fetches and parses the session plan at url
func (s *Scraper) FetchPlan(ctx context.Context, url string) (*session.Plan, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return Parse(resp.Body)
}

type phase int

const (
	phaseSeekTable phase = iota
	phaseRooms
	phaseSlots
	phaseDone
)

// Parse extracts rooms and sessions from a session plan page.
//
// Elements are visited in document order. Headings before the first timeslot cell are
// room names; afterwards each heading starts a new time slot and every session slot up
// to the table actions belongs to the most recent one.
func Parse(r io.Reader) (*session.Plan, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	plan := session.NewPlan()
	state := phaseSeekTable
	label := ""

	doc.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		switch state {
		case phaseSeekTable:
			if sel.IsMatcher(selTable) {
				state = phaseRooms
			}

		case phaseRooms:
			if sel.IsMatcher(selTimeslot) {
				state = phaseSlots
				return true
			}
			if sel.IsMatcher(selRoom) {
				plan.Rooms = append(plan.Rooms, strings.TrimSpace(sel.Text()))
			}

		case phaseSlots:
			switch {
			case sel.IsMatcher(selActions):
				state = phaseDone
				return false
			case sel.IsMatcher(selRoom):
				if text := strings.TrimSpace(sel.Text()); text != "" {
					label = text
					if _, ok := plan.ByTime[label]; !ok {
						plan.ByTime[label] = []*session.Session{}
					}
				}
			case sel.IsMatcher(selSlot) && label != "":
				if s := parseSlot(sel); s != nil {
					plan.ByTime[label] = append(plan.ByTime[label], s)
				}
			}
		}
		return true
	})

	switch state {
	case phaseSeekTable:
		return nil, ErrNoSessionTable
	case phaseRooms:
		return nil, fmt.Errorf("%w: no timeslot cell after %d rooms", ErrTruncated, len(plan.Rooms))
	case phaseSlots:
		return nil, fmt.Errorf("%w: no table actions after %d slots", ErrTruncated, len(plan.ByTime))
	}

	return plan, nil
}

// parseSlot builds a session from one session slot block.
// Blocks without a title and sessions in placeholder rooms yield nil.
func parseSlot(block *goquery.Selection) *session.Session {
	title := strings.TrimSpace(ownText(block, selTitle))
	if title == "" {
		return nil
	}

	description := ownText(block, selDesc)
	room := ownText(block, selRoomDesc)

	s := session.New(title, description, room)
	if session.IsPlaceholderRoom(s.Room) {
		return nil
	}
	return s
}

// ownText returns the text of the first element matching m inside block that is not
// part of a nested session slot. A block ends where the next slot marker begins.
func ownText(block *goquery.Selection, m goquery.Matcher) string {
	nested := block.FindMatcher(selSlot).FindMatcher(m)
	return block.FindMatcher(m).NotSelection(nested).First().Text()
}
