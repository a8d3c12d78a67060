package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/camp-sessions/internal/session"
)

// LabelLayout is the layout time-slot labels are expected to follow
const LabelLayout = "15:04"

// minTitleLength is the shortest title SessionsIn reports; shorter ones are noise
const minTitleLength = 4

// ErrBadLabel is returned when a time-slot label is not HH:MM
var ErrBadLabel = errors.New("malformed time-slot label")

// TitleRoom is one row of SessionsAt
type TitleRoom struct {
	Title string `json:"title"`
	Room  string `json:"room"`
}

// TimeTitle is one row of SessionsIn
type TimeTitle struct {
	Time  string `json:"time"`
	Title string `json:"title"`
}

// NowNext is the result of NowAndNext. Empty Current or Next means absent.
type NowNext struct {
	Current string `json:"current,omitempty"`
	Next    string `json:"next,omitempty"`
	// Now is the wall-clock label the others were resolved against
	Now string `json:"now"`
}

// HasCurrent reports whether a slot has started at or before Now
func (n NowNext) HasCurrent() bool { return n.Current != "" }

// HasNext reports whether a slot starts after Now
func (n NowNext) HasNext() bool { return n.Next != "" }

// SessionsAt lists the sessions of one time slot.
// An unknown label yields an empty list.
func (s *Store) SessionsAt(label string) []TitleRoom {
	sessions := s.Plan().ByTime[label]
	rows := make([]TitleRoom, 0, len(sessions))
	for _, sess := range sessions {
		if sess == nil {
			continue
		}
		rows = append(rows, TitleRoom{Title: sess.Title, Room: sess.Room})
	}
	return rows
}

// SessionsIn lists the sessions held in room, ordered by time-slot label.
// Titles of three characters or fewer are placeholders and are skipped.
func (s *Store) SessionsIn(room string) []TimeTitle {
	plan := s.Plan()
	rows := make([]TimeTitle, 0)
	for _, label := range sortedLabels(plan) {
		for _, sess := range plan.ByTime[label] {
			if sess == nil || sess.Room != room {
				continue
			}
			if utf8.RuneCountInString(sess.Title) < minTitleLength {
				continue
			}
			rows = append(rows, TimeTitle{Time: label, Title: sess.Title})
		}
	}
	return rows
}

// TimeSlots returns every time-slot label of the snapshot, sorted
func (s *Store) TimeSlots() []string {
	return sortedLabels(s.Plan())
}

// Rooms returns the sorted, distinct rooms of the sessions in the snapshot.
// Placeholder rooms and sessions without a room are left out.
func (s *Store) Rooms() []string {
	seen := make(map[string]bool)
	rooms := make([]string, 0)
	for _, sessions := range s.Plan().ByTime {
		for _, sess := range sessions {
			if sess == nil || sess.Room == "" || seen[sess.Room] {
				continue
			}
			if session.IsPlaceholderRoom(sess.Room) {
				continue
			}
			seen[sess.Room] = true
			rooms = append(rooms, sess.Room)
		}
	}
	sort.Strings(rooms)
	return rooms
}

// HasRoom reports whether name is one of the page's room headings or a session room
func (s *Store) HasRoom(name string) bool {
	for _, room := range s.Plan().Rooms {
		if room == name {
			return true
		}
	}
	for _, room := range s.Rooms() {
		if room == name {
			return true
		}
	}
	return false
}

// NowAndNext resolves the slot running now and the slot starting next.
//
// Current is the latest label at or before the wall clock, Next the earliest label
// after it. Every label must parse as HH:MM; a malformed one fails the whole call with
// an error wrapping ErrBadLabel. Now is always set.
func (s *Store) NowAndNext() (NowNext, error) {
	result := NowNext{Now: s.now().Format(LabelLayout)}
	now, err := time.Parse(LabelLayout, result.Now)
	if err != nil {
		return result, fmt.Errorf("parsing wall clock %q: %w", result.Now, err)
	}

	var current, next time.Time
	for _, label := range s.TimeSlots() {
		t, err := time.Parse(LabelLayout, label)
		if err != nil {
			return NowNext{Now: result.Now}, fmt.Errorf("%w: %q", ErrBadLabel, label)
		}

		if !t.After(now) {
			if result.Current == "" || t.After(current) {
				result.Current, current = label, t
			}
			continue
		}
		if result.Next == "" || t.Before(next) {
			result.Next, next = label, t
		}
	}
	return result, nil
}

func sortedLabels(plan *session.Plan) []string {
	labels := make([]string, 0, len(plan.ByTime))
	for label := range plan.ByTime {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
