// Package calendar exports a day's session plan as iCalendar.
package calendar

import (
	"crypto/sha1" // #nosec G505 -- used for stable event UIDs, not security
	"encoding/hex"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/pfrederiksen/camp-sessions/internal/schedule"
	"github.com/pfrederiksen/camp-sessions/internal/session"
)

// ProductID identifies the generator in the PRODID property
const ProductID = "-//camp-sessions//camp-sessions//DE"

// lastSlotLength is the duration given to sessions of the final slot
const lastSlotLength = time.Hour

type slot struct {
	label string
	start time.Time
}

// Generate renders every session of plan as a VEVENT on day.
// A session runs from its slot label until the next label; sessions of the last slot run
// one hour. Labels that are not HH:MM are left out.
func Generate(plan *session.Plan, day time.Time, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)

	slots := daySlots(plan, day, loc)
	stamp := time.Now().UTC()

	for i, sl := range slots {
		end := sl.start.Add(lastSlotLength)
		if i+1 < len(slots) {
			end = slots[i+1].start
		}

		for _, sess := range plan.ByTime[sl.label] {
			if sess == nil {
				continue
			}
			event := cal.AddEvent(EventUID(sl.label, sess))
			event.SetDtStampTime(stamp)
			event.SetStartAt(sl.start)
			event.SetEndAt(end)
			event.SetSummary(sess.Title)
			if sess.Room != "" {
				event.SetLocation(sess.Room)
			}
			if desc := description(sess); desc != "" {
				event.SetDescription(desc)
			}
			if sess.ConferenceURL != "" {
				event.SetURL(sess.ConferenceURL)
			}
		}
	}

	var b strings.Builder
	if err := cal.SerializeTo(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// EventUID derives a stable UID from the slot label, room and title
func EventUID(label string, sess *session.Session) string {
	sum := sha1.Sum([]byte(label + "|" + sess.Room + "|" + sess.Title)) // #nosec G401
	return hex.EncodeToString(sum[:]) + "@camp-sessions"
}

// daySlots resolves the plan's labels to times on day, sorted ascending
func daySlots(plan *session.Plan, day time.Time, loc *time.Location) []slot {
	if plan.IsEmpty() {
		return nil
	}

	y, m, d := day.In(loc).Date()
	slots := make([]slot, 0, len(plan.ByTime))
	for label := range plan.ByTime {
		t, err := time.Parse(schedule.LabelLayout, strings.TrimSpace(label))
		if err != nil {
			continue
		}
		slots = append(slots, slot{
			label: label,
			start: time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc),
		})
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].start.Before(slots[j].start)
	})
	return slots
}

func description(sess *session.Session) string {
	parts := make([]string, 0, 3)
	if sess.Description != "" {
		parts = append(parts, sess.Description)
	}
	if sess.ConferenceURL != "" {
		parts = append(parts, "Url: "+sess.ConferenceURL)
	}
	if sess.AccessCode != "" {
		parts = append(parts, "Code: "+sess.AccessCode)
	}
	return strings.Join(parts, "\n")
}
