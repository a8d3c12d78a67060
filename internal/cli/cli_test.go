package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/camp-sessions/internal/camp"
	"github.com/pfrederiksen/camp-sessions/internal/config"
	"github.com/pfrederiksen/camp-sessions/internal/logger"
	"github.com/pfrederiksen/camp-sessions/internal/notifier"
	"github.com/pfrederiksen/camp-sessions/internal/schedule"
	"github.com/pfrederiksen/camp-sessions/internal/session"
)

type planFetcher struct {
	plan *session.Plan
	err  error
}

func (f planFetcher) FetchPlan(context.Context, string) (*session.Plan, error) {
	return f.plan, f.err
}

type recordingNotifier struct {
	got []notifier.Announcement
}

func (r *recordingNotifier) Notify(a notifier.Announcement) error {
	r.got = append(r.got, a)
	return nil
}

func testPlan() *session.Plan {
	plan := session.NewPlan()
	plan.Rooms = []string{"Plenum", "A1"}
	plan.ByTime["08:00"] = []*session.Session{
		session.New("Intro to Testing", "", "Plenum"),
		session.New("Typing", "", "Room: A1"),
	}
	plan.ByTime["10:00"] = []*session.Session{
		session.New("Async all the things", "", "A1"),
	}
	return plan
}

// newTestApp returns an app whose camp is served by f with the clock fixed at hh:mm
func newTestApp(t *testing.T, f schedule.Fetcher, hhmm string) (*app, *recordingNotifier) {
	t.Helper()
	clock, err := time.ParseInLocation("2006-01-02 15:04", "2026-04-25 "+hhmm, time.Local)
	if err != nil {
		t.Fatal(err)
	}

	rec := &recordingNotifier{}
	a := &app{
		newCamp: func(cfg *config.Config) *camp.Camp {
			store := schedule.New(f, schedule.StaticSource("plan"),
				schedule.WithClock(func() time.Time { return clock }),
				schedule.WithLogger(logger.New(logger.LevelError, io.Discard)),
			)
			return camp.New(store, nil)
		},
		newNotifier: func(_ config.Secrets, out io.Writer, dryRun bool) (notifier.Notifier, error) {
			if dryRun {
				return notifier.NewDryRunNotifier(out), nil
			}
			return rec, nil
		},
	}
	t.Cleanup(func() { logger.SetDefault(logger.New(logger.LevelInfo, os.Stderr)) })
	return a, rec
}

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAtCommand(t *testing.T) {
	a, _ := newTestApp(t, planFetcher{plan: testPlan()}, "09:00")

	out, err := run(t, a, "at", "08:00")
	if err != nil {
		t.Fatalf("at: %v", err)
	}
	for _, want := range []string{"Sessions at 08:00", "Intro to Testing", "Typing"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAtCommand_JSON(t *testing.T) {
	a, _ := newTestApp(t, planFetcher{plan: testPlan()}, "09:00")

	out, err := run(t, a, "--format", "json", "at", "10:00")
	if err != nil {
		t.Fatalf("at: %v", err)
	}

	var res SlotResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	want := []schedule.TitleRoom{{Title: "Async all the things", Room: "A1"}}
	if res.Label != "10:00" || len(res.Sessions) != 1 || res.Sessions[0] != want[0] {
		t.Errorf("result = %+v", res)
	}
}

func TestAtCommand_UnknownLabel(t *testing.T) {
	a, _ := newTestApp(t, planFetcher{plan: testPlan()}, "09:00")

	out, err := run(t, a, "at", "23:00")
	if err != nil {
		t.Fatalf("at: %v", err)
	}
	if !strings.Contains(out, "(none planned)") {
		t.Errorf("output = %q", out)
	}
}

func TestRoomCommand(t *testing.T) {
	a, _ := newTestApp(t, planFetcher{plan: testPlan()}, "09:00")

	out, err := run(t, a, "room", "A1")
	if err != nil {
		t.Fatalf("room: %v", err)
	}
	for _, want := range []string{"Sessions in A1", "08:00", "Typing", "10:00", "Async all the things"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "URL:") {
		t.Error("no credentials were loaded, URL line should be absent")
	}
}

func TestListCommands(t *testing.T) {
	a, _ := newTestApp(t, planFetcher{plan: testPlan()}, "09:00")

	out, err := run(t, a, "times")
	if err != nil {
		t.Fatalf("times: %v", err)
	}
	if out != "08:00\n10:00\n" {
		t.Errorf("times = %q", out)
	}

	out, err = run(t, a, "rooms")
	if err != nil {
		t.Fatalf("rooms: %v", err)
	}
	if out != "A1\nPlenum\n" {
		t.Errorf("rooms = %q", out)
	}
}

func TestNowAndNextCommands(t *testing.T) {
	a, _ := newTestApp(t, planFetcher{plan: testPlan()}, "09:15")

	out, err := run(t, a, "now")
	if err != nil {
		t.Fatalf("now: %v", err)
	}
	if !strings.Contains(out, "It is 09:15") || !strings.Contains(out, "Sessions at 08:00") {
		t.Errorf("now = %q", out)
	}

	out, err = run(t, a, "next")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !strings.Contains(out, "Sessions at 10:00") || !strings.Contains(out, "Async all the things") {
		t.Errorf("next = %q", out)
	}
}

func TestNextCommand_FallsBackToWallClock(t *testing.T) {
	a, _ := newTestApp(t, planFetcher{plan: testPlan()}, "11:00")

	out, err := run(t, a, "next")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !strings.Contains(out, "Sessions at 11:00") || !strings.Contains(out, "(none planned)") {
		t.Errorf("next = %q", out)
	}
}

func TestFetchFailure(t *testing.T) {
	a, _ := newTestApp(t, planFetcher{err: errors.New("boom")}, "09:00")

	if _, err := run(t, a, "times"); err == nil {
		t.Error("expected error when the plan cannot be fetched")
	}
}

func TestInvalidFormat(t *testing.T) {
	a, _ := newTestApp(t, planFetcher{plan: testPlan()}, "09:00")

	if _, err := run(t, a, "--format", "xml", "times"); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestExportCommand(t *testing.T) {
	a, _ := newTestApp(t, planFetcher{plan: testPlan()}, "09:00")

	out, err := run(t, a, "export", "--day", "2026-04-25")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.Count(out, "BEGIN:VEVENT") != 3 {
		t.Errorf("expected 3 events:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "plan.ics")
	if _, err := run(t, a, "export", "--output", path); err != nil {
		t.Fatalf("export to file: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !strings.Contains(string(data), "BEGIN:VCALENDAR") {
		t.Error("exported file is not a calendar")
	}

	if _, err := run(t, a, "export", "--day", "25.04.2026"); err == nil {
		t.Error("expected error for malformed --day")
	}
}

func TestAnnounceCommand(t *testing.T) {
	a, rec := newTestApp(t, planFetcher{plan: testPlan()}, "09:00")

	if _, err := run(t, a, "announce"); err != nil {
		t.Fatalf("announce: %v", err)
	}
	if len(rec.got) != 1 {
		t.Fatalf("got %d announcements, want 1", len(rec.got))
	}
	if rec.got[0].Label != "10:00" || len(rec.got[0].Sessions) != 1 {
		t.Errorf("announcement = %+v", rec.got[0])
	}
}

func TestAnnounceCommand_DryRun(t *testing.T) {
	a, rec := newTestApp(t, planFetcher{plan: testPlan()}, "09:00")

	out, err := run(t, a, "announce", "--dry-run")
	if err != nil {
		t.Fatalf("announce: %v", err)
	}
	if !strings.Contains(out, "--- Tweet 1/1 ---") {
		t.Errorf("dry run output = %q", out)
	}
	if len(rec.got) != 0 {
		t.Error("dry run should not reach the real notifier")
	}
}

func TestAnnounceCommand_NoUpcomingSlot(t *testing.T) {
	a, rec := newTestApp(t, planFetcher{plan: testPlan()}, "12:00")

	out, err := run(t, a, "announce")
	if err != nil {
		t.Fatalf("announce: %v", err)
	}
	if !strings.Contains(out, "No upcoming time slot.") || len(rec.got) != 0 {
		t.Errorf("output = %q, announcements = %d", out, len(rec.got))
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" json ", FormatJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
