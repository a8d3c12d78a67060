package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pfrederiksen/camp-sessions/internal/schedule"
	"github.com/pfrederiksen/camp-sessions/internal/session"
)

func TestFormatTimeResult(t *testing.T) {
	tests := []struct {
		name  string
		label string
		rows  []schedule.TitleRoom
		want  string
	}{
		{
			name:  "one session",
			label: "08:00",
			rows:  []schedule.TitleRoom{{Title: "Intro to Testing", Room: "A1"}},
			want:  "Sessions um 08:00\nin A1: Intro to Testing",
		},
		{
			name:  "two sessions",
			label: "10:00",
			rows: []schedule.TitleRoom{
				{Title: "Async", Room: "Plenum"},
				{Title: "Typing", Room: "A1"},
			},
			want: "Sessions um 10:00\nin Plenum: Async\nin A1: Typing",
		},
		{
			name:  "nothing planned",
			label: "23:00",
			want:  "Sessions um 23:00\nbisher keine geplant.",
		},
		{
			name:  "html is escaped",
			label: "09:00",
			rows:  []schedule.TitleRoom{{Title: "Q&A <live>", Room: "A1"}},
			want:  "Sessions um 09:00\nin A1: Q&amp;A &lt;live&gt;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimeResult(tt.label, tt.rows); got != tt.want {
				t.Errorf("FormatTimeResult() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatRoomResult(t *testing.T) {
	rows := []schedule.TimeTitle{{Time: "08:00", Title: "Intro to Testing"}}

	got := FormatRoomResult("A1", rows, nil)
	if got != "Sessions in A1\num 08:00: Intro to Testing" {
		t.Errorf("FormatRoomResult() without credential = %q", got)
	}

	cred := &session.Credential{URL: "https://meet.example/a1", AccessCode: "4711"}
	got = FormatRoomResult("A1", rows, cred)
	want := "Sessions in A1\nUrl: https://meet.example/a1\nCode: 4711\n\num 08:00: Intro to Testing"
	if got != want {
		t.Errorf("FormatRoomResult() with credential = %q, want %q", got, want)
	}

	got = FormatRoomResult("Keller", nil, nil)
	if !strings.HasSuffix(got, NothingPlanned) {
		t.Errorf("FormatRoomResult() empty = %q, want %q suffix", got, NothingPlanned)
	}
}

func TestFormatNotUnderstood(t *testing.T) {
	if got := FormatNotUnderstood("Kaffee"); got != "Kaffee? Das habe ich nicht verstanden..." {
		t.Errorf("FormatNotUnderstood() = %q", got)
	}
}

func TestFormatWelcome(t *testing.T) {
	for _, keyword := range []string{"jetzt", "gleich", "zeit", "raum"} {
		if !strings.Contains(FormatWelcome(), keyword) {
			t.Errorf("welcome text should mention %q", keyword)
		}
	}
}

func TestChoiceKeyboard(t *testing.T) {
	kb := ChoiceKeyboard([]string{"08:00", "09:00", "10:00"})

	if len(kb.InlineKeyboard) != 3 {
		t.Fatalf("rows = %d, want 3", len(kb.InlineKeyboard))
	}
	for i, opt := range []string{"08:00", "09:00", "10:00"} {
		row := kb.InlineKeyboard[i]
		if len(row) != 1 || row[0].Text != opt || row[0].CallbackData != opt {
			t.Errorf("row %d = %+v", i, row)
		}
	}

	if empty := ChoiceKeyboard(nil); len(empty.InlineKeyboard) != 0 {
		t.Errorf("empty keyboard has %d rows", len(empty.InlineKeyboard))
	}
}

func TestCallbackData(t *testing.T) {
	short := "Plenum"
	if got := CallbackData(short); got != short {
		t.Errorf("CallbackData(%q) = %q", short, got)
	}

	exact := strings.Repeat("a", MaxCallbackData)
	if got := CallbackData(exact); got != exact {
		t.Errorf("CallbackData() should keep a value of exactly %d bytes", MaxCallbackData)
	}

	// 63 ASCII bytes followed by a two-byte rune straddling the limit
	long := strings.Repeat("r", MaxCallbackData-1) + "ü und noch mehr"
	got := CallbackData(long)
	if len(got) > MaxCallbackData {
		t.Errorf("len(CallbackData()) = %d, want <= %d", len(got), MaxCallbackData)
	}
	if !utf8.ValidString(got) {
		t.Errorf("CallbackData() split a rune: %q", got)
	}
	if got != strings.Repeat("r", MaxCallbackData-1) {
		t.Errorf("CallbackData() = %q", got)
	}
}

func TestResolveChoice(t *testing.T) {
	longRoom := "Großer Saal im Erdgeschoss neben der Cafeteria (barrierefrei zugänglich)"
	options := []string{"A1", longRoom, "08:00"}

	kb := ChoiceKeyboard(options)
	for i, row := range kb.InlineKeyboard {
		if len(row[0].CallbackData) > MaxCallbackData {
			t.Errorf("button %d callback data is %d bytes", i, len(row[0].CallbackData))
		}
		if got := ResolveChoice(row[0].CallbackData, options); got != options[i] {
			t.Errorf("ResolveChoice(%q) = %q, want %q", row[0].CallbackData, got, options[i])
		}
	}

	if got := ResolveChoice("12:00", options); got != "12:00" {
		t.Errorf("unknown data should pass through, got %q", got)
	}
}
