package main

import (
	"context"
	"strings"
	"time"

	"github.com/pfrederiksen/camp-sessions/internal/calendar"
	"github.com/pfrederiksen/camp-sessions/internal/camp"
	"github.com/pfrederiksen/camp-sessions/internal/logger"
	"github.com/pfrederiksen/camp-sessions/internal/session"
	"github.com/pfrederiksen/camp-sessions/internal/telegram"
)

const (
	exportFilename = "sessionplan.ics"
	helpFallback   = "Frag mich einfach: jetzt, gleich, zeit oder raum."
)

// reply is what the bot sends back for one message
type reply struct {
	Text     string
	Keyboard *telegram.InlineKeyboardMarkup
	Document []byte
	Filename string
}

// processCommand answers one incoming text message. An empty reply means stay silent.
func processCommand(ctx context.Context, c *camp.Camp, text string, now time.Time) reply {
	text = strings.TrimSpace(text)
	if text == "" {
		return reply{}
	}

	if strings.HasPrefix(text, "/") {
		if r, ok := processSlashCommand(ctx, c, text, now); ok {
			return r
		}
	}
	return routeText(c, text)
}

// processSlashCommand handles registered commands; ok is false for unknown ones
func processSlashCommand(ctx context.Context, c *camp.Camp, text string, now time.Time) (reply, bool) {
	command := strings.ToLower(strings.Fields(text)[0])
	// Commands in groups arrive as /command@botname
	if i := strings.Index(command, "@"); i >= 0 {
		command = command[:i]
	}

	switch command {
	case "/start":
		return reply{Text: telegram.FormatWelcome()}, true
	case "/help", "/hilfe":
		return handleHelp(ctx, c), true
	case "/room", "/raum":
		return handleRooms(c), true
	case "/time", "/zeit":
		return handleTimes(c), true
	case "/now", "/jetzt":
		return handleNow(c), true
	case "/next", "/gleich":
		return handleNext(c), true
	case "/export":
		return handleExport(c, now), true
	default:
		return reply{}, false
	}
}

// routeText maps free text onto a query by keyword; the first matching rule wins
func routeText(c *camp.Camp, text string) reply {
	msg := strings.ToLower(text)

	switch {
	case hasAnyPrefix(msg, "t", "z") || containsAny(msg, "time", "zeit"):
		return handleTimes(c)
	case hasAnyPrefix(msg, "r") || containsAny(msg, "room", "raum"):
		return handleRooms(c)
	case hasAnyPrefix(msg, "j", "no") || containsAny(msg, "jetzt", "now"):
		return handleNow(c)
	case hasAnyPrefix(msg, "g", "n") || containsAny(msg, "gleich", "next"):
		return handleNext(c)
	default:
		return reply{Text: telegram.FormatNotUnderstood(text)}
	}
}

func handleHelp(ctx context.Context, c *camp.Camp) reply {
	text, err := c.Advice(ctx)
	if err != nil {
		logger.Warn("Advice unavailable", logger.Fields{"error": err.Error()})
		return reply{Text: helpFallback}
	}
	return reply{Text: text}
}

func handleRooms(c *camp.Camp) reply {
	rooms := roomChoices(c.Plan())
	if len(rooms) == 0 {
		rooms = c.Rooms()
	}
	if len(rooms) == 0 {
		return reply{Text: telegram.NoSchedule}
	}
	return reply{Text: telegram.PromptChoose, Keyboard: telegram.ChoiceKeyboard(rooms)}
}

func handleTimes(c *camp.Camp) reply {
	slots := c.TimeSlots()
	if len(slots) == 0 {
		return reply{Text: telegram.NoSchedule}
	}
	return reply{Text: telegram.PromptChoose, Keyboard: telegram.ChoiceKeyboard(slots)}
}

func handleNow(c *camp.Camp) reply {
	nn, err := c.NowAndNext()
	if err != nil {
		logger.Warn("Could not resolve time slots", logger.Fields{"error": err.Error()})
	}
	label := nn.Current
	if label == "" {
		label = nn.Now
	}
	return reply{Text: telegram.FormatTimeResult(label, c.SessionsAt(label))}
}

func handleNext(c *camp.Camp) reply {
	nn, err := c.NowAndNext()
	if err != nil {
		logger.Warn("Could not resolve time slots", logger.Fields{"error": err.Error()})
	}
	label := nn.Next
	if label == "" {
		label = nn.Now
	}
	return reply{Text: telegram.FormatTimeResult(label, c.SessionsAt(label))}
}

func handleExport(c *camp.Camp, now time.Time) reply {
	plan := c.Plan()
	if plan.IsEmpty() {
		return reply{Text: telegram.NoSchedule}
	}
	ics, err := calendar.Generate(plan, now, time.Local)
	if err != nil {
		logger.Error("Calendar export failed", nil, err)
		return reply{Text: telegram.NoSchedule}
	}
	return reply{
		Text:     "Sessionplan " + now.Format("02.01.2006"),
		Document: []byte(ics),
		Filename: exportFilename,
	}
}

// roomChoices returns the page's room headings in page order, without placeholders
// and duplicates
func roomChoices(plan *session.Plan) []string {
	if plan == nil {
		return nil
	}
	seen := make(map[string]bool, len(plan.Rooms))
	rooms := make([]string, 0, len(plan.Rooms))
	for _, room := range plan.Rooms {
		if room == "" || session.IsPlaceholderRoom(room) || seen[room] {
			continue
		}
		seen[room] = true
		rooms = append(rooms, room)
	}
	return rooms
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
