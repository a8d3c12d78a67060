package telegram

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/pfrederiksen/camp-sessions/internal/schedule"
	"github.com/pfrederiksen/camp-sessions/internal/session"
)

const (
	// PromptChoose introduces a keyboard of rooms or time slots
	PromptChoose = "Bitte wählen:"
	// NothingPlanned replaces an empty result list
	NothingPlanned = "bisher keine geplant."
	// NoSchedule is sent when the current snapshot has no data to pick from
	NoSchedule = "Der Sessionplan ist gerade nicht verfügbar."
)

// FormatWelcome returns the /start message
func FormatWelcome() string {
	return `Hallo. Ich bin dein PythonCamp Bot.

Ich kann Dir Fragen nach der Zeit und den Räumen beantworten.

Tippe 'jetzt', 'gleich', 'zeit' oder 'raum' oder nutze die Befehlsfunktion von Telegram.`
}

// FormatTimeResult lists the sessions of one time slot
func FormatTimeResult(label string, rows []schedule.TitleRoom) string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("Sessions um %s\n", html.EscapeString(label)))

	if len(rows) == 0 {
		msg.WriteString(NothingPlanned)
		return msg.String()
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("in %s: %s", html.EscapeString(row.Room), html.EscapeString(row.Title)))
	}
	msg.WriteString(strings.Join(lines, "\n"))
	return msg.String()
}

// FormatRoomResult lists the sessions of one room, headed by its conferencing details
func FormatRoomResult(room string, rows []schedule.TimeTitle, cred *session.Credential) string {
	lines := []string{fmt.Sprintf("Sessions in %s", html.EscapeString(room))}

	if cred != nil {
		lines = append(lines,
			fmt.Sprintf("Url: %s", html.EscapeString(cred.URL)),
			fmt.Sprintf("Code: %s", html.EscapeString(cred.AccessCode)),
			"",
		)
	}

	if len(rows) == 0 {
		lines = append(lines, NothingPlanned)
	}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("um %s: %s", html.EscapeString(row.Time), html.EscapeString(row.Title)))
	}

	return strings.Join(lines, "\n")
}

// FormatNotUnderstood answers free text that matched no keyword
func FormatNotUnderstood(text string) string {
	return fmt.Sprintf("%s? Das habe ich nicht verstanden...", html.EscapeString(text))
}

// MaxCallbackData is the Bot API limit for callback_data in bytes
const MaxCallbackData = 64

// CallbackData returns the callback data for an option: the option itself, cut at a
// rune boundary when it exceeds MaxCallbackData
func CallbackData(option string) string {
	if len(option) <= MaxCallbackData {
		return option
	}
	cut := MaxCallbackData
	for cut > 0 && !utf8.RuneStart(option[cut]) {
		cut--
	}
	return option[:cut]
}

// ResolveChoice maps callback data back to the option it was generated from.
// Data that matches no option is returned unchanged.
func ResolveChoice(data string, options []string) string {
	for _, opt := range options {
		if opt == data {
			return opt
		}
	}
	for _, opt := range options {
		if CallbackData(opt) == data {
			return opt
		}
	}
	return data
}

// ChoiceKeyboard renders one button per option, carrying CallbackData(option)
func ChoiceKeyboard(options []string) *InlineKeyboardMarkup {
	rows := make([][]InlineKeyboardButton, 0, len(options))
	for _, opt := range options {
		rows = append(rows, []InlineKeyboardButton{{Text: opt, CallbackData: CallbackData(opt)}})
	}
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}
