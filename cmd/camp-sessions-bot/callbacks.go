package main

import (
	"strings"

	"github.com/pfrederiksen/camp-sessions/internal/camp"
	"github.com/pfrederiksen/camp-sessions/internal/session"
	"github.com/pfrederiksen/camp-sessions/internal/telegram"
)

// handleCallback answers a keyboard button press. Buttons carry either a room or a
// time-slot label, possibly cut to the callback data limit.
func handleCallback(c *camp.Camp, data string) string {
	data = resolveCallback(c, strings.TrimSpace(data))
	if c.IsRoom(data) {
		var cred *session.Credential
		if found, ok := c.RoomCredential(data); ok {
			cred = &found
		}
		return telegram.FormatRoomResult(data, c.SessionsIn(data), cred)
	}
	return telegram.FormatTimeResult(data, c.SessionsAt(data))
}

// resolveCallback maps callback data back to the room or label a keyboard offered
func resolveCallback(c *camp.Camp, data string) string {
	options := roomChoices(c.Plan())
	options = append(options, c.Rooms()...)
	options = append(options, c.TimeSlots()...)
	return telegram.ResolveChoice(data, options)
}
