package session

import (
	"strings"
)

// RoomPrefix is stripped from raw room text before it is stored
const RoomPrefix = "Room:"

// placeholderMarkers identify rooms that stand for "no session" (backup/tomorrow slots)
var placeholderMarkers = []string{"morgen", "ersatz"}

// Session represents a single talk in the session table.
// Empty strings mean the field is absent.
type Session struct {
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Room          string `json:"room,omitempty"`
	ConferenceURL string `json:"conference_url,omitempty"`
	AccessCode    string `json:"access_code,omitempty"`
}

// New creates a Session with a normalized room and no conferencing credentials
func New(title, description, rawRoom string) *Session {
	return &Session{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Room:        NormalizeRoom(rawRoom),
	}
}

// NormalizeRoom strips the "Room:" prefix and surrounding whitespace
func NormalizeRoom(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, RoomPrefix)
	return strings.TrimSpace(raw)
}

// IsPlaceholderRoom reports whether a room name denotes a placeholder or backup room
func IsPlaceholderRoom(room string) bool {
	lower := strings.ToLower(room)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// WithRoom returns a copy assigned to another room.
// Conferencing fields belong to the old room and are cleared.
func (s *Session) WithRoom(rawRoom string) *Session {
	c := s.withoutCredential()
	c.Room = NormalizeRoom(rawRoom)
	return c
}

func (s *Session) withoutCredential() *Session {
	c := *s
	c.ConferenceURL = ""
	c.AccessCode = ""
	return &c
}

// WithCredential returns a copy with the conferencing fields set from cred
func (s *Session) WithCredential(cred Credential) *Session {
	c := *s
	c.ConferenceURL = cred.URL
	c.AccessCode = cred.AccessCode
	return &c
}

// HasCredential reports whether conferencing details are attached
func (s *Session) HasCredential() bool {
	return s.ConferenceURL != "" || s.AccessCode != ""
}

func (s *Session) String() string {
	return s.Title + " in " + s.Room
}
