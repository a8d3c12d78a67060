// Package session provides the schedule data model for a barcamp session table.
//
// A Session is one talk: its title, description, room and, once credentials have been
// merged in, the room's conferencing URL and access code. Sessions are built in two
// explicit steps (room normalization in New, credential attachment in WithCredential)
// and are never mutated afterwards. A Plan groups sessions by their time-slot label and
// is always replaced wholesale on refresh.
package session
