package notifier

import (
	"fmt"
	"unicode/utf8"

	"github.com/pfrederiksen/camp-sessions/internal/schedule"
)

// maxTweetLength is Twitter's limit in characters
const maxTweetLength = 280

// Announcement is the set of sessions starting at one time slot
type Announcement struct {
	Label    string
	Sessions []schedule.TitleRoom
}

// Notifier defines the interface for posting session announcements
type Notifier interface {
	// Notify posts the sessions of one announcement
	Notify(a Announcement) error
}

// formatTweet formats one session of an announcement
func formatTweet(label string, row schedule.TitleRoom) string {
	tweet := fmt.Sprintf("Gleich um %s\n\n%s\n", label, row.Title)
	if row.Room != "" {
		tweet += fmt.Sprintf("Raum: %s\n", row.Room)
	}
	tweet += "\n#PythonCamp"

	if utf8.RuneCountInString(tweet) > maxTweetLength {
		runes := []rune(tweet)
		tweet = string(runes[:maxTweetLength-3]) + "..."
	}
	return tweet
}
