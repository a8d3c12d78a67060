package notifier

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// DryRunNotifier prints what would be tweeted without actually posting
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a dry-run notifier writing to out; nil means stdout
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunNotifier{out: out}
}

// Notify prints the tweets that would be posted
func (n *DryRunNotifier) Notify(a Announcement) error {
	if len(a.Sessions) == 0 {
		fmt.Fprintf(n.out, "No sessions at %s\n", a.Label)
		return nil
	}
	for i, row := range a.Sessions {
		tweet := formatTweet(a.Label, row)
		fmt.Fprintf(n.out, "--- Tweet %d/%d ---\n", i+1, len(a.Sessions))
		fmt.Fprintln(n.out, tweet)
		fmt.Fprintf(n.out, "\n(Length: %d characters)\n\n", utf8.RuneCountInString(tweet))
	}
	return nil
}
