package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/camp-sessions/internal/schedule"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// result is anything a subcommand prints
type result interface {
	writeText(w io.Writer)
}

// SlotResult lists the sessions of one time slot
type SlotResult struct {
	Label    string               `json:"label"`
	Sessions []schedule.TitleRoom `json:"sessions"`
}

// RoomResult lists the sessions of one room
type RoomResult struct {
	Room       string               `json:"room"`
	URL        string               `json:"url,omitempty"`
	AccessCode string               `json:"access_code,omitempty"`
	Sessions   []schedule.TimeTitle `json:"sessions"`
}

// ListResult is a plain list of time slots or rooms
type ListResult struct {
	Kind  string   `json:"kind"`
	Items []string `json:"items"`
}

// NowNextResult is the answer to now/next; a nil slot is absent
type NowNextResult struct {
	Now     string      `json:"now"`
	Current *SlotResult `json:"current,omitempty"`
	Next    *SlotResult `json:"next,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, r result, format OutputFormat) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(r)
	case FormatText:
		r.writeText(w)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func (r *SlotResult) writeText(w io.Writer) {
	fmt.Fprintf(w, "Sessions at %s\n", r.Label)
	if len(r.Sessions) == 0 {
		fmt.Fprintln(w, "  (none planned)")
		return
	}
	for _, row := range r.Sessions {
		fmt.Fprintf(w, "  %-12s %s\n", row.Room, row.Title)
	}
}

func (r *RoomResult) writeText(w io.Writer) {
	fmt.Fprintf(w, "Sessions in %s\n", r.Room)
	if r.URL != "" {
		fmt.Fprintf(w, "  URL:  %s\n", r.URL)
		fmt.Fprintf(w, "  Code: %s\n", r.AccessCode)
	}
	if len(r.Sessions) == 0 {
		fmt.Fprintln(w, "  (none planned)")
		return
	}
	for _, row := range r.Sessions {
		fmt.Fprintf(w, "  %-6s %s\n", row.Time, row.Title)
	}
}

func (r *ListResult) writeText(w io.Writer) {
	if len(r.Items) == 0 {
		fmt.Fprintf(w, "No %s found.\n", r.Kind)
		return
	}
	for _, item := range r.Items {
		fmt.Fprintln(w, item)
	}
}

func (r *NowNextResult) writeText(w io.Writer) {
	fmt.Fprintf(w, "It is %s\n\n", r.Now)
	if r.Current == nil && r.Next == nil {
		fmt.Fprintln(w, "No sessions planned.")
		return
	}
	if r.Current != nil {
		r.Current.writeText(w)
	}
	if r.Current != nil && r.Next != nil {
		fmt.Fprintln(w)
	}
	if r.Next != nil {
		r.Next.writeText(w)
	}
}
