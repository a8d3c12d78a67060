package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/camp-sessions/internal/calendar"
	"github.com/pfrederiksen/camp-sessions/internal/scraper"
)

// Renders the scraper fixture as an .ics file for checking in a calendar app.
// Run from the repository root: go run ./scripts
func main() {
	f, err := os.Open("internal/scraper/testdata/sessionplan.html")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening fixture: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	plan, err := scraper.Parse(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing fixture: %v\n", err)
		os.Exit(1)
	}

	icsContent, err := calendar.Generate(plan, time.Now(), time.Local)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating calendar: %v\n", err)
		os.Exit(1)
	}

	// Write to file (owner read/write only)
	filename := "sample-sessionplan.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated calendar file: %s (%d sessions)\n\n", filename, plan.SessionCount())
	fmt.Println("File contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
