// Package scraper provides HTTP fetching and HTML parsing for barcamp session tables.
//
// The scraper package fetches a public session plan page and extracts the room headings
// and the sessions of every time slot. The page has no schema contract; extraction relies
// on a handful of marker classes (the session table, the first timeslot cell, the session
// slots and the table actions) and on their order in the document.
package scraper
