// Package cli implements the camp-sessions command-line interface.
//
// Every subcommand loads the configuration, scrapes the current session plan once and
// answers a single query about it (time slot, room, now/next) in text or JSON. The
// export and announce subcommands hand the plan to the calendar and notifier packages.
package cli
