// Package schedule owns the current session plan and answers queries against it.
//
// A Store holds one snapshot of the session table and the room credential map. Both are
// published through atomic pointers: Refresh builds a complete new snapshot and swaps it
// in, so readers never lock and never observe a half-updated plan. Fetch and extraction
// failures are logged and leave the previous snapshot in place; an empty extraction
// never replaces a good one.
//
// Which page is scraped is decided by an injected SourceFunc, typically one URL per
// conference day. When no source is active the schedule is cleared.
package schedule
