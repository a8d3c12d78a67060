// Package credentials builds the per-room conferencing credential map.
//
// The credentials endpoint serves a JSON document with a "rooms" collection. Each entry
// names a room, its conferencing URL and its access code, either as a positional triple
// or as an object. Room names are upper-cased so lookups ignore the casing used on the
// schedule page. A failed fetch is not fatal: the schedule stays usable without links.
package credentials
