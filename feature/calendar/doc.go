// Package calendar fetches and parses third-party iCal feeds.
//
// It covers the front half of the sync pipeline: downloading the raw feed
// text with a bounded timeout (Fetcher), turning it into a flat list of
// RawEvents (Parse), and archiving the raw body for audit (Archiver).
//
// # Parsing
//
// Parse implements only the subset of RFC 5545 the rental platforms emit:
// VEVENT blocks with UID, SUMMARY, DESCRIPTION, DTSTART and DTEND. Line
// folding is reversed before tokenizing, dates are normalized to date-only
// values, and text fields are unescaped. Individual malformed blocks are
// dropped silently; a broken entry must never poison the rest of the feed.
//
// After each event is built, two best-effort derivations run: a reservation
// code (explicit phrase, platform code shape, or long confirmation number)
// and a UID prefix used downstream as a grouping hint for fragmented
// bookings.
package calendar
