// Package models contains the parsed representation of calendar feed entries.
package models

import "time"

// RawEvent is a single VEVENT as parsed from an iCal feed.
//
// Feed-assigned identifiers are not guaranteed stable across fetches for
// fragmented bookings, so RawEvents are rebuilt on every parse and never
// persisted; the merger consumes them immediately.
type RawEvent struct {
	// UID is the feed-assigned event identifier.
	UID string `json:"uid"`

	// Summary is the event title, often a guest name or a generic block phrase.
	Summary string `json:"summary"`

	// Description is the optional long text of the event.
	Description string `json:"description,omitempty"`

	// StartDate is the check-in date, normalized to midnight UTC.
	StartDate time.Time `json:"start_date"`

	// EndDate is the exclusive checkout date, normalized to midnight UTC.
	EndDate time.Time `json:"end_date"`

	// ReservationCode is a best-effort confirmation code extracted from the
	// description or summary. Empty when no code could be derived.
	ReservationCode string `json:"reservation_code,omitempty"`

	// UIDPrefix is a best-effort grouping key derived from the UID.
	// It is a hint for matching fragments of one booking, never a
	// guaranteed-unique key.
	UIDPrefix string `json:"uid_prefix,omitempty"`
}
