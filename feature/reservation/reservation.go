package reservation

import (
	"time"

	"cleansync/feature/calendar/models"
)

// Platform identifies the rental platform a reservation came from.
type Platform string

const (
	PlatformAirbnb Platform = "airbnb"
	PlatformVrbo   Platform = "vrbo"
	PlatformOther  Platform = "other"
)

// ParsePlatform normalizes a stored platform string, defaulting to other.
func ParsePlatform(s string) Platform {
	switch Platform(s) {
	case PlatformAirbnb, PlatformVrbo:
		return Platform(s)
	default:
		return PlatformOther
	}
}

// CanonicalReservation is the single, de-duplicated booking inferred from
// one or more raw feed events. It exists only for the duration of one sync
// run; only its effect on the stored work orders is persisted.
type CanonicalReservation struct {
	// CheckIn is the earliest start date across merged fragments.
	CheckIn time.Time

	// CheckOut is the latest (exclusive) end date across merged fragments.
	CheckOut time.Time

	// GuestName is the best available guest name; empty when the feed only
	// carried generic block phrases.
	GuestName string

	// Platform the reservation was resolved to.
	Platform Platform

	// IdentityKey is the value used to match this reservation against
	// stored work orders across sync runs: the reservation code when one
	// exists, otherwise the UID-derived prefix.
	IdentityKey string

	// UrgentTurnover is set when another reservation in the same feed
	// checks in on this reservation's checkout date.
	UrgentTurnover bool

	// Source is the best representative raw event, kept for audit.
	Source models.RawEvent
}

// Nights returns the stay length in nights.
func (r CanonicalReservation) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}
