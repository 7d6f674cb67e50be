package reservation

import (
	"strings"

	"cleansync/feature/calendar/models"
)

// genericSummaries are block phrases platforms emit instead of a guest name.
// A summary matching one of these (case-insensitive, trimmed) carries no
// identity of its own.
var genericSummaries = []string{
	"not available",
	"blocked",
	"reserved",
	"unavailable",
	"no disponible",
	"bloqueado",
	"reservado",
}

// IsGenericSummary reports whether a summary is a recognized block phrase.
func IsGenericSummary(summary string) bool {
	s := strings.ToLower(strings.TrimSpace(summary))
	for _, g := range genericSummaries {
		if s == g {
			return true
		}
	}
	return false
}

// Rule is one identity predicate. Rules are evaluated in order; the first
// rule that applies decides the outcome and no later rule is consulted.
//
// Feed identifiers are not reliable primary keys across fetches, so identity
// is an ordered rule list rather than a key lookup: the tie-break order
// stays visible and testable in isolation.
type Rule struct {
	// Name identifies the rule in tests and logs.
	Name string
	// Applies reports whether this rule can judge the pair.
	Applies func(a, b models.RawEvent) bool
	// Match reports whether the pair is the same reservation, given that
	// the rule applies.
	Match func(a, b models.RawEvent) bool
}

// Rules is the identity rule list, strongest signal first. The default when
// no rule applies is no match: under-merging two fragments of one booking
// is recoverable, merging two different guests' stays is not.
var Rules = []Rule{
	{
		Name: "reservation-code",
		Applies: func(a, b models.RawEvent) bool {
			return a.ReservationCode != "" && b.ReservationCode != ""
		},
		Match: func(a, b models.RawEvent) bool {
			return a.ReservationCode == b.ReservationCode
		},
	},
	{
		Name: "uid-prefix",
		Applies: func(a, b models.RawEvent) bool {
			return a.UIDPrefix != "" && b.UIDPrefix != ""
		},
		Match: func(a, b models.RawEvent) bool {
			return a.UIDPrefix == b.UIDPrefix
		},
	},
	{
		Name: "named-summary",
		Applies: func(a, b models.RawEvent) bool {
			return strings.TrimSpace(a.Summary) != "" && strings.TrimSpace(b.Summary) != "" &&
				!IsGenericSummary(a.Summary) && !IsGenericSummary(b.Summary)
		},
		Match: func(a, b models.RawEvent) bool {
			return a.Summary == b.Summary
		},
	},
	{
		Name: "generic-block",
		Applies: func(a, b models.RawEvent) bool {
			return IsGenericSummary(a.Summary) && IsGenericSummary(b.Summary)
		},
		Match: func(a, b models.RawEvent) bool {
			return a.UIDPrefix != "" && a.UIDPrefix == b.UIDPrefix
		},
	},
}

// SameReservation decides whether two raw events belong to the same
// real-world reservation.
func SameReservation(a, b models.RawEvent) bool {
	for _, r := range Rules {
		if r.Applies(a, b) {
			return r.Match(a, b)
		}
	}
	return false
}
