package reservation

import (
	"sort"
	"strings"
	"time"

	"cleansync/feature/calendar/models"
)

// Merge collapses a feed's raw events into canonical reservations.
//
// The algorithm is a single left-to-right sweep: events are stably sorted by
// start date, then folded into an accumulator whenever the next event starts
// no later than the accumulator's current end AND the identity rules report
// a match. A flushed group is never re-opened: two fragments of one booking
// that are out of date-order relative to an unrelated event in between will
// not merge. That is a deliberate simplicity trade-off, not a bug to fix
// with backtracking.
//
// fallback is the platform declared on the sync configuration, used when
// the event identifier carries no recognizable platform domain.
func Merge(events []models.RawEvent, fallback Platform) []CanonicalReservation {
	if len(events) == 0 {
		return nil
	}

	sorted := make([]models.RawEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})

	var out []CanonicalReservation
	acc := newAccumulator(sorted[0])

	for _, ev := range sorted[1:] {
		if !ev.StartDate.After(acc.end) && SameReservation(acc.rep, ev) {
			acc.absorb(ev)
			continue
		}
		out = append(out, acc.flush(fallback))
		acc = newAccumulator(ev)
	}
	out = append(out, acc.flush(fallback))

	flagUrgentTurnovers(out)
	return out
}

// accumulator collects the fragments of one booking during the sweep.
type accumulator struct {
	rep        models.RawEvent // representative event, enriched as fragments merge
	start, end time.Time
}

func newAccumulator(ev models.RawEvent) accumulator {
	return accumulator{rep: ev, start: ev.StartDate, end: ev.EndDate}
}

// absorb extends the accumulator with a fragment of the same booking,
// preferring the richer of the two for code, description and summary.
func (a *accumulator) absorb(ev models.RawEvent) {
	if ev.EndDate.After(a.end) {
		a.end = ev.EndDate
	}
	if a.rep.ReservationCode == "" && ev.ReservationCode != "" {
		a.rep.ReservationCode = ev.ReservationCode
	}
	if a.rep.Description == "" && ev.Description != "" {
		a.rep.Description = ev.Description
	}
	if a.rep.UIDPrefix == "" && ev.UIDPrefix != "" {
		a.rep.UIDPrefix = ev.UIDPrefix
	}
	// A named summary beats a generic block phrase.
	if betterSummary(ev.Summary, a.rep.Summary) {
		a.rep.Summary = ev.Summary
	}
}

func betterSummary(candidate, current string) bool {
	if strings.TrimSpace(candidate) == "" {
		return false
	}
	if strings.TrimSpace(current) == "" {
		return true
	}
	return IsGenericSummary(current) && !IsGenericSummary(candidate)
}

func (a accumulator) flush(fallback Platform) CanonicalReservation {
	return CanonicalReservation{
		CheckIn:     a.start,
		CheckOut:    a.end,
		GuestName:   GuestName(a.rep.Summary),
		Platform:    DetectPlatform(a.rep.UID, fallback),
		IdentityKey: identityKey(a.rep),
		Source:      a.rep,
	}
}

// identityKey picks the value used to match this reservation against stored
// work orders: reservation code, then UID prefix, then the raw UID.
func identityKey(ev models.RawEvent) string {
	if ev.ReservationCode != "" {
		return ev.ReservationCode
	}
	if ev.UIDPrefix != "" {
		return ev.UIDPrefix
	}
	return ev.UID
}

// flagUrgentTurnovers marks every reservation whose checkout coincides with
// any check-in in the same feed. The check is feed-wide, not pairwise: a
// checkout is urgent as soon as anyone arrives that day.
func flagUrgentTurnovers(reservations []CanonicalReservation) {
	checkIns := make(map[time.Time]struct{}, len(reservations))
	for _, r := range reservations {
		checkIns[r.CheckIn] = struct{}{}
	}
	for i := range reservations {
		if _, ok := checkIns[reservations[i].CheckOut]; ok {
			reservations[i].UrgentTurnover = true
		}
	}
}

// DetectPlatform resolves the platform for a reservation: a recognizable
// domain in the event identifier wins, then the configuration's declared
// platform, then other.
func DetectPlatform(uid string, fallback Platform) Platform {
	if at := strings.LastIndex(uid, "@"); at >= 0 {
		domain := strings.ToLower(uid[at+1:])
		switch {
		case strings.Contains(domain, "airbnb"):
			return PlatformAirbnb
		case strings.Contains(domain, "vrbo"), strings.Contains(domain, "homeaway"):
			return PlatformVrbo
		}
	}
	if fallback == PlatformAirbnb || fallback == PlatformVrbo {
		return fallback
	}
	return PlatformOther
}
