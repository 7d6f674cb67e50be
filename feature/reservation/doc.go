// Package reservation turns parsed feed events into canonical reservations.
//
// Rental platforms fragment a single booking into several VEVENTs, re-issue
// identifiers between fetches, and hide guest names behind generic block
// phrases. This package owns the two pieces of logic that undo that:
//
//   - Identity: an ordered list of predicates (reservation code, UID prefix,
//     summary) deciding whether two events are the same real-world booking.
//     The default is no match; under-merging beats merging two guests.
//   - Merge: a single left-to-right sweep that folds overlapping or
//     adjacent fragments with matching identity into one
//     CanonicalReservation, then flags same-day turnovers feed-wide.
//
// Everything here is pure: no I/O, no stored state, fully deterministic for
// a given event list.
package reservation
