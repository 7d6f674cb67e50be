// Package cleaning keeps cleaning work orders synchronized with external
// calendar feeds.
//
// The orchestrator (Service) runs fetch, parse, merge and reconcile as one
// sequential unit per sync configuration, guarded by a per-configuration
// try-lock so scheduled and manual passes never overlap on the same feed.
// The Reconciler applies the resulting canonical reservations to the stored
// work orders through the Gateway interface: create on first sighting,
// update while still pending or assigned, de-duplicate rows sharing an
// identity key, cancel rows whose reservation disappeared. Work already in
// progress or completed is never invalidated by a feed change.
//
// Persistence is behind the Gateway interface; Repository is the MySQL
// implementation and tests use in-memory fakes.
package cleaning
