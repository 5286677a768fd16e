// Package appointments holds the signed-in student's appointment collection.
//
// # Overview
//
// A Store is constructed once per session and passed to whatever needs it.
// It keeps the collection in memory, scoped to the current student, and
// writes the whole collection to the key-value slot "appointments_<id>"
// after every mutation.
//
// Lifecycle
//
//	upcoming ──Cancel──▶ cancelled
//	upcoming ──Complete─▶ complete
//
// Complete is not guarded: it also overwrites a cancelled record. Rebooking
// (Add with an old id) removes the old record and appends a new upcoming one.
//
// # Persistence
//
// Mutations return a *Write that resolves when the snapshot has been stored.
// Callers may Wait on it or ignore it. Failures are logged and reported
// through the Write only; the in-memory collection stays authoritative.
// Writes of the same slot are applied in mutation order and a snapshot older
// than one already written is skipped, so the slot ends at the newest state.
package appointments
