// Package cli provides the interactive clinicbook command-line client.
//
// It wires the auth and profile services and the appointment store into a
// read–eval–print loop. Typical flow: resume a saved session or prompt for
// student ID and PIN, then browse doctors, book, rebook, cancel and complete
// appointments, and edit the profile.
//
// Key features:
//   - Login / Logout (session survives restarts)
//   - Doctors and departments catalog
//   - Book / Rebook / Cancel / Complete appointments
//   - Home view and per-status bookings list
//   - Profile view and edit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
