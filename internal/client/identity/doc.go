// Package identity authenticates students and keeps their sessions.
//
// Directory holds the static list of students (id, PIN, name) and checks a
// numeric student id and PIN against bcrypt hashes computed at load time.
// Sessions issues and verifies HS256 JWTs so a sign-in survives restarts.
// Limiter throttles repeated login attempts per student id.
package identity
