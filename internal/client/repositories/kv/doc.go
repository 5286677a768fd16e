// Package kv provides the key-value slots the client persists into.
//
// # Overview
//
// A Repository maps string keys to opaque byte values. The appointment store
// keeps one slot per student ("appointments_<id>"); profiles and the session
// token use their own keys. Values are written whole, never patched.
//
// Implementations
//
//   - SQLiteRepository   — local file (modernc.org/sqlite), the default
//   - PostgresRepository — shared database via pgx's database/sql driver
//   - S3Repository       — one object per key in an S3-compatible bucket
//   - MemoryRepository   — process-local map, for tests and throwaway sessions
//
// # Contract
//
// Get returns (nil, nil) when the key is absent. Delete of an absent key is
// not an error. All implementations are safe for concurrent use.
//
// Typical Usage
//
//	repo := kv.NewSQLiteRepository(db)
//	_ = repo.Set(ctx, "appointments_10001", payload)
//	b, _ := repo.Get(ctx, "appointments_10001")
package kv
