// Package store provides SQLite-backed persistence for workout sessions,
// daily progress and the user profile.
//
// # Tables
//
//   - sessions: one row per workout, strict insert, deleted only by id
//   - daily_progress: one row per calendar date, replace on write
//   - user_profile: a single slot, replace on write
//   - schema_migrations: applied schema versions; the latest row is the
//     schema identity marker
//
// # Opening
//
// Open is the only way to obtain a *Store. Before any operation is
// reachable it either creates a fresh database, applies pending migration
// steps, or compares the live schema against the expected descriptors from
// internal/schema. A mismatch is returned as *SchemaMismatchError and the
// database is left untouched; Destroy removes it when the caller decides
// to start over.
//
// # Writes
//
// Every mutation runs inside its own transaction (begin, statement, commit,
// with a deferred rollback). A failed statement never leaves a transaction
// open and nothing is retried: a retried strict insert could apply twice.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON
//   - a single pooled connection, so SQLite itself serializes writers
package store
