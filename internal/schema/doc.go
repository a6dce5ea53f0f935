// Package schema describes the on-disk layout of the reptrack database.
//
// The descriptors here are the single source of truth for:
//   - DDL used to create a fresh database
//   - the structural comparison run against PRAGMA table_info on open
//   - the schema identity hash recorded in the migration marker
//   - the ordered migration steps that bring older databases up to date
//
// Column names and declared types are kept byte-compatible with databases
// written by the original mobile application.
package schema
