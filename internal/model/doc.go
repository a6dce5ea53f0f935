// Package model defines the value types persisted by reptrack.
//
// Three entities are stored:
//   - Session: one discrete workout, created once and never mutated
//   - DailyProgress: per-day rep totals, replaced wholesale on every write
//   - Profile: the single user profile (zero or one row)
//
// Sessions and daily progress are correlated only by date convention; there
// are no foreign keys between them.
package model
