package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/exp/constraints"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalid is returned (wrapped) when a value violates a field invariant.
var ErrInvalid = errors.New("invalid value")

// NormalizeName returns the NFC form of a name with surrounding space trimmed.
// Exercise and profile names are stored in this form so that visually
// identical names compare equal.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func nonNegative[T constraints.Integer | constraints.Float](field string, v T) error {
	if v < 0 {
		return fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalid, field, v)
	}
	return nil
}

// Validate checks the session invariants.
func (s Session) Validate() error {
	if s.ID < 0 {
		return fmt.Errorf("%w: id must be >= 1 or 0 for auto-assign, got %d", ErrInvalid, s.ID)
	}
	if NormalizeName(s.Exercise) == "" {
		return fmt.Errorf("%w: exercise is required", ErrInvalid)
	}
	if err := ValidateTimestamp("timestamp_iso", s.TimestampISO); err != nil {
		return err
	}
	if err := nonNegative("reps", s.Reps); err != nil {
		return err
	}
	if math.IsNaN(s.DurationSeconds) || math.IsInf(s.DurationSeconds, 0) {
		return fmt.Errorf("%w: duration_seconds must be finite", ErrInvalid)
	}
	if err := nonNegative("duration_seconds", s.DurationSeconds); err != nil {
		return err
	}
	return nonNegative("total_xp", s.TotalXP)
}

// Validate checks the daily progress invariants.
func (d DailyProgress) Validate() error {
	if err := ValidateDate(d.Date); err != nil {
		return err
	}
	counters := []struct {
		name string
		v    int64
	}{
		{"pushups", d.Pushups},
		{"squats", d.Squats},
		{"plank_seconds", d.PlankSeconds},
		{"bicep_left", d.BicepLeft},
		{"bicep_right", d.BicepRight},
	}
	for _, c := range counters {
		if err := nonNegative(c.name, c.v); err != nil {
			return err
		}
	}
	return ValidateTimestamp("last_updated_iso", d.LastUpdatedISO)
}

// Validate checks the profile invariants.
func (p Profile) Validate() error {
	return nonNegative("total_xp", p.TotalXP)
}

// ValidateDate reports whether date is a YYYY-MM-DD calendar date.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalid, date)
	}
	return nil
}

// ValidateTimestamp reports whether v is an RFC 3339 timestamp.
func ValidateTimestamp(field, v string) error {
	if _, err := time.Parse(time.RFC3339Nano, v); err != nil {
		return fmt.Errorf("%w: %s %q is not an RFC 3339 timestamp", ErrInvalid, field, v)
	}
	return nil
}
