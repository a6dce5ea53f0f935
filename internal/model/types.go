package model

import "time"

// DateLayout is the text form of DailyProgress.Date (ISO-8601 calendar date).
const DateLayout = "2006-01-02"

// Session is a single completed workout.
// ID 0 means "let the store assign one".
type Session struct {
	ID              int64   `json:"id"`
	TimestampISO    string  `json:"timestamp_iso"`
	Exercise        string  `json:"exercise"`
	Reps            int64   `json:"reps"`
	DurationSeconds float64 `json:"duration_seconds"`
	TotalXP         int64   `json:"total_xp"`
}

// DailyProgress holds the aggregated counters for one calendar date.
// PlankSeconds is a legacy column kept for on-disk compatibility.
type DailyProgress struct {
	Date           string `json:"date"`
	Pushups        int64  `json:"pushups"`
	Squats         int64  `json:"squats"`
	PlankSeconds   int64  `json:"plank_seconds"`
	BicepLeft      int64  `json:"bicep_left"`
	BicepRight     int64  `json:"bicep_right"`
	GoalsMet       bool   `json:"goals_met"`
	LastUpdatedISO string `json:"last_updated_iso"`
}

// Profile is the singleton user profile. It carries no key: there is
// exactly one slot and the store owns its identity.
type Profile struct {
	TotalXP int64  `json:"total_xp"`
	Name    string `json:"name"`
}

// Total is the result of a SUM aggregate.
//
// Valid is false when no rows matched the filter, which is different from
// rows that sum to zero.
type Total struct {
	Value int64 `json:"value"`
	Valid bool  `json:"valid"`
}

// EmptyDaily returns a zeroed DailyProgress for date stamped with now.
func EmptyDaily(date string, now time.Time) DailyProgress {
	return DailyProgress{
		Date:           date,
		LastUpdatedISO: FormatTimestamp(now),
	}
}

// FormatDate renders t as a DailyProgress date in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTimestamp renders t as an RFC 3339 UTC timestamp.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
