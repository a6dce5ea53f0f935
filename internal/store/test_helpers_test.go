package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/reptrack/internal/model"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSession creates a session with minimal required fields.
func createTestSession(exercise string, reps int64) model.Session {
	return model.Session{
		TimestampISO:    "2024-05-01T08:00:00Z",
		Exercise:        exercise,
		Reps:            reps,
		DurationSeconds: 30.5,
		TotalXP:         reps * 2,
	}
}

// createTestDaily creates a progress row for date with the given pushups.
func createTestDaily(date string, pushups int64) model.DailyProgress {
	return model.DailyProgress{
		Date:           date,
		Pushups:        pushups,
		LastUpdatedISO: "2024-05-01T21:00:00Z",
	}
}
