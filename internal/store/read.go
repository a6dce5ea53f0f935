package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/reptrack/internal/model"
)

const sessionColumns = "id, timestampIso, exercise, reps, durationSeconds, totalXp"

const dailyColumns = "date, pushups, squats, plankSeconds, bicepLeft, bicepRight, goalsMet, lastUpdatedIso"

// ListSessions returns every session, most recent (highest id) first.
// Returns an empty slice (not nil) when there are none.
func (s *Store) ListSessions(ctx context.Context) ([]model.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []model.Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// GetSession retrieves a session by id. found is false when there is no
// such session.
func (s *Store) GetSession(ctx context.Context, id int64) (sess model.Session, found bool, err error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)

	sess, err = scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, false, nil
	}
	if err != nil {
		return model.Session{}, false, err
	}
	return sess, true, nil
}

// CountSessions returns the number of stored sessions.
func (s *Store) CountSessions(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// SumRepsForExercise sums reps over sessions of one exercise. The result is
// not Valid when that exercise was never logged.
func (s *Store) SumRepsForExercise(ctx context.Context, exercise string) (model.Total, error) {
	var sum sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT SUM(reps) FROM sessions WHERE exercise = ?", model.NormalizeName(exercise),
	).Scan(&sum)
	if err != nil {
		return model.Total{}, fmt.Errorf("sum reps: %w", err)
	}
	return model.Total{Value: sum.Int64, Valid: sum.Valid}, nil
}

// SumTotalXP sums XP over all sessions. The result is not Valid when there
// are no sessions.
func (s *Store) SumTotalXP(ctx context.Context) (model.Total, error) {
	var sum sql.NullInt64
	if err := s.db.QueryRowContext(ctx, "SELECT SUM(totalXp) FROM sessions").Scan(&sum); err != nil {
		return model.Total{}, fmt.Errorf("sum xp: %w", err)
	}
	return model.Total{Value: sum.Int64, Valid: sum.Valid}, nil
}

// GetDaily retrieves the progress row for a date.
func (s *Store) GetDaily(ctx context.Context, date string) (dp model.DailyProgress, found bool, err error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+dailyColumns+" FROM daily_progress WHERE date = ?", date)

	dp, err = scanDaily(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DailyProgress{}, false, nil
	}
	if err != nil {
		return model.DailyProgress{}, false, err
	}
	return dp, true, nil
}

// RecentDaily returns up to limit progress rows, newest date first.
// A limit of zero or less yields an empty slice.
func (s *Store) RecentDaily(ctx context.Context, limit int) ([]model.DailyProgress, error) {
	days := []model.DailyProgress{}
	if limit <= 0 {
		return days, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+dailyColumns+" FROM daily_progress ORDER BY date DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query daily progress: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		dp, err := scanDaily(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, dp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily progress: %w", err)
	}

	return days, nil
}

// GetProfile reads the profile slot. found is false when no profile was
// ever written.
func (s *Store) GetProfile(ctx context.Context) (model.Profile, bool, error) {
	return readProfile(ctx, s.db)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (model.Session, error) {
	var sess model.Session
	err := sc.Scan(
		&sess.ID, &sess.TimestampISO, &sess.Exercise,
		&sess.Reps, &sess.DurationSeconds, &sess.TotalXP,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, err
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("scan session: %w", err)
	}
	return sess, nil
}

func scanDaily(sc scanner) (model.DailyProgress, error) {
	var dp model.DailyProgress
	err := sc.Scan(
		&dp.Date, &dp.Pushups, &dp.Squats, &dp.PlankSeconds,
		&dp.BicepLeft, &dp.BicepRight, &dp.GoalsMet, &dp.LastUpdatedISO,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DailyProgress{}, err
	}
	if err != nil {
		return model.DailyProgress{}, fmt.Errorf("scan daily progress: %w", err)
	}
	return dp, nil
}
