package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/reptrack/internal/model"
	"github.com/roach88/reptrack/internal/schema"
)

// InsertSession inserts a session and returns its row id.
//
// Strict insert: an ID of 0 lets SQLite assign one; a non-zero ID that
// already exists fails with ErrConstraint and leaves the existing row
// untouched.
func (s *Store) InsertSession(ctx context.Context, sess model.Session) (int64, error) {
	if err := sess.Validate(); err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO sessions
			(id, timestampIso, exercise, reps, durationSeconds, totalXp)
			VALUES (nullif(?, 0), ?, ?, ?, ?, ?)
		`,
			sess.ID,
			sess.TimestampISO,
			model.NormalizeName(sess.Exercise),
			sess.Reps,
			sess.DurationSeconds,
			sess.TotalXP,
		)
		if err != nil {
			return classify(err)
		}
		id, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

// UpsertDaily writes the progress row for dp.Date, replacing any existing
// row for that date in full.
func (s *Store) UpsertDaily(ctx context.Context, dp model.DailyProgress) error {
	if err := dp.Validate(); err != nil {
		return fmt.Errorf("upsert daily: %w", err)
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO daily_progress
			(date, pushups, squats, plankSeconds, bicepLeft, bicepRight, goalsMet, lastUpdatedIso)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			dp.Date,
			dp.Pushups,
			dp.Squats,
			dp.PlankSeconds,
			dp.BicepLeft,
			dp.BicepRight,
			dp.GoalsMet,
			dp.LastUpdatedISO,
		)
		return classify(err)
	})
	if err != nil {
		return fmt.Errorf("upsert daily: %w", err)
	}
	return nil
}

// UpsertProfile replaces the profile slot with p.
func (s *Store) UpsertProfile(ctx context.Context, p model.Profile) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return writeProfile(ctx, tx, p)
	})
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// UpdateProfileName replaces the profile with the given name, keeping the
// stored total XP (0 when no profile exists yet).
func (s *Store) UpdateProfileName(ctx context.Context, name string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		p, _, err := readProfile(ctx, tx)
		if err != nil {
			return err
		}
		p.Name = name
		return writeProfile(ctx, tx, p)
	})
	if err != nil {
		return fmt.Errorf("update profile name: %w", err)
	}
	return nil
}

// SetProfileXP replaces the profile with the given total XP, keeping the
// stored name ("" when no profile exists yet).
func (s *Store) SetProfileXP(ctx context.Context, totalXP int64) error {
	p := model.Profile{TotalXP: totalXP}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("set profile xp: %w", err)
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		existing, _, err := readProfile(ctx, tx)
		if err != nil {
			return err
		}
		existing.TotalXP = totalXP
		return writeProfile(ctx, tx, existing)
	})
	if err != nil {
		return fmt.Errorf("set profile xp: %w", err)
	}
	return nil
}

func writeProfile(ctx context.Context, tx *sql.Tx, p model.Profile) error {
	_, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO user_profile (id, totalXp, name)
		VALUES (?, ?, ?)
	`, schema.ProfileSlot, p.TotalXP, model.NormalizeName(p.Name))
	return classify(err)
}

// DeleteSession removes the session with the given id and returns the
// number of rows removed. A missing id is not an error.
func (s *Store) DeleteSession(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("delete session: %w", err)
	}
	return affected, nil
}

// readProfile loads the profile slot through q. found is false and p is the
// zero profile when the slot is empty.
func readProfile(ctx context.Context, q queryer) (p model.Profile, found bool, err error) {
	err = q.QueryRowContext(ctx,
		"SELECT totalXp, name FROM user_profile WHERE id = ?", schema.ProfileSlot,
	).Scan(&p.TotalXP, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, false, nil
	}
	if err != nil {
		return model.Profile{}, false, fmt.Errorf("read profile: %w", err)
	}
	return p, true, nil
}
