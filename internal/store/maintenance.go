package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/reptrack/internal/schema"
)

// MaintenanceReport describes what ClearAll did.
type MaintenanceReport struct {
	RowsDeleted  int64 `json:"rows_deleted"`
	Checkpointed bool  `json:"checkpointed"`
	Vacuumed     bool  `json:"vacuumed"`
}

// ClearAll deletes every row from the sessions, daily_progress and
// user_profile tables in one transaction, then checkpoints the WAL and,
// when no transaction is active, runs VACUUM.
//
// The schema marker is kept. Checkpoint and VACUUM run after the delete has
// committed; if either fails the returned report still holds RowsDeleted and
// the error says which step failed.
func (s *Store) ClearAll(ctx context.Context) (MaintenanceReport, error) {
	var report MaintenanceReport

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, t := range schema.Tables() {
			result, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM `%s`", t.Name))
			if err != nil {
				return fmt.Errorf("delete %s: %w", t.Name, err)
			}
			n, err := result.RowsAffected()
			if err != nil {
				return err
			}
			report.RowsDeleted += n
		}
		return nil
	})
	if err != nil {
		return MaintenanceReport{}, fmt.Errorf("clear all: %w", err)
	}
	s.logger.Info("cleared all tables", "rows", report.RowsDeleted)

	// Pin one connection so the checkpoint and VACUUM see the same state.
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return report, fmt.Errorf("clear all: acquire connection: %w", err)
	}
	defer conn.Close()

	var busy, logFrames, checkpointed int
	if err := conn.QueryRowContext(ctx, "PRAGMA wal_checkpoint(FULL)").Scan(&busy, &logFrames, &checkpointed); err != nil {
		return report, fmt.Errorf("clear all: checkpoint: %w", err)
	}
	report.Checkpointed = busy == 0

	if s.InTransaction() {
		s.logger.Debug("skipping vacuum, transaction in progress")
		return report, nil
	}
	if _, err := conn.ExecContext(ctx, "VACUUM"); err != nil {
		return report, fmt.Errorf("clear all: vacuum: %w", err)
	}
	report.Vacuumed = true
	s.logger.Debug("maintenance complete", "checkpointed", report.Checkpointed)

	return report, nil
}
