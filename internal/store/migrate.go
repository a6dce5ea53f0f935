package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/reptrack/internal/schema"
)

// marker is the latest row of schema_migrations.
type marker struct {
	Version      int
	IdentityHash string
	InstallID    string
}

// queryer is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// prepareSchema decides how to bring the database to the expected schema:
//
//	no marker, no tables      -> create fresh, record marker
//	no marker, tables present -> migrate from PRAGMA user_version, validate, record
//	marker older than latest  -> apply pending steps, validate, record
//	marker current, same hash -> fast path
//	marker current, stale     -> validate, refresh marker
func (s *Store) prepareSchema(ctx context.Context) error {
	m, found, err := readMarker(ctx, s.db)
	if err != nil {
		return fmt.Errorf("read schema marker: %w", err)
	}

	latest := schema.LatestVersion()
	identity := schema.Identity()

	if !found {
		existing, err := existingDataTables(ctx, s.db)
		if err != nil {
			return fmt.Errorf("inspect tables: %w", err)
		}
		if len(existing) == 0 {
			return s.createFresh(ctx)
		}
		return s.adopt(ctx)
	}

	switch {
	case m.Version > latest:
		return fmt.Errorf("%w: version %d, latest known %d", ErrFutureSchema, m.Version, latest)
	case m.Version < latest:
		return s.migrate(ctx, m.Version, m.InstallID)
	case m.IdentityHash == identity:
		s.logger.Debug("schema identity matches", "version", m.Version)
		return nil
	}

	s.logger.Info("schema identity stale, validating", "version", m.Version)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := validateTables(ctx, tx); err != nil {
			return err
		}
		return recordStep(ctx, tx, latest, "identity refresh", identity, m.InstallID)
	})
}

// createFresh creates every table at the latest version in one transaction.
func (s *Store) createFresh(ctx context.Context) error {
	s.logger.Info("creating database schema", "version", schema.LatestVersion())
	installID := newInstallID()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, t := range schema.Tables() {
			if _, err := tx.ExecContext(ctx, schema.CreateStatement(t)); err != nil {
				return fmt.Errorf("create %s: %w", t.Name, err)
			}
		}
		if _, err := tx.ExecContext(ctx, schema.MigrationsTableDDL); err != nil {
			return fmt.Errorf("create %s: %w", schema.TableMigrations, err)
		}
		return recordHistory(ctx, tx, schema.Migrations(), installID)
	})
}

// adopt takes over a database that has data tables but no marker, such as
// one written by the original application. Its PRAGMA user_version says
// which steps already ran; 0 means unknown and the tables are validated as-is.
func (s *Store) adopt(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > schema.LatestVersion() {
		return fmt.Errorf("%w: user_version %d", ErrFutureSchema, version)
	}
	if version == 0 {
		version = schema.LatestVersion()
	}
	s.logger.Info("adopting existing database", "user_version", version)
	return s.migrate(ctx, version, "")
}

// migrate applies every step after from, validates the result and records
// the marker, all in one transaction. A validation failure rolls the steps
// back.
func (s *Store) migrate(ctx context.Context, from int, installID string) error {
	if installID == "" {
		installID = newInstallID()
	}
	pending := schema.Pending(from)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, schema.MigrationsTableDDL); err != nil {
			return fmt.Errorf("create %s: %w", schema.TableMigrations, err)
		}
		for _, m := range pending {
			s.logger.Info("applying migration", "version", m.Version, "description", m.Description)
			for _, stmt := range m.Statements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("migrate to v%d: %w", m.Version, err)
				}
			}
		}
		if err := validateTables(ctx, tx); err != nil {
			return err
		}
		if len(pending) == 0 {
			return recordStep(ctx, tx, from, "adopted", schema.Identity(), installID)
		}
		return recordHistory(ctx, tx, pending, installID)
	})
}

// recordHistory writes one schema_migrations row per step. Only the last row
// carries the identity hash; earlier rows are history.
func recordHistory(ctx context.Context, tx *sql.Tx, steps []schema.Migration, installID string) error {
	for i, m := range steps {
		identity := ""
		if i == len(steps)-1 {
			identity = schema.Identity()
		}
		if err := recordStep(ctx, tx, m.Version, m.Description, identity, installID); err != nil {
			return err
		}
	}
	return nil
}

func recordStep(ctx context.Context, tx *sql.Tx, version int, description, identity, installID string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO schema_migrations
		(version, description, identity_hash, install_id, applied_at)
		VALUES (?, ?, ?, ?, ?)
	`, version, description, identity, installID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record schema version %d: %w", version, err)
	}
	// user_version mirrors the marker for tools that only look at the header
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// readMarker returns the latest schema_migrations row. found is false when
// the table does not exist or is empty.
func readMarker(ctx context.Context, q queryer) (m marker, found bool, err error) {
	exists, err := tableExists(ctx, q, schema.TableMigrations)
	if err != nil || !exists {
		return marker{}, false, err
	}
	err = q.QueryRowContext(ctx, `
		SELECT version, identity_hash, install_id
		FROM schema_migrations
		ORDER BY version DESC
		LIMIT 1
	`).Scan(&m.Version, &m.IdentityHash, &m.InstallID)
	if errors.Is(err, sql.ErrNoRows) {
		return marker{}, false, nil
	}
	if err != nil {
		return marker{}, false, err
	}
	return m, true, nil
}

func tableExists(ctx context.Context, q queryer, name string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// existingDataTables lists which of the expected data tables are present.
func existingDataTables(ctx context.Context, q queryer) ([]string, error) {
	var out []string
	for _, t := range schema.Tables() {
		ok, err := tableExists(ctx, q, t.Name)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, t.Name)
		}
	}
	return out, nil
}

// validateTables compares PRAGMA table_info of every data table with its
// expected descriptor and returns the first mismatch.
func validateTables(ctx context.Context, q queryer) error {
	for _, want := range schema.Tables() {
		found, err := tableInfo(ctx, q, want.Name)
		if err != nil {
			return fmt.Errorf("table_info %s: %w", want.Name, err)
		}
		if !want.Matches(found) {
			return &SchemaMismatchError{Table: want.Name, Expected: want.Columns, Found: found}
		}
	}
	return nil
}

// tableInfo reads the live column set of a table. A missing table yields no
// columns.
func tableInfo(ctx context.Context, q queryer, table string) ([]schema.Column, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := []schema.Column{}
	for rows.Next() {
		var (
			cid     int
			c       schema.Column
			notNull int
			dflt    sql.NullString
		)
		if err := rows.Scan(&cid, &c.Name, &c.Type, &notNull, &dflt, &c.PK); err != nil {
			return nil, err
		}
		c.NotNull = notNull != 0
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func newInstallID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SchemaStep is one applied row of schema_migrations.
type SchemaStep struct {
	Version     int    `json:"version"`
	Description string `json:"description"`
	AppliedAt   string `json:"applied_at"`
}

// SchemaStatus describes the schema marker of an open database.
type SchemaStatus struct {
	Version      int          `json:"version"`
	IdentityHash string       `json:"identity_hash"`
	InstallID    string       `json:"install_id"`
	Current      bool         `json:"current"`
	History      []SchemaStep `json:"history"`
}

// SchemaStatus reports the recorded schema version and migration history.
func (s *Store) SchemaStatus(ctx context.Context) (SchemaStatus, error) {
	m, found, err := readMarker(ctx, s.db)
	if err != nil {
		return SchemaStatus{}, fmt.Errorf("schema status: %w", err)
	}
	if !found {
		return SchemaStatus{}, fmt.Errorf("schema status: no marker recorded")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT version, description, applied_at
		FROM schema_migrations
		ORDER BY version ASC
	`)
	if err != nil {
		return SchemaStatus{}, fmt.Errorf("schema status: %w", err)
	}
	defer rows.Close()

	history := []SchemaStep{}
	for rows.Next() {
		var step SchemaStep
		if err := rows.Scan(&step.Version, &step.Description, &step.AppliedAt); err != nil {
			return SchemaStatus{}, fmt.Errorf("schema status: scan: %w", err)
		}
		history = append(history, step)
	}
	if err := rows.Err(); err != nil {
		return SchemaStatus{}, fmt.Errorf("schema status: iterate: %w", err)
	}

	return SchemaStatus{
		Version:      m.Version,
		IdentityHash: m.IdentityHash,
		InstallID:    m.InstallID,
		Current:      m.Version == schema.LatestVersion() && m.IdentityHash == schema.Identity(),
		History:      history,
	}, nil
}
