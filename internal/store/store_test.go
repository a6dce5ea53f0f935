package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/reptrack/internal/schema"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_CreatesAllTables(t *testing.T) {
	s := createTestStore(t)

	tables := []string{
		schema.TableSessions,
		schema.TableDailyProgress,
		schema.TableUserProfile,
		schema.TableMigrations,
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	status, err := s.SchemaStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Current)
	assert.Equal(t, schema.LatestVersion(), status.Version)
	assert.Len(t, status.History, schema.LatestVersion())
}

func TestOpen_KeepsInstallID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	first, err := s1.SchemaStatus(ctx)
	require.NoError(t, err)
	s1.Close()

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	second, err := s2.SchemaStatus(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, first.InstallID)
	assert.Equal(t, first.InstallID, second.InstallID)
}

func TestOpen_InvalidPath(t *testing.T) {
	path := "/nonexistent/dir/test.db"

	_, err := Open(path)
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestClose_MultipleCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("first Close() failed: %v", err)
	}

	// Second close must not panic
	_ = s.Close()
}

func TestPragma_JournalMode(t *testing.T) {
	s := createTestStore(t)
	if err := s.verifyPragma("journal_mode", "wal"); err != nil {
		t.Error(err)
	}
}

func TestPragma_BusyTimeout(t *testing.T) {
	s := createTestStore(t)
	if err := s.verifyPragma("busy_timeout", "5000"); err != nil {
		t.Error(err)
	}
}

func TestPragma_UserVersionMirrorsMarker(t *testing.T) {
	s := createTestStore(t)
	if err := s.verifyPragma("user_version", "5"); err != nil {
		t.Error(err)
	}
}

// rawDB opens path without going through Open, for building fixtures.
func rawDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	return db
}

func TestOpen_FastPathSkipsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	s.Close()

	// Drift the sessions table but leave the identity marker current.
	db := rawDB(t, path)
	_, err = db.Exec("DROP TABLE sessions")
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE sessions (id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL, timestampIso TEXT NOT NULL, exercise TEXT NOT NULL, reps INTEGER NOT NULL, durationSeconds INTEGER NOT NULL, totalXp INTEGER NOT NULL)")
	require.NoError(t, err)
	db.Close()

	s, err = Open(path)
	require.NoError(t, err, "matching marker must take the fast path")
	s.Close()
}

func TestOpen_StaleMarkerDetectsMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	s.Close()

	db := rawDB(t, path)
	_, err = db.Exec("DROP TABLE sessions")
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE sessions (id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL, timestampIso TEXT NOT NULL, exercise TEXT NOT NULL, reps INTEGER NOT NULL, durationSeconds INTEGER NOT NULL, totalXp INTEGER NOT NULL)")
	require.NoError(t, err)
	_, err = db.Exec("UPDATE schema_migrations SET identity_hash = 'stale'")
	require.NoError(t, err)
	db.Close()

	_, err = Open(path)
	require.Error(t, err)
	assert.True(t, IsSchemaMismatch(err))

	var mismatch *SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, schema.TableSessions, mismatch.Table)
	assert.Contains(t, err.Error(), "durationSeconds REAL NOT NULL")
	assert.Contains(t, err.Error(), "durationSeconds INTEGER NOT NULL")
}

func TestOpen_StaleMarkerRefreshedWhenSchemaMatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	s.Close()

	db := rawDB(t, path)
	_, err = db.Exec("UPDATE schema_migrations SET identity_hash = 'stale'")
	require.NoError(t, err)
	db.Close()

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	status, err := s.SchemaStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Current)
	assert.Equal(t, schema.Identity(), status.IdentityHash)
}

func TestOpen_MigratesOlderDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	// A database as the original app left it at version 3.
	db := rawDB(t, path)
	for _, m := range schema.Migrations()[:3] {
		for _, stmt := range m.Statements {
			_, err := db.Exec(stmt)
			require.NoError(t, err)
		}
	}
	_, err := db.Exec("PRAGMA user_version = 3")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO user_profile (id, totalXp) VALUES (1, 250)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO daily_progress (date, pushups, lastUpdatedIso) VALUES ('2024-04-30', 12, '2024-04-30T20:00:00Z')")
	require.NoError(t, err)
	db.Close()

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	status, err := s.SchemaStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, status.Version)
	assert.True(t, status.Current)

	p, found, err := s.GetProfile(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(250), p.TotalXP)
	assert.Equal(t, "", p.Name)

	dp, found, err := s.GetDaily(ctx, "2024-04-30")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(12), dp.Pushups)
	assert.Equal(t, int64(0), dp.BicepLeft)
}

func TestOpen_AdoptsCurrentLegacyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	db := rawDB(t, path)
	_, err := db.Exec(schema.CreateScript())
	require.NoError(t, err)
	_, err = db.Exec("PRAGMA user_version = 5")
	require.NoError(t, err)
	db.Close()

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	status, err := s.SchemaStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Current)
}

func TestOpen_LegacyMismatchLeavesDatabaseUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	db := rawDB(t, path)
	_, err := db.Exec("CREATE TABLE sessions (id INTEGER PRIMARY KEY, exercise TEXT)")
	require.NoError(t, err)
	db.Close()

	_, err = Open(path)
	require.Error(t, err)
	assert.True(t, IsSchemaMismatch(err))

	db = rawDB(t, path)
	defer db.Close()
	var n int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE name = 'schema_migrations'").Scan(&n))
	assert.Equal(t, 0, n, "failed validation must roll back")
}

func TestOpen_FutureSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	s.Close()

	db := rawDB(t, path)
	_, err = db.Exec("INSERT INTO schema_migrations (version, description, identity_hash, install_id, applied_at) VALUES (99, 'future', 'x', 'y', 'z')")
	require.NoError(t, err)
	db.Close()

	_, err = Open(path)
	assert.ErrorIs(t, err, ErrFutureSchema)
}

func TestDestroy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	s.Close()

	require.NoError(t, Destroy(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Destroying again is fine.
	assert.NoError(t, Destroy(path))
}
