package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/reptrack/internal/progress"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultDatabase, cfg.Database)
	assert.Equal(t, progress.DefaultGoals, cfg.Goals)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reptrack.yaml")
	content := `
database: /tmp/fit.db
workers: 2
recreate_on_mismatch: true
log_level: debug
goals:
  push: 25
  squat: 30
  bicep: 40
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/fit.db", cfg.Database)
	assert.Equal(t, 2, cfg.Workers)
	assert.True(t, cfg.RecreateOnMismatch)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, progress.Goals{Push: 25, Squat: 30, Bicep: 40}, cfg.Goals)
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("workers: 8\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, DefaultDatabase, cfg.Database)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero workers", "workers: 0\n"},
		{"too many workers", "workers: 1000\n"},
		{"bad level", "log_level: chatty\n"},
		{"empty database", "database: \"\"\n"},
		{"negative goal", "goals:\n  push: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("workers: [1, 2"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "WARN"}.Level())
	assert.Equal(t, slog.LevelError, Config{LogLevel: "error"}.Level())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "whatever"}.Level())
}
