// Package config loads reptrack settings from a YAML file.
//
// Every loaded configuration is checked against the embedded CUE schema
// (schema.cue) before use.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/reptrack/internal/progress"
)

//go:embed schema.cue
var schemaCUE string

// DefaultDatabase is the database path used when none is configured.
const DefaultDatabase = "reptrack.db"

// Config holds every setting the CLI needs.
type Config struct {
	Database           string         `yaml:"database" json:"database"`
	Workers            int            `yaml:"workers" json:"workers"`
	RecreateOnMismatch bool           `yaml:"recreate_on_mismatch" json:"recreate_on_mismatch"`
	LogLevel           string         `yaml:"log_level" json:"log_level"`
	Goals              progress.Goals `yaml:"goals" json:"goals"`
}

// ErrInvalid is returned (wrapped) when a configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: DefaultDatabase,
		Workers:  4,
		LogLevel: "info",
		Goals:    progress.DefaultGoals,
	}
}

// Load reads path over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cfg against the CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	value := ctx.Encode(c)
	if err := value.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Level maps LogLevel to a slog level. Unknown values fall back to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
