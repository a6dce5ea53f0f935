package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/reptrack/internal/progress"
	"github.com/roach88/reptrack/internal/repo"
	"github.com/roach88/reptrack/internal/store"
)

var (
	errOpen         = errors.New("failed to open database")
	errNotConfirmed = errors.New("refusing to run without --yes")
)

// app is the opened database plus the services built on it for one command.
type app struct {
	store   *store.Store
	repo    *repo.Repository
	tracker *progress.Tracker
	out     *OutputFormatter
}

// openApp opens the configured database. A schema mismatch deletes and
// recreates the file when recreate_on_mismatch (or --recreate) is set.
func openApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	out := newFormatter(opts, cmd)
	cfg := opts.Config
	logger := slog.Default()

	out.VerboseLog("Opening database %s", cfg.Database)
	st, err := store.Open(cfg.Database, store.WithLogger(logger))
	if err != nil && store.IsSchemaMismatch(err) && cfg.RecreateOnMismatch {
		logger.Warn("schema mismatch, recreating database", "path", cfg.Database, "error", err)
		if err := store.Destroy(cfg.Database); err != nil {
			return nil, out.Fail(fmt.Errorf("%w: %w", errOpen, err))
		}
		st, err = store.Open(cfg.Database, store.WithLogger(logger))
	}
	if err != nil {
		if store.IsSchemaMismatch(err) || errors.Is(err, store.ErrFutureSchema) {
			return nil, out.Fail(err)
		}
		return nil, out.Fail(fmt.Errorf("%w: %w", errOpen, err))
	}

	return &app{
		store:   st,
		repo:    repo.New(st, repo.Options{Workers: cfg.Workers}),
		tracker: progress.New(st, cfg.Goals, progress.WithLogger(logger)),
		out:     out,
	}, nil
}

// Close stops the workers, then closes the database.
func (a *app) Close() {
	if err := a.repo.Close(); err != nil {
		slog.Error("error stopping workers", "error", err)
	}
	if err := a.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// withApp runs fn against an opened app and closes it afterwards.
func withApp(opts *RootOptions, cmd *cobra.Command, fn func(a *app) error) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
