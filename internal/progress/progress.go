// Package progress keeps the per-day counters in daily_progress up to date.
//
// It applies rep deltas to today's row, recomputes whether the day's goals
// were met and derives the current streak of goal-meeting days. Goals are
// supplied by the caller; how they are chosen (levels, XP) is not this
// package's concern.
package progress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/reptrack/internal/model"
)

// StreakWindow is how many recent days Streak inspects.
const StreakWindow = 30

// Goals are the daily targets. Bicep counts left and right curls together.
type Goals struct {
	Push  int64 `yaml:"push" json:"push"`
	Squat int64 `yaml:"squat" json:"squat"`
	Bicep int64 `yaml:"bicep" json:"bicep"`
}

// DefaultGoals are the starting targets.
var DefaultGoals = Goals{Push: 10, Squat: 10, Bicep: 60}

// Met reports whether dp satisfies g.
func (g Goals) Met(dp model.DailyProgress) bool {
	return dp.Pushups >= g.Push &&
		dp.Squats >= g.Squat &&
		dp.BicepLeft+dp.BicepRight >= g.Bicep
}

// Delta is a change to today's counters. Negative values undo reps; the
// stored counters never drop below zero.
type Delta struct {
	Pushups    int64
	Squats     int64
	BicepLeft  int64
	BicepRight int64
}

// Store is the subset of store operations the tracker needs.
type Store interface {
	GetDaily(ctx context.Context, date string) (model.DailyProgress, bool, error)
	UpsertDaily(ctx context.Context, dp model.DailyProgress) error
	RecentDaily(ctx context.Context, limit int) ([]model.DailyProgress, error)
}

// Tracker applies progress updates for "today" as given by its clock.
type Tracker struct {
	store  Store
	goals  Goals
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// New creates a Tracker.
func New(st Store, goals Goals, opts ...Option) *Tracker {
	t := &Tracker{
		store:  st,
		goals:  goals,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Goals returns the tracker's targets.
func (t *Tracker) Goals() Goals {
	return t.goals
}

func (t *Tracker) today() string {
	return model.FormatDate(t.now())
}

// Today returns today's row, creating a zeroed one if none exists yet.
func (t *Tracker) Today(ctx context.Context) (model.DailyProgress, error) {
	date := t.today()
	dp, found, err := t.store.GetDaily(ctx, date)
	if err != nil {
		return model.DailyProgress{}, fmt.Errorf("load today: %w", err)
	}
	if found {
		return dp, nil
	}

	dp = model.EmptyDaily(date, t.now())
	if err := t.store.UpsertDaily(ctx, dp); err != nil {
		return model.DailyProgress{}, fmt.Errorf("create today: %w", err)
	}
	return dp, nil
}

// Record applies d to today's row and writes it back with goalsMet and
// lastUpdatedIso recomputed.
//
// The read and the write are separate store operations; concurrent Record
// calls for the same day are last-writer-wins.
func (t *Tracker) Record(ctx context.Context, d Delta) (model.DailyProgress, error) {
	date := t.today()
	dp, found, err := t.store.GetDaily(ctx, date)
	if err != nil {
		return model.DailyProgress{}, fmt.Errorf("record: load: %w", err)
	}
	if !found {
		dp = model.EmptyDaily(date, t.now())
	}

	dp.Pushups = clamp(dp.Pushups + d.Pushups)
	dp.Squats = clamp(dp.Squats + d.Squats)
	dp.BicepLeft = clamp(dp.BicepLeft + d.BicepLeft)
	dp.BicepRight = clamp(dp.BicepRight + d.BicepRight)
	dp.GoalsMet = t.goals.Met(dp)
	dp.LastUpdatedISO = model.FormatTimestamp(t.now())

	if err := t.store.UpsertDaily(ctx, dp); err != nil {
		return model.DailyProgress{}, fmt.Errorf("record: write: %w", err)
	}
	t.logger.Debug("progress recorded", "date", date, "goals_met", dp.GoalsMet)
	return dp, nil
}

// Streak counts consecutive goal-meeting days ending today. A day without a
// row, or with goals not met, ends the streak.
func (t *Tracker) Streak(ctx context.Context) (int, error) {
	recent, err := t.store.RecentDaily(ctx, StreakWindow)
	if err != nil {
		return 0, fmt.Errorf("streak: %w", err)
	}

	expected := t.now()
	streak := 0
	for _, dp := range recent {
		if dp.Date != model.FormatDate(expected) {
			if dp.Date > model.FormatDate(expected) {
				// Rows dated after today do not count and do not break.
				continue
			}
			break
		}
		if !dp.GoalsMet {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak, nil
}

func clamp(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
