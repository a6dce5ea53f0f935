package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/reptrack/internal/model"
	"github.com/roach88/reptrack/internal/progress"
)

// DailyOptions holds the counter flags shared by daily set and daily record.
type DailyOptions struct {
	*RootOptions
	Pushups    int64
	Squats     int64
	Plank      int64
	BicepLeft  int64
	BicepRight int64
	GoalsMet   bool
	Limit      int
}

// NewDailyCommand creates the daily command group.
func NewDailyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Per-day progress counters",
	}

	cmd.AddCommand(newDailySetCommand(rootOpts))
	cmd.AddCommand(newDailyRecordCommand(rootOpts))
	cmd.AddCommand(newDailyRecentCommand(rootOpts))
	cmd.AddCommand(&cobra.Command{
		Use:   "get <date>",
		Short: "Show the row for one date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				return getDaily(cmdContext(cmd), a, args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "streak",
		Short: "Count consecutive goal-meeting days ending today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				n, err := a.tracker.Streak(cmdContext(cmd))
				if err != nil {
					return a.out.Fail(err)
				}
				return a.out.Emit(map[string]int{"streak": n}, fmt.Sprintf("%d day(s)", n))
			})
		},
	})

	return cmd
}

func newDailySetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DailyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "set <date>",
		Short: "Replace the row for a date",
		Long: `Replace the row for a date.

Every counter is written; counters not given are stored as zero.

Example:
  reptrack daily set 2024-05-01 --pushups 10 --squats 12 --goals-met`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				return setDaily(cmdContext(cmd), a, args[0], opts)
			})
		},
	}

	addCounterFlags(cmd, opts)
	cmd.Flags().Int64Var(&opts.Plank, "plank", 0, "plank seconds")
	cmd.Flags().BoolVar(&opts.GoalsMet, "goals-met", false, "mark the day's goals as met")

	return cmd
}

func newDailyRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DailyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Add reps to today's row",
		Long: `Add reps to today's row and recompute whether the goals are met.

Negative values undo reps; counters never drop below zero. Goals come from
the config file.

Example:
  reptrack daily record --pushups 5 --bicep-left 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				dp, err := a.tracker.Record(cmdContext(cmd), progress.Delta{
					Pushups:    opts.Pushups,
					Squats:     opts.Squats,
					BicepLeft:  opts.BicepLeft,
					BicepRight: opts.BicepRight,
				})
				if err != nil {
					return a.out.Fail(err)
				}
				return a.out.Emit(dp, formatDaily(dp))
			})
		},
	}

	addCounterFlags(cmd, opts)

	return cmd
}

func newDailyRecentCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DailyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recent days, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				ctx := cmdContext(cmd)
				days, err := a.repo.RecentDaily(ctx, opts.Limit).Await(ctx)
				if err != nil {
					return a.out.Fail(err)
				}
				if len(days) == 0 {
					return a.out.Emit(days, "no days recorded")
				}
				lines := make([]string, len(days))
				for i, dp := range days {
					lines[i] = formatDaily(dp)
				}
				return a.out.Emit(days, strings.Join(lines, "\n"))
			})
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 14, "maximum number of days")

	return cmd
}

func addCounterFlags(cmd *cobra.Command, opts *DailyOptions) {
	cmd.Flags().Int64Var(&opts.Pushups, "pushups", 0, "pushups")
	cmd.Flags().Int64Var(&opts.Squats, "squats", 0, "squats")
	cmd.Flags().Int64Var(&opts.BicepLeft, "bicep-left", 0, "left-arm bicep curls")
	cmd.Flags().Int64Var(&opts.BicepRight, "bicep-right", 0, "right-arm bicep curls")
}

func setDaily(ctx context.Context, a *app, date string, opts *DailyOptions) error {
	dp := model.DailyProgress{
		Date:           date,
		Pushups:        opts.Pushups,
		Squats:         opts.Squats,
		PlankSeconds:   opts.Plank,
		BicepLeft:      opts.BicepLeft,
		BicepRight:     opts.BicepRight,
		GoalsMet:       opts.GoalsMet,
		LastUpdatedISO: model.FormatTimestamp(time.Now()),
	}
	if _, err := a.repo.UpsertDaily(ctx, dp).Await(ctx); err != nil {
		return a.out.Fail(err)
	}
	return a.out.Emit(dp, formatDaily(dp))
}

func getDaily(ctx context.Context, a *app, date string) error {
	if err := model.ValidateDate(date); err != nil {
		return a.out.Fail(err)
	}

	got, err := a.repo.GetDaily(ctx, date).Await(ctx)
	if err != nil {
		return a.out.Fail(err)
	}
	if !got.Found {
		return a.out.Fail(fmt.Errorf("day %s: %w", date, errNotFound))
	}
	return a.out.Emit(got.Value, formatDaily(got.Value))
}

func formatDaily(dp model.DailyProgress) string {
	mark := " "
	if dp.GoalsMet {
		mark = "✓"
	}
	return fmt.Sprintf("%s %s\tpushups=%d\tsquats=%d\tplank=%ds\tbicep=%d/%d",
		dp.Date, mark, dp.Pushups, dp.Squats, dp.PlankSeconds, dp.BicepLeft, dp.BicepRight)
}
