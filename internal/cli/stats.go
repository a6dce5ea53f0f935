package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/reptrack/internal/model"
)

// NewStatsCommand creates the stats command group.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate totals over sessions",
		Long: `Aggregate totals over sessions.

A total over no matching sessions prints "none", which is distinct from a
total of zero.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reps <exercise>",
		Short: "Sum repetitions for one exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				ctx := cmdContext(cmd)
				total, err := a.repo.SumRepsForExercise(ctx, args[0]).Await(ctx)
				if err != nil {
					return a.out.Fail(err)
				}
				return a.out.Emit(total, formatTotal(total))
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "xp",
		Short: "Sum experience over all sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				ctx := cmdContext(cmd)
				total, err := a.repo.SumTotalXP(ctx).Await(ctx)
				if err != nil {
					return a.out.Fail(err)
				}
				return a.out.Emit(total, formatTotal(total))
			})
		},
	})

	return cmd
}

func formatTotal(t model.Total) string {
	if !t.Valid {
		return "none"
	}
	return strconv.FormatInt(t.Value, 10)
}
