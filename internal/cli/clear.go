package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every session, daily row and the profile",
		Long: `Delete every session, daily row and the profile in one transaction,
then checkpoint the write-ahead log and compact the file.

The schema is kept. Requires --yes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return newFormatter(rootOpts, cmd).Fail(errNotConfirmed)
			}
			return withApp(rootOpts, cmd, func(a *app) error {
				ctx := cmdContext(cmd)
				report, err := a.repo.ClearAll(ctx).Await(ctx)
				if err != nil {
					return a.out.Fail(err)
				}
				a.out.VerboseLog("checkpointed=%t vacuumed=%t", report.Checkpointed, report.Vacuumed)
				return a.out.Emit(report, fmt.Sprintf("%d row(s) deleted", report.RowsDeleted))
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	return cmd
}
