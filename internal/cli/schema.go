package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command group.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect the database schema marker",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the schema version, identity hash and migration history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				status, err := a.store.SchemaStatus(cmdContext(cmd))
				if err != nil {
					return a.out.Fail(err)
				}

				var b strings.Builder
				fmt.Fprintf(&b, "version:  %d\n", status.Version)
				fmt.Fprintf(&b, "identity: %s\n", status.IdentityHash)
				fmt.Fprintf(&b, "install:  %s\n", status.InstallID)
				fmt.Fprintf(&b, "current:  %t\n", status.Current)
				b.WriteString("history:")
				for _, step := range status.History {
					fmt.Fprintf(&b, "\n  v%d  %s  %s", step.Version, step.AppliedAt, step.Description)
				}
				return a.out.Emit(status, b.String())
			})
		},
	})

	return cmd
}
