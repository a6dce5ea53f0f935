package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/reptrack/internal/model"
)

// ProfileOptions holds flags for profile set.
type ProfileOptions struct {
	*RootOptions
	XP   int64
	Name string
}

// NewProfileCommand creates the profile command group.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProfileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or replace the user profile",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				ctx := cmdContext(cmd)
				got, err := a.repo.GetProfile(ctx).Await(ctx)
				if err != nil {
					return a.out.Fail(err)
				}
				if !got.Found {
					return a.out.Fail(fmt.Errorf("profile: %w", errNotFound))
				}
				return a.out.Emit(got.Value, formatProfile(got.Value))
			})
		},
	})

	set := &cobra.Command{
		Use:   "set",
		Short: "Replace the profile",
		Long: `Replace the whole profile. Fields not given are reset.

Example:
  reptrack profile set --xp 150 --name Alex`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				ctx := cmdContext(cmd)
				p := model.Profile{TotalXP: opts.XP, Name: model.NormalizeName(opts.Name)}
				if _, err := a.repo.UpsertProfile(ctx, p).Await(ctx); err != nil {
					return a.out.Fail(err)
				}
				return a.out.Emit(p, formatProfile(p))
			})
		},
	}
	set.Flags().Int64Var(&opts.XP, "xp", 0, "total experience")
	set.Flags().StringVar(&opts.Name, "name", "", "display name")
	cmd.AddCommand(set)

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <name>",
		Short: "Change the display name, keeping experience",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				ctx := cmdContext(cmd)
				if _, err := a.repo.UpdateProfileName(ctx, args[0]).Await(ctx); err != nil {
					return a.out.Fail(err)
				}
				name := model.NormalizeName(args[0])
				return a.out.Emit(map[string]string{"name": name}, fmt.Sprintf("renamed to %q", name))
			})
		},
	})

	return cmd
}

func formatProfile(p model.Profile) string {
	name := p.Name
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("%s\txp=%d", name, p.TotalXP)
}
