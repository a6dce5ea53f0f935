package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/reptrack/internal/model"
)

// SessionOptions holds flags for session add.
type SessionOptions struct {
	*RootOptions
	ID       int64
	At       string
	Exercise string
	Reps     int64
	Duration float64
	XP       int64
}

// NewSessionCommand creates the session command group.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Record and inspect workout sessions",
	}

	cmd.AddCommand(newSessionAddCommand(rootOpts))
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				return listSessions(cmdContext(cmd), a)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				return getSession(cmdContext(cmd), a, args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				return deleteSession(cmdContext(cmd), a, args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Count sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				ctx := cmdContext(cmd)
				n, err := a.repo.CountSessions(ctx).Await(ctx)
				if err != nil {
					return a.out.Fail(err)
				}
				return a.out.Emit(map[string]int64{"count": n}, strconv.FormatInt(n, 10))
			})
		},
	})

	return cmd
}

func newSessionAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Insert a session",
		Long: `Insert a workout session.

The id is assigned by the database unless --id is given. Inserting an id
that already exists fails and leaves the stored session unchanged.

Example:
  reptrack session add --exercise pushups --reps 20 --duration 31.5 --xp 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				return addSession(cmdContext(cmd), a, opts)
			})
		},
	}

	cmd.Flags().Int64Var(&opts.ID, "id", 0, "explicit session id (0 lets the database assign one)")
	cmd.Flags().StringVar(&opts.At, "at", "", "RFC 3339 completion time (default now)")
	cmd.Flags().StringVar(&opts.Exercise, "exercise", "", "exercise name (required)")
	cmd.Flags().Int64Var(&opts.Reps, "reps", 0, "repetitions")
	cmd.Flags().Float64Var(&opts.Duration, "duration", 0, "duration in seconds")
	cmd.Flags().Int64Var(&opts.XP, "xp", 0, "experience awarded")
	_ = cmd.MarkFlagRequired("exercise")

	return cmd
}

func addSession(ctx context.Context, a *app, opts *SessionOptions) error {
	at := opts.At
	if at == "" {
		at = model.FormatTimestamp(time.Now())
	}

	id, err := a.repo.InsertSession(ctx, model.Session{
		ID:              opts.ID,
		TimestampISO:    at,
		Exercise:        opts.Exercise,
		Reps:            opts.Reps,
		DurationSeconds: opts.Duration,
		TotalXP:         opts.XP,
	}).Await(ctx)
	if err != nil {
		return a.out.Fail(err)
	}
	return a.out.Emit(map[string]int64{"id": id}, fmt.Sprintf("session %d added", id))
}

func listSessions(ctx context.Context, a *app) error {
	sessions, err := a.repo.ListSessions(ctx).Await(ctx)
	if err != nil {
		return a.out.Fail(err)
	}

	lines := make([]string, len(sessions))
	for i, s := range sessions {
		lines[i] = formatSession(s)
	}
	if len(lines) == 0 {
		return a.out.Emit(sessions, "no sessions")
	}
	return a.out.Emit(sessions, strings.Join(lines, "\n"))
}

func getSession(ctx context.Context, a *app, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return a.out.Fail(err)
	}

	got, err := a.repo.GetSession(ctx, id).Await(ctx)
	if err != nil {
		return a.out.Fail(err)
	}
	if !got.Found {
		return a.out.Fail(fmt.Errorf("session %d: %w", id, errNotFound))
	}
	return a.out.Emit(got.Value, formatSession(got.Value))
}

func deleteSession(ctx context.Context, a *app, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return a.out.Fail(err)
	}

	n, err := a.repo.DeleteSession(ctx, id).Await(ctx)
	if err != nil {
		return a.out.Fail(err)
	}
	return a.out.Emit(map[string]int64{"deleted": n}, fmt.Sprintf("%d session(s) deleted", n))
}

func formatSession(s model.Session) string {
	return fmt.Sprintf("%d\t%s\t%s\treps=%d\tduration=%gs\txp=%d",
		s.ID, s.TimestampISO, s.Exercise, s.Reps, s.DurationSeconds, s.TotalXP)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: session id must be a positive integer, got %q", model.ErrInvalid, arg)
	}
	return id, nil
}

// cmdContext returns the command's context, or Background when run outside
// Execute.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
