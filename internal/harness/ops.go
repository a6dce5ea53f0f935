package harness

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/reptrack/internal/model"
	"github.com/roach88/reptrack/internal/repo"
)

// Defaults for omitted step arguments.
const (
	defaultTimestamp = "2024-01-01T00:00:00Z"
	defaultDate      = "2024-01-01"
)

// opFunc runs one operation and formats its result.
type opFunc func(ctx context.Context, r *repo.Repository, a args) (string, error)

var ops = map[string]opFunc{
	"insert_session": func(ctx context.Context, r *repo.Repository, a args) (string, error) {
		id, err := r.InsertSession(ctx, model.Session{
			ID:              a.intArg("id", 0),
			TimestampISO:    a.stringArg("at", defaultTimestamp),
			Exercise:        a.stringArg("exercise", "pushups"),
			Reps:            a.intArg("reps", 0),
			DurationSeconds: a.floatArg("duration", 0),
			TotalXP:         a.intArg("xp", 0),
		}).Await(ctx)
		return fmt.Sprintf("id=%d", id), err
	},
	"delete_session": func(ctx context.Context, r *repo.Repository, a args) (string, error) {
		n, err := r.DeleteSession(ctx, a.intArg("id", 0)).Await(ctx)
		return fmt.Sprintf("deleted=%d", n), err
	},
	"list_sessions": func(ctx context.Context, r *repo.Repository, a args) (string, error) {
		sessions, err := r.ListSessions(ctx).Await(ctx)
		ids := make([]string, len(sessions))
		for i, s := range sessions {
			ids[i] = fmt.Sprint(s.ID)
		}
		return "sessions=[" + strings.Join(ids, " ") + "]", err
	},
	"get_session": func(ctx context.Context, r *repo.Repository, a args) (string, error) {
		got, err := r.GetSession(ctx, a.intArg("id", 0)).Await(ctx)
		if err != nil || !got.Found {
			return "not found", err
		}
		s := got.Value
		return fmt.Sprintf("session id=%d exercise=%s reps=%d xp=%d", s.ID, s.Exercise, s.Reps, s.TotalXP), nil
	},
	"count_sessions": func(ctx context.Context, r *repo.Repository, a args) (string, error) {
		n, err := r.CountSessions(ctx).Await(ctx)
		return fmt.Sprintf("count=%d", n), err
	},
	"sum_reps": func(ctx context.Context, r *repo.Repository, a args) (string, error) {
		total, err := r.SumRepsForExercise(ctx, a.stringArg("exercise", "")).Await(ctx)
		return "sum=" + formatTotal(total), err
	},
	"sum_xp": func(ctx context.Context, r *repo.Repository, a args) (string, error) {
		total, err := r.SumTotalXP(ctx).Await(ctx)
		return "sum=" + formatTotal(total), err
	},
	"upsert_daily": func(ctx context.Context, r *repo.Repository, a args) (string, error) {
		_, err := r.UpsertDaily(ctx, model.DailyProgress{
			Date:           a.stringArg("date", defaultDate),
			Pushups:        a.intArg("pushups", 0),
			Squats:         a.intArg("squats", 0),
			PlankSeconds:   a.intArg("plank", 0),
			BicepLeft:      a.intArg("bicep_left", 0),
			BicepRight:     a.intArg("bicep_right", 0),
			GoalsMet:       a.boolArg("goals_met", false),
			LastUpdatedISO: a.stringArg("at", defaultTimestamp),
		}).Await(ctx)
		return "ok", err
	},
	"get_daily": func(ctx context.Context, r *repo.Repository, a args) (string, error) {
		got, err := r.GetDaily(ctx, a.stringArg("date", defaultDate)).Await(ctx)
		if err != nil || !got.Found {
			return "not found", err
		}
		d := got.Value
		return fmt.Sprintf("daily date=%s pushups=%d squats=%d plank=%d bicep=%d/%d goals_met=%t",
			d.Date, d.Pushups, d.Squats, d.PlankSeconds, d.BicepLeft, d.BicepRight, d.GoalsMet), nil
	},
	"recent_daily": func(ctx context.Context, r *repo.Repository, a args) (string, error) {
		days, err := r.RecentDaily(ctx, int(a.intArg("limit", 14))).Await(ctx)
		dates := make([]string, len(days))
		for i, d := range days {
			dates[i] = d.Date
		}
		return "days=[" + strings.Join(dates, " ") + "]", err
	},
	"upsert_profile": func(ctx context.Context, r *repo.Repository, a args) (string, error) {
		_, err := r.UpsertProfile(ctx, model.Profile{
			TotalXP: a.intArg("xp", 0),
			Name:    a.stringArg("name", ""),
		}).Await(ctx)
		return "ok", err
	},
	"rename_profile": func(ctx context.Context, r *repo.Repository, a args) (string, error) {
		_, err := r.UpdateProfileName(ctx, a.stringArg("name", "")).Await(ctx)
		return "ok", err
	},
	"set_profile_xp": func(ctx context.Context, r *repo.Repository, a args) (string, error) {
		_, err := r.SetProfileXP(ctx, a.intArg("xp", 0)).Await(ctx)
		return "ok", err
	},
	"get_profile": func(ctx context.Context, r *repo.Repository, a args) (string, error) {
		got, err := r.GetProfile(ctx).Await(ctx)
		if err != nil || !got.Found {
			return "not found", err
		}
		return fmt.Sprintf("profile xp=%d name=%q", got.Value.TotalXP, got.Value.Name), nil
	},
	"clear_all": func(ctx context.Context, r *repo.Repository, a args) (string, error) {
		report, err := r.ClearAll(ctx).Await(ctx)
		return fmt.Sprintf("cleared=%d", report.RowsDeleted), err
	},
}

// Ops returns the supported operation names, sorted.
func Ops() []string {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatTotal(t model.Total) string {
	if !t.Valid {
		return "none"
	}
	return fmt.Sprint(t.Value)
}

// args wraps step arguments decoded from YAML.
type args map[string]any

func (a args) intArg(key string, def int64) int64 {
	switch v := a[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return def
	}
}

func (a args) floatArg(key string, def float64) float64 {
	switch v := a[key].(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	default:
		return def
	}
}

func (a args) stringArg(key, def string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return def
}

func (a args) boolArg(key string, def bool) bool {
	if v, ok := a[key].(bool); ok {
		return v
	}
	return def
}
