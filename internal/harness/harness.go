package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/roach88/reptrack/internal/model"
	"github.com/roach88/reptrack/internal/repo"
	"github.com/roach88/reptrack/internal/store"
)

// Error kinds accepted in Expect.Error.
const (
	ErrorKindConstraint = "constraint"
	ErrorKindInvalid    = "invalid"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Step   int
	Op     string
	Result string
}

func (e TraceEvent) String() string {
	return fmt.Sprintf("%02d %s %s", e.Step, e.Op, e.Result)
}

// Result is the outcome of a scenario run.
type Result struct {
	Trace    []TraceEvent
	Failures []string
}

// Pass reports whether every expectation held.
func (r *Result) Pass() bool {
	return len(r.Failures) == 0
}

// TraceText renders the trace one event per line.
func (r *Result) TraceText() string {
	var b strings.Builder
	for _, e := range r.Trace {
		b.WriteString(e.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Harness runs scenarios in fresh databases under a directory.
type Harness struct {
	dir     string
	workers int
	logger  *slog.Logger
}

// New creates a harness that places scenario databases in dir.
func New(dir string, workers int) *Harness {
	return &Harness{dir: dir, workers: workers, logger: slog.Default()}
}

// Run executes scenario against a new database named after it.
// Step failures are collected in the Result; the returned error is reserved
// for infrastructure problems such as the database failing to open.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	path := filepath.Join(h.dir, scenario.Name+".db")
	if err := store.Destroy(path); err != nil {
		return nil, err
	}

	st, err := store.Open(path, store.WithLogger(h.logger))
	if err != nil {
		return nil, fmt.Errorf("open scenario database: %w", err)
	}
	defer st.Close()

	r := repo.New(st, repo.Options{Workers: h.workers})
	defer r.Close()

	return Execute(ctx, r, scenario), nil
}

// Execute runs every step of scenario through r.
func Execute(ctx context.Context, r *repo.Repository, scenario *Scenario) *Result {
	result := &Result{Trace: make([]TraceEvent, 0, len(scenario.Steps))}

	for i, step := range scenario.Steps {
		n := i + 1
		out, err := ops[step.Op](ctx, r, args(step.Args))
		if err != nil {
			out = "error=" + errorKind(err)
		}
		result.Trace = append(result.Trace, TraceEvent{Step: n, Op: step.Op, Result: out})

		if failure := check(step, out, err); failure != "" {
			result.Failures = append(result.Failures, fmt.Sprintf("step %d (%s): %s", n, step.Op, failure))
		}
	}

	return result
}

// check compares a step outcome with its expectation. A step without an
// expectation must not fail.
func check(step Step, out string, err error) string {
	exp := step.Expect
	if exp == nil {
		if err != nil {
			return fmt.Sprintf("unexpected error: %v", err)
		}
		return ""
	}

	if exp.Error != "" {
		if err == nil {
			return fmt.Sprintf("expected %s error, got result %q", exp.Error, out)
		}
		if kind := errorKind(err); kind != exp.Error {
			return fmt.Sprintf("expected %s error, got %v", exp.Error, err)
		}
		return ""
	}

	if err != nil {
		return fmt.Sprintf("unexpected error: %v", err)
	}
	if exp.Result != "" && exp.Result != out {
		return fmt.Sprintf("result = %q, want %q", out, exp.Result)
	}
	return ""
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, store.ErrConstraint):
		return ErrorKindConstraint
	case errors.Is(err, model.ErrInvalid):
		return ErrorKindInvalid
	default:
		return err.Error()
	}
}
