package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario, fails t on any unmet expectation and
// compares the trace against testdata/golden/{scenario.Name}.golden.
func RunWithGolden(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	h := New(t.TempDir(), 2)
	result, err := h.Run(context.Background(), scenario)
	if err != nil {
		t.Fatalf("run scenario %q: %v", scenario.Name, err)
	}
	for _, f := range result.Failures {
		t.Errorf("%s: %s", scenario.Name, f)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, []byte(result.TraceText()))

	return result
}
