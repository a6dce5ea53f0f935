// Package harness runs YAML scenarios against a reptrack database.
//
// A scenario is a list of store operations, each with an optional
// expectation on its outcome:
//
//	name: pushups
//	description: two pushup sessions sum to 35
//	steps:
//	  - op: insert_session
//	    args: {exercise: pushups, reps: 20}
//	  - op: sum_reps
//	    args: {exercise: pushups}
//	    expect: {result: "sum=20"}
//
// Steps run in order through a repo.Repository, so every operation takes
// the same asynchronous path production callers use. Each step produces a
// one-line trace event; RunWithGolden compares the whole trace against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
