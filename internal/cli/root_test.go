package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "reptrack", cmd.Use)
	assert.Contains(t, cmd.Long, "SQLite")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"session", "add"}, {"session", "list"}, {"session", "get"}, {"session", "delete"}, {"session", "count"},
		{"stats", "reps"}, {"stats", "xp"},
		{"daily", "set"}, {"daily", "get"}, {"daily", "recent"}, {"daily", "record"}, {"daily", "streak"},
		{"profile", "get"}, {"profile", "set"}, {"profile", "rename"},
		{"clear"},
		{"schema", "status"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"db", "config", "recreate"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestSessionAddFlags(t *testing.T) {
	cmd := NewRootCommand()
	addCmd, _, err := cmd.Find([]string{"session", "add"})
	require.NoError(t, err)

	idFlag := addCmd.Flags().Lookup("id")
	require.NotNil(t, idFlag)
	assert.Equal(t, "0", idFlag.DefValue)

	recentCmd, _, err := cmd.Find([]string{"daily", "recent"})
	require.NoError(t, err)
	limitFlag := recentCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "14", limitFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := runCLI(t, "--format", "xml", "--db", t.TempDir()+"/x.db", "session", "count")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}
