package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	rootCommand := newRootCommand()
	var out bytes.Buffer
	rootCommand.SetOut(&out)
	rootCommand.SetErr(&out)
	rootCommand.SetIn(bytes.NewBufferString(stdin))
	rootCommand.SetArgs(append([]string{"--env-file", ""}, args...))
	err := rootCommand.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantLevel slog.Level
	}{
		{
			name:      "debug mode enabled",
			debugMode: true,
			wantLevel: slog.LevelDebug,
		},
		{
			name:      "debug mode disabled",
			debugMode: false,
			wantLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			logger := slog.Default()
			assert.NotNil(t, logger)
			assert.Equal(t, tt.wantLevel <= slog.LevelDebug, logger.Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()
	assert.Equal(t, "l10nkit", cmd.Use)

	for _, path := range [][]string{
		{"components", "extract"},
		{"components", "restore"},
		{"pages", "extract"},
		{"pages", "restore"},
		{"translate", "files"},
		{"translate", "watch"},
		{"preview"},
		{"version"},
	} {
		found, _, err := cmd.Find(path)
		require.NoError(t, err, "%v", path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}

	for _, flag := range []string{"config", "env-file", "debug"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCommand(t *testing.T) {
	got, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "l10nkit dev\n", got)
}

func TestRootCommand_unknownSubcommand(t *testing.T) {
	_, err := execute(t, "", "components", "unknown")
	assert.Error(t, err)
}
