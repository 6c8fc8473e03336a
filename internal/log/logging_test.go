package log_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/NicolasDandanell/rune-c-compiler/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	type testCase struct {
		name     string
		input    string
		expected slog.Level
	}

	testCases := []testCase{
		{name: "trace", input: "trace", expected: log.LevelTrace},
		{name: "debug", input: "debug", expected: slog.LevelDebug},
		{name: "info", input: "info", expected: slog.LevelInfo},
		{name: "empty defaults to info", input: "", expected: slog.LevelInfo},
		{name: "warn", input: "warn", expected: slog.LevelWarn},
		{name: "error", input: "error", expected: slog.LevelError},
		{name: "unknown defaults to info", input: "verbose", expected: slog.LevelInfo},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, log.ParseLevel(tc.input))
		})
	}
}

// captureStreams redirects both console streams into pipes. The returned
// readers close the write end and drain what was logged.
func captureStreams(t *testing.T) (readStdout, readStderr func() string) {
	t.Helper()

	origOut, origErr := os.Stdout, os.Stderr

	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	errR, errW, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout, os.Stderr = outW, errW
	t.Cleanup(func() {
		os.Stdout, os.Stderr = origOut, origErr
	})

	read := func(r, w *os.File) func() string {
		return func() string {
			require.NoError(t, w.Close())
			data, err := io.ReadAll(r)
			require.NoError(t, err)
			return string(data)
		}
	}
	return read(outR, outW), read(errR, errW)
}

func TestSetupLoggerSplitsConsoleStreams(t *testing.T) {
	readStdout, readStderr := captureStreams(t)

	logger, closers, err := log.SetupLogger("info", "")
	require.NoError(t, err)
	assert.Empty(t, closers)

	logger.Log(context.Background(), log.LevelTrace, "noisy")
	logger.Debug("hidden")
	logger.Info("compile started", "files", 3)
	logger.Error("compile failed")

	stdout := readStdout()
	assert.Contains(t, stdout, "compile started")
	assert.Contains(t, stdout, "files=3")
	assert.Contains(t, stdout, "level=INFO")
	assert.NotContains(t, stdout, "noisy")
	assert.NotContains(t, stdout, "hidden")
	assert.NotContains(t, stdout, "compile failed")

	// Piped output is not a terminal, so timestamps stay.
	assert.Contains(t, stdout, "time=")

	stderr := readStderr()
	assert.Contains(t, stderr, "compile failed")
	assert.Contains(t, stderr, "level=ERROR")
	assert.NotContains(t, stderr, "compile started")
}

func TestSetupLoggerWithFile(t *testing.T) {
	_, readStderr := captureStreams(t)

	path := filepath.Join(t.TempDir(), "runec.log")

	logger, closers, err := log.SetupLogger("debug", path)
	require.NoError(t, err)
	require.Len(t, closers, 1)

	logger.Debug("resolving includes")
	logger.Info("generation complete")

	for _, c := range closers {
		require.NoError(t, c.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "resolving includes")
	assert.Contains(t, content, "generation complete")
	assert.Contains(t, content, "time=")

	// With a log file configured, console output moves to stderr.
	stderr := readStderr()
	assert.Contains(t, stderr, "generation complete")
}

func TestSetupLoggerFileOpenFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "runec.log")

	logger, closers, err := log.SetupLogger("info", path)
	assert.Error(t, err)
	assert.Nil(t, logger)
	assert.Nil(t, closers)
}
