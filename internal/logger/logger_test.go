package logger

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureStderr runs fn with os.Stderr redirected into a pipe and returns
// everything fn wrote there.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stderr
	defer func() { os.Stderr = orig }()

	r, w, err := os.Pipe()
	require.NoError(t, err, "failed to create stderr pipe")
	os.Stderr = w

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err, "failed to read stderr pipe")

	return string(out)
}

func Test_parseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"DEBUG": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"Info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"ERROR": slog.LevelError,
	} {
		got, err := parseLevel(in)
		require.NoError(t, err, "parseLevel(%q)", in)
		require.Equal(t, want, got, "parseLevel(%q)", in)
	}

	for _, in := range []string{"", "trace", "loud"} {
		_, err := parseLevel(in)
		require.Error(t, err, "parseLevel(%q) should be rejected", in)
	}
}

func TestNewTextLogger(t *testing.T) {
	out := captureStderr(t, func() {
		l, err := NewTextLogger(LevelInfo)
		require.NoError(t, err)

		l.Info("payment confirmed", "method", "stripe")
	})

	require.Contains(t, out, "payment confirmed")
	require.Contains(t, out, "method=stripe")
	require.Contains(t, out, "INFO")
}

func TestNewTextLogger_BadLevel(t *testing.T) {
	_, err := NewTextLogger("shouting")
	require.Error(t, err)
}

func TestNewJSONLogger(t *testing.T) {
	out := captureStderr(t, func() {
		l, err := NewJSONLogger(LevelInfo)
		require.NoError(t, err)

		l.Info("payment confirmed", "method", "stripe")
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entry), "log line should be valid JSON")
	require.Equal(t, "payment confirmed", entry["msg"])
	require.Equal(t, "INFO", entry["level"])
	require.Equal(t, "stripe", entry["method"])
}

func TestNewNoOpLogger(t *testing.T) {
	out := captureStderr(t, func() {
		l := NewNoOpLogger()
		l.Debug("dropped")
		l.Info("dropped")
		l.Warn("dropped")
		l.Error("dropped")
	})

	require.Empty(t, out, "no-op logger should write nothing")
}

func TestLogger_LevelFiltering(t *testing.T) {
	logAt := map[string]func(Logger){
		LevelDebug: func(l Logger) { l.Debug("x") },
		LevelInfo:  func(l Logger) { l.Info("x") },
		LevelWarn:  func(l Logger) { l.Warn("x") },
		LevelError: func(l Logger) { l.Error("x") },
	}
	severity := map[string]int{LevelDebug: 0, LevelInfo: 1, LevelWarn: 2, LevelError: 3}

	for configured := range severity {
		for emitted, logFn := range logAt {
			wantLogged := severity[emitted] >= severity[configured]

			out := captureStderr(t, func() {
				l, err := NewTextLogger(configured)
				require.NoError(t, err)
				logFn(l)
			})

			require.Equal(t, wantLogged, len(out) > 0,
				"logger at %s, record at %s: logged=%v", configured, emitted, len(out) > 0)
		}
	}
}

func TestLogger_With(t *testing.T) {
	out := captureStderr(t, func() {
		l, err := NewTextLogger(LevelInfo)
		require.NoError(t, err)

		l.With("component", "returns").Info("batch finished", "processed", 3)
	})

	require.Contains(t, out, "component=returns")
	require.Contains(t, out, "processed=3")
	require.Contains(t, out, "batch finished")
}
