package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTextLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newText(&buf, slog.LevelInfo)

	l.Debug("hidden")
	l.Info("cursor committed", "x", 10, "y", 20)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "cursor committed")
	assert.Contains(t, out, "x=10")
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, slogLevel("warn", slog.LevelDebug))
	assert.Equal(t, slog.LevelDebug, slogLevel("", slog.LevelDebug))
	assert.Equal(t, slog.LevelInfo, slogLevel("loud", slog.LevelInfo))
}

func TestZapAdapterFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewZapFrom(zap.New(core))

	l.Warn("state corrupt", "path", "cursor.json")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "state corrupt", entry.Message)
	assert.Equal(t, "cursor.json", entry.ContextMap()["path"])
}

func TestZapFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.log")
	l, err := FromOptions(Options{Format: "zap", Level: "debug", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	l.Info("scroll finished", "scrolled", 480)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"scroll finished"`)
	assert.Contains(t, string(data), `"scrolled":480`)
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Error("ignored", "k", "v")
	})
}
