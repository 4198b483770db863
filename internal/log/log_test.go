package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmark/internal/config"
)

func entries(t *testing.T, data string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(data), "\n") {
		if line == "" {
			continue
		}
		var e map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &e), line)
		out = append(out, e)
	}
	return out
}

func TestWriterLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, LevelInfo)
	ctx := context.Background()

	l.Debug(ctx, "hidden", nil)
	l.Info(ctx, "shown", Fields{"b": 2, "a": "one"})
	l.Warn(ctx, "careful", nil)
	l.LogError(ctx, errors.New("boom"))

	got := entries(t, buf.String())
	require.Len(t, got, 3)
	assert.Equal(t, "shown", got[0]["msg"])
	assert.Equal(t, "one", got[0]["a"])
	assert.EqualValues(t, 2, got[0]["b"])
	assert.Equal(t, "WARN", got[1]["level"])
	assert.Equal(t, "boom", got[2]["msg"])

	buf.Reset()
	l.SetLevel(LevelDebug)
	assert.True(t, l.Enabled(LevelDebug))
	l.Debug(ctx, "now visible", nil)
	assert.Len(t, entries(t, buf.String()), 1)
}

func TestFileLogger(t *testing.T) {
	cfg := config.Default()
	cfg.LogFolder = filepath.Join(t.TempDir(), "logs")

	l, err := NewLogger(cfg, LevelInfo)
	require.NoError(t, err)
	ctx := context.Background()
	l.LogCommand(ctx, "map new")
	l.Error(ctx, "failed", Fields{"error": "x"})
	l.Info(ctx, "started", nil)
	require.NoError(t, l.Close())

	read := func(name string) []map[string]any {
		data, err := os.ReadFile(filepath.Join(cfg.LogFolder, name))
		require.NoError(t, err)
		return entries(t, string(data))
	}
	commands := read(cfg.CommandLog)
	require.Len(t, commands, 1)
	assert.Equal(t, "map new", commands[0]["msg"])
	assert.Equal(t, "COMMAND", commands[0]["level_name"])

	assert.Len(t, read(cfg.ErrorLog), 1)
	assert.Len(t, read(cfg.InfoLog), 1)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel(" DEBUG "))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("chatty"))
	assert.Equal(t, LevelInfo, ParseLevel("command"))
	assert.Equal(t, "COMMAND", LevelCommand.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}
