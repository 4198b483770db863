// Package log provides functionality for logging commands, errors and
// diagnostics as JSON lines.
package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"mindmark/internal/config"
)

// Fields carries structured context attached to a log entry.
type Fields map[string]any

// Logger writes command, error and info entries to separate sinks.
type Logger struct {
	commandLogger *slog.Logger
	errorLogger   *slog.Logger
	infoLogger    *slog.Logger
	closers       []io.Closer
	level         LogLevel
}

// NewLogger creates a new Logger writing into the log folder named by cfg.
func NewLogger(cfg *config.Config, level LogLevel) (*Logger, error) {
	if err := os.MkdirAll(cfg.LogFolder, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	var files []io.Closer
	open := func(name string) (*os.File, error) {
		f, err := os.OpenFile(filepath.Join(cfg.LogFolder, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			for _, c := range files {
				c.Close()
			}
			return nil, fmt.Errorf("failed to open log file %s: %w", name, err)
		}
		files = append(files, f)
		return f, nil
	}

	commandFile, err := open(cfg.CommandLog)
	if err != nil {
		return nil, err
	}
	errorFile, err := open(cfg.ErrorLog)
	if err != nil {
		return nil, err
	}
	infoFile, err := open(cfg.InfoLog)
	if err != nil {
		return nil, err
	}

	return &Logger{
		commandLogger: newJSON(commandFile, slog.LevelInfo),
		errorLogger:   newJSON(errorFile, slog.LevelWarn),
		infoLogger:    newJSON(infoFile, slog.LevelDebug),
		closers:       files,
		level:         level,
	}, nil
}

// NewWriterLogger sends every entry to w.
func NewWriterLogger(w io.Writer, level LogLevel) *Logger {
	l := newJSON(w, slog.LevelDebug)
	return &Logger{commandLogger: l, errorLogger: l, infoLogger: l, level: level}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWriterLogger(io.Discard, LevelError)
}

func newJSON(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Enabled reports whether entries at level are written.
func (l *Logger) Enabled(level LogLevel) bool {
	return level <= l.level
}

// SetLevel changes the most verbose level that is written.
func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
}

func (l *Logger) LogCommand(ctx context.Context, command string) {
	l.commandLogger.InfoContext(ctx, command, "level_name", LevelCommand.String())
}

func (l *Logger) LogError(ctx context.Context, err error) {
	l.Error(ctx, err.Error(), nil)
}

func (l *Logger) Error(ctx context.Context, msg string, fields Fields) {
	l.write(ctx, l.errorLogger, LevelError, msg, fields)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields Fields) {
	l.write(ctx, l.errorLogger, LevelWarn, msg, fields)
}

func (l *Logger) Info(ctx context.Context, msg string, fields Fields) {
	l.write(ctx, l.infoLogger, LevelInfo, msg, fields)
}

func (l *Logger) Debug(ctx context.Context, msg string, fields Fields) {
	l.write(ctx, l.infoLogger, LevelDebug, msg, fields)
}

func (l *Logger) write(ctx context.Context, sink *slog.Logger, level LogLevel, msg string, fields Fields) {
	if !l.Enabled(level) {
		return
	}
	sink.LogAttrs(ctx, level.toSlogLevel(), msg, fields.attrs()...)
}

// attrs returns the fields sorted by key so entries are stable.
func (f Fields) attrs() []slog.Attr {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, f[k]))
	}
	return out
}

// Close closes all log files.
func (l *Logger) Close() error {
	var errs []error
	for _, c := range l.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close log file: %w", err))
		}
	}
	l.closers = nil
	return errors.Join(errs...)
}
