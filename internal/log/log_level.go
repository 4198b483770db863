package log

import (
	"log/slog"
	"strings"
)

// LogLevel orders entries from always written (commands) to most verbose.
// A logger writes an entry when its level is at or below the configured one.
type LogLevel int

const (
	LevelCommand LogLevel = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{
	LevelCommand: "COMMAND",
	LevelError:   "ERROR",
	LevelWarn:    "WARN",
	LevelInfo:    "INFO",
	LevelDebug:   "DEBUG",
}

// slogLevels maps each level onto the handler level it is filtered by.
// Commands go to their own sink and are written at info.
var slogLevels = [...]slog.Level{
	LevelCommand: slog.LevelInfo,
	LevelError:   slog.LevelError,
	LevelWarn:    slog.LevelWarn,
	LevelInfo:    slog.LevelInfo,
	LevelDebug:   slog.LevelDebug,
}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel reads the log_level setting. "warning" is accepted for warn;
// anything unrecognized, including "command", falls back to info.
func ParseLevel(s string) LogLevel {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "warning") {
		return LevelWarn
	}
	for l := LevelError; l <= LevelDebug; l++ {
		if strings.EqualFold(s, levelNames[l]) {
			return l
		}
	}
	return LevelInfo
}

func (l LogLevel) toSlogLevel() slog.Level {
	if l < 0 || int(l) >= len(slogLevels) {
		return slog.LevelInfo
	}
	return slogLevels[l]
}
