// Package logger provides the leveled logging contract used by the nexus CLI.
package logger

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/mesh-intelligence/nexus/pkg/types"
)

// Logger defines the nexus logging contract.
// Implementations should support standard log levels and be safe for concurrent use.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Level orders log severities; messages below the configured level are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a level name (debug|info|warn|error) to a Level.
// Unknown or empty names map to LevelInfo.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case types.LogLevelDebug:
		return LevelDebug
	case types.LogLevelWarn:
		return LevelWarn
	case types.LogLevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// StdLogger wraps Go's standard logger to implement the nexus logging contract.
type StdLogger struct {
	logger *log.Logger
	level  Level
}

// New creates a StdLogger writing to w at the given level.
func New(w io.Writer, level Level) *StdLogger {
	return &StdLogger{
		logger: log.New(w, "", log.LstdFlags),
		level:  level,
	}
}

// NewStdLogger creates a StdLogger on stderr at info level. Stdout is left
// to command output.
func NewStdLogger() *StdLogger {
	return New(os.Stderr, LevelInfo)
}

func (l *StdLogger) Info(msg string, args ...any) {
	l.logf(LevelInfo, "[INFO] ", msg, args)
}

func (l *StdLogger) Warn(msg string, args ...any) {
	l.logf(LevelWarn, "[WARN] ", msg, args)
}

func (l *StdLogger) Error(msg string, args ...any) {
	l.logf(LevelError, "[ERROR] ", msg, args)
}

func (l *StdLogger) Debug(msg string, args ...any) {
	l.logf(LevelDebug, "[DEBUG] ", msg, args)
}

func (l *StdLogger) logf(level Level, prefix, msg string, args []any) {
	if level < l.level {
		return
	}
	l.logger.Printf(prefix+msg, args...)
}

// Default provides a global default logger instance.
var Default Logger = NewStdLogger()
