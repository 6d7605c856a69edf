// Package logger configures the structured logger used by the minic
// pipeline and command line tool.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Config holds logger configuration
type Config struct {
	Level   LogLevel
	Format  string // "text" or "json"
	Output  io.Writer
	LogFile string // appended to instead of Output when set
}

// DefaultConfig logs warnings and errors as text on stderr.
func DefaultConfig() Config {
	return Config{
		Level:  LevelWarn,
		Format: "text",
		Output: os.Stderr,
	}
}

var current atomic.Pointer[slog.Logger]

// Init replaces the package logger. A nil Output and an empty Format fall
// back to DefaultConfig. The returned closer releases the log file, if one
// was opened.
func Init(cfg Config) (io.Closer, error) {
	defaults := DefaultConfig()
	output := cfg.Output
	var closer io.Closer = nopCloser{}
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		output = file
		closer = file
	}
	if output == nil {
		output = defaults.Output
	}
	format := cfg.Format
	if format == "" {
		format = defaults.Format
	}

	opts := &slog.HandlerOptions{Level: toSlogLevel(cfg.Level)}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	case "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		closer.Close()
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	current.Store(slog.New(handler))
	return closer, nil
}

// ParseLevel maps "debug", "info", "warn" and "error" to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Get returns the configured logger, or a logger that discards everything
// when Init was never called.
func Get() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return discard
}

var discard = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))

// With returns the configured logger with the given attributes
func With(args ...any) *slog.Logger {
	return Get().With(args...)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Compiler-specific logging helpers

// LogPhase logs the completion of a compilation phase
func LogPhase(l *slog.Logger, phase string, args ...any) {
	l.Debug("phase complete", append([]any{"phase", phase}, args...)...)
}
