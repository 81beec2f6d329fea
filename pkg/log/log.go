// Package log provides a simple leveled logger built on top of the standard library's slog package.
//
// By default it configures a global logger writing JSON (or text if LOG_FORMAT=text)
// to os.Stderr. The log level is controlled globally via SetLevel and is typically
// initialized from configuration or environment variables.
//
// Use SetOutput to redirect log output, primarily for testing. It replaces the
// default os.Stderr writer and returns a function to restore it.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log level names accepted by ParseLevel.
const (
	levelDebugStr = "DEBUG"
	levelInfoStr  = "INFO"
	levelWarnStr  = "WARN"
	levelErrorStr = "ERROR"
)

var (
	logger        *slog.Logger
	globalLeveler           = &slog.LevelVar{}
	outputWriter  io.Writer = os.Stderr

	// ErrInvalidLogLevel indicates an invalid log level string was provided.
	ErrInvalidLogLevel = fmt.Errorf("invalid log level")
)

func init() {
	globalLeveler.Set(slog.LevelInfo)
	configureLogger()
}

// configureLogger rebuilds the global logger from the current outputWriter and
// globalLeveler. JSON output drops the time attribute so that log lines are
// byte-stable across runs; the text handler keeps timestamps.
func configureLogger() {
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))
	opts := &slog.HandlerOptions{Level: globalLeveler}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(outputWriter, opts)
	} else {
		opts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}
		handler = slog.NewJSONHandler(outputWriter, opts)
	}
	logger = slog.New(handler)
}

// SetOutput changes the output destination for the logger.
// It returns a function that restores the original output writer.
// This is primarily intended for testing.
func SetOutput(w io.Writer) (restore func()) {
	originalWriter := outputWriter
	outputWriter = w
	configureLogger()
	return func() {
		outputWriter = originalWriter
		configureLogger()
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}

// Logger returns the underlying slog.Logger.
func Logger() *slog.Logger {
	return logger
}

// SetLevel changes the log level at runtime.
func SetLevel(level Level) {
	globalLeveler.Set(slog.Level(level))
}

// CurrentLevel returns the level the logger is currently filtering at.
func CurrentLevel() Level {
	return Level(globalLeveler.Level())
}

// Level is a log level type compatible with slog.Level. It exists so callers
// outside this package never import slog just to pick a verbosity.
type Level int8

// Log level definitions.
const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return levelDebugStr
	case LevelInfo:
		return levelInfoStr
	case LevelWarn:
		return levelWarnStr
	case LevelError:
		return levelErrorStr
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string and returns the corresponding Level.
// On parse failure it returns LevelInfo along with ErrInvalidLogLevel.
func ParseLevel(levelStr string) (Level, error) {
	switch strings.ToUpper(levelStr) {
	case levelDebugStr:
		return LevelDebug, nil
	case levelInfoStr:
		return LevelInfo, nil
	case levelWarnStr, "WARNING":
		return LevelWarn, nil
	case levelErrorStr:
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %s", ErrInvalidLogLevel, levelStr)
	}
}
