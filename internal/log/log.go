// Package log provides wig's leveled diagnostics. Messages go to stderr so
// they never interleave with the interactive prompt on stdout.
package log

import (
	"io"
	"log/slog"
	"os"
)

var (
	level  = new(slog.LevelVar)
	logger = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetLevel sets the global log level.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// GetLevel returns the current log level.
func GetLevel() slog.Level {
	return level.Level()
}

// SetOutput redirects log output, e.g. to a buffer in tests.
func SetOutput(w io.Writer) {
	logger = newLogger(w)
}

// Debug logs at debug level. args are slog key/value pairs.
func Debug(msg string, args ...any) { logger.Debug(msg, args...) }

// Warn logs at warn level.
func Warn(msg string, args ...any) { logger.Warn(msg, args...) }
