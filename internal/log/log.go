// Package log is a small slog wrapper shared by the CLI and the analysis services.
// Output goes to stderr so report output on stdout stays machine readable.
package log

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Level constants matching slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	level  slog.LevelVar
	logger atomic.Pointer[slog.Logger]
)

func init() {
	level.Set(LevelWarn)
	SetOutput(os.Stderr)
}

// SetOutput redirects log output to w.
func SetOutput(w io.Writer) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: &level})
	logger.Store(slog.New(handler))
}

// SetLevel sets the global log level.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// GetLevel returns the current log level.
func GetLevel() slog.Level {
	return level.Level()
}

// Logger returns the shared logger.
func Logger() *slog.Logger {
	return logger.Load()
}

// Debug logs at debug level with key/value attributes.
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs at info level with key/value attributes.
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs at warn level with key/value attributes.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs at error level with key/value attributes.
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}
