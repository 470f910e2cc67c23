package domain

import (
	"io"
	"time"
)

// ConfigProvider defines operations for reading and writing configuration.
type ConfigProvider interface {
	// Get returns the value for a configuration key.
	Get(key string) (string, bool)

	// GetAll returns all configuration values.
	GetAll() (map[string]string, error)

	// Set sets a configuration value.
	Set(key, value string) error

	// Unset removes a configuration value.
	Unset(key string) error
}

// Logger defines logging operations.
type Logger interface {
	// Debug logs a debug message.
	Debug(format string, args ...any)

	// Info logs an info message.
	Info(format string, args ...any)

	// Warn logs a warning message.
	Warn(format string, args ...any)

	// Error logs an error message.
	Error(format string, args ...any)

	// Close closes the logger.
	Close() error
}

// OutputWriter defines output operations.
type OutputWriter interface {
	io.Writer

	// Printf formats and prints to the output.
	Printf(format string, args ...any) (int, error)

	// Println prints a line to the output.
	Println(args ...any) (int, error)
}

// Run is one recorded command invocation.
type Run struct {
	ID        string
	Namespace string
	Command   string
	Args      []string
	Resolved  bool // false when the fallback task runner handled it
	ExitCode  int
	StartedAt time.Time
	Duration  time.Duration
}

// HistoryStore defines operations for recording and listing invocations.
type HistoryStore interface {
	// Record stores a finished invocation.
	Record(run Run) error

	// Recent returns the most recent invocations, newest first.
	Recent(limit int) ([]Run, error)

	// Close closes the store connection.
	Close() error
}
