// Package logging provides the leveled logger used by the CLI's
// --debug flag and the HTTP server, tagging messages the way the
// pipeline's components are named ([FormatRecogniser], [Aggregator], …).
package logging

import (
	"log"
	"os"
)

// Level is the logging verbosity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// Logger provides leveled, tagged logging over the standard logger.
type Logger struct {
	level Level
}

// New creates a logger at the given level.
func New(level Level) *Logger {
	return &Logger{level: level}
}

// NewDefault builds a logger from LOG_LEVEL, defaulting to info.
func NewDefault() *Logger {
	level := LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "ERROR":
		level = LevelError
	case "WARN":
		level = LevelWarn
	case "DEBUG":
		level = LevelDebug
	}
	return &Logger{level: level}
}

// Error logs error messages.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LevelError {
		log.Printf("[ERROR] "+format, args...)
	}
}

// Warn logs warning messages.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LevelWarn {
		log.Printf("[WARN] "+format, args...)
	}
}

// Info logs info messages.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LevelInfo {
		log.Printf("[INFO] "+format, args...)
	}
}

// Debug logs debug messages, enabled by the CLI's --debug flag.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LevelDebug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// SetDebug toggles debug-level verbosity, used by --debug/--no-debug.
func (l *Logger) SetDebug(enabled bool) {
	if enabled {
		l.level = LevelDebug
	} else if l.level == LevelDebug {
		l.level = LevelInfo
	}
}

// Default is the package-level logger used where no explicit instance
// is threaded through.
var Default = NewDefault()
