package logging

import (
	"log"
	"os"
)

// Logger is a simple leveled logger that writes to the console.
type Logger struct {
	*log.Logger
	debug bool
}

// NewLogger creates a new Logger. Debug output is enabled when the
// LOG_DEBUG environment variable is set.
func NewLogger() *Logger {
	return &Logger{
		Logger: log.New(os.Stdout, "", log.LstdFlags),
		debug:  os.Getenv("LOG_DEBUG") != "",
	}
}

// Info logs an informational message.
func (l *Logger) Info(msg string, args ...interface{}) {
	l.Printf("INFO: "+msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.Printf("WARN: "+msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...interface{}) {
	l.Printf("ERROR: "+msg, args...)
}

// Debug logs a debug message when debug output is enabled.
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.debug {
		l.Printf("DEBUG: "+msg, args...)
	}
}
