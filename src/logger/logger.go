package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Logger is a wrapper around the standard library logger that tags every
// line with a level and a component name.
type Logger struct {
	*log.Logger
	component string
	debug     bool
}

// New creates a logger for the given component, writing to stdout.
func New(component string) *Logger {
	return NewWithWriter(component, os.Stdout)
}

// NewWithWriter creates a logger for the given component writing to w.
func NewWithWriter(component string, w io.Writer) *Logger {
	return &Logger{
		Logger:    log.New(w, "", 0),
		component: component,
	}
}

// Named returns a logger for another component sharing the same output and
// debug setting.
func (l *Logger) Named(component string) *Logger {
	return &Logger{
		Logger:    l.Logger,
		component: component,
		debug:     l.debug,
	}
}

// SetDebug enables or disables Debug output.
func (l *Logger) SetDebug(enabled bool) {
	l.debug = enabled
}

func (l *Logger) formatMessage(level, format string, v ...interface{}) string {
	timestamp := time.Now().Format(time.RFC3339)
	message := fmt.Sprintf(format, v...)

	if l.component != "" {
		return fmt.Sprintf("[%s] [%s] [%s] %s", timestamp, level, l.component, message)
	}

	return fmt.Sprintf("[%s] [%s] %s", timestamp, level, message)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.Logger.Println(l.formatMessage("INFO", format, v...))
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.Logger.Println(l.formatMessage("ERROR", format, v...))
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.Logger.Println(l.formatMessage("WARN", format, v...))
}

// Debug logs a debug message if debug output is enabled
func (l *Logger) Debug(format string, v ...interface{}) {
	if !l.debug {
		return
	}
	l.Logger.Println(l.formatMessage("DEBUG", format, v...))
}

// Global logger instance for application-wide logging
var Global = New("")

// SetGlobal sets the global logger
func SetGlobal(logger *Logger) {
	Global = logger
}
