// Package logger provides leveled console logging for the Insightly CLI.
//
// Debug, Info and Warn output appears only in verbose mode (--verbose).
// Error output always appears. Scoped loggers from Named prefix every
// line with a component name so upload, ask and storage traces can be
// told apart on a shared stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Logger writes lines tagged with a component name.
// The zero value logs without a component tag.
type Logger struct {
	component string
}

// Named returns a logger whose lines carry the given component.
func Named(component string) Logger {
	return Logger{component: component}
}

// Debug prints a message if verbose mode is enabled.
func (l Logger) Debug(format string, args ...any) {
	l.write("DEBUG", false, format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func (l Logger) Info(format string, args ...any) {
	l.write("INFO", false, format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func (l Logger) Warn(format string, args ...any) {
	l.write("WARN", false, format, args...)
}

// Error prints an error message regardless of verbose mode.
func (l Logger) Error(format string, args ...any) {
	l.write("ERROR", true, format, args...)
}

func (l Logger) write(level string, always bool, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose && !always {
		return
	}
	if l.component != "" {
		format = l.component + ": " + format
	}
	fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
}

var std Logger

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	std.Debug(format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	std.Info(format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	std.Warn(format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	std.Error(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
