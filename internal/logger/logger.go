// Package logger provides verbose logging for promptdeck.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to help users follow matching and storage.
// While the TUI owns the terminal, output goes to a rotating log file instead.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	file    *lumberjack.Logger
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

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	file = nil
}

// UseFile redirects logging to a rotating file at path.
// Every level is written while a file is in use, with a timestamp prefix.
// The returned function restores stderr output and closes the file.
func UseFile(path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     14, // days
	}

	mu.Lock()
	output = lj
	file = lj
	mu.Unlock()

	return func() error {
		mu.Lock()
		defer mu.Unlock()
		if file != lj {
			return nil
		}
		output = os.Stderr
		file = nil
		return lj.Close()
	}, nil
}

func emit(level, format string, args ...any) {
	if file != nil {
		fmt.Fprintf(output, "%s [%s] "+format+"\n",
			append([]any{time.Now().Format(time.RFC3339), level}, args...)...)
		return
	}
	fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose || file != nil {
		emit("DEBUG", format, args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose || file != nil {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose || file != nil {
		emit("INFO", format, args...)
	}
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose || file != nil {
		emit("WARN", format, args...)
	}
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	emit("ERROR", format, args...)
}
