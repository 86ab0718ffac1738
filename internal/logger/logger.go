// Package logger prints progress from the cleaning tools to stderr when the
// -verbose flag is set. Quiet by default so the tools stay pipeline friendly.
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
	out     io.Writer = os.Stderr
)

// SetVerbose toggles verbose output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// SetOutput redirects log output, mainly for tests. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Debug logs a formatted debug line when verbose is on.
func Debug(format string, args ...any) { emit("DEBUG", format, args...) }

// Info logs a formatted informational line when verbose is on.
func Info(format string, args ...any) { emit("INFO", format, args...) }

// Warn logs a formatted warning line when verbose is on.
func Warn(format string, args ...any) { emit("WARN", format, args...) }

func emit(level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(out, "["+level+"] "+format+"\n", args...)
}
