// Package vlog is a minimal verbosity logger. A nil *Logger is valid
// and silent, so libraries can log unconditionally and callers opt in
// per instance instead of flipping a global flag.
package vlog

import (
	"fmt"
	"io"
	"os"
)

type Logger struct {
	// if false, Verbosef() is a no-op
	Verbose bool
	// destination, os.Stderr if nil
	Out io.Writer
}

func New(verbose bool) *Logger {
	return &Logger{Verbose: verbose}
}

func (l *Logger) writer() io.Writer {
	if l.Out != nil {
		return l.Out
	}
	return os.Stderr
}

// Logf logs unconditionally. Safe to call on nil receiver.
func (l *Logger) Logf(format string, args ...any) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.writer(), format, args...)
}

// Verbosef logs only if Verbose is set. Safe to call on nil receiver.
func (l *Logger) Verbosef(format string, args ...any) {
	if l == nil || !l.Verbose {
		return
	}
	fmt.Fprintf(l.writer(), format, args...)
}
