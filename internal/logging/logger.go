// Package logging provides a small leveled logger used throughout diffr's
// core and command-line surface.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
)

// DebugEnabled controls whether Debug-level output is emitted. It is a
// package variable (rather than a per-logger field) so that a single flag
// parsed by the CLI can toggle debug logging across every sublogger sharing
// the root.
var DebugEnabled = false

// Logger is the main logger type. It has the novel property that it still
// functions if nil, but it doesn't log anything. It is safe for concurrent
// use.
type Logger struct {
	// prefix is any prefix specified for the logger.
	prefix string
	// output is the underlying standard library logger.
	output *log.Logger
}

// RootLogger is the root logger from which all other loggers derive. It
// writes to stderr so that stdout remains free for human/JSON result output.
var RootLogger = &Logger{output: log.New(os.Stderr, "", log.LstdFlags)}

// Sublogger creates a new sublogger with the specified name appended to this
// logger's prefix.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}
	return &Logger{prefix: prefix, output: l.output}
}

func (l *Logger) line(line string) {
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}
	l.output.Output(3, line)
}

// Print logs information with semantics equivalent to fmt.Print.
func (l *Logger) Print(v ...any) {
	if l != nil {
		l.line(fmt.Sprint(v...))
	}
}

// Printf logs information with semantics equivalent to fmt.Printf.
func (l *Logger) Printf(format string, v ...any) {
	if l != nil {
		l.line(fmt.Sprintf(format, v...))
	}
}

// Infof logs informational output, unconditionally.
func (l *Logger) Infof(format string, v ...any) {
	if l != nil {
		l.line(color.CyanString("Info: ") + fmt.Sprintf(format, v...))
	}
}

// Debug logs information only if debugging is enabled.
func (l *Logger) Debug(v ...any) {
	if l != nil && DebugEnabled {
		l.line(fmt.Sprint(v...))
	}
}

// Debugf logs information only if debugging is enabled.
func (l *Logger) Debugf(format string, v ...any) {
	if l != nil && DebugEnabled {
		l.line(fmt.Sprintf(format, v...))
	}
}

// Warnf logs a warning, colorized yellow. Warnings indicate a recoverable
// failure that does not abort the calling operation (e.g. a cache write that
// could not be persisted).
func (l *Logger) Warnf(format string, v ...any) {
	if l != nil {
		l.line(color.YellowString("Warning: "+format, v...))
	}
}

// Warn logs an error as a warning.
func (l *Logger) Warn(err error) {
	if l != nil {
		l.line(color.YellowString("Warning: %v", err))
	}
}

// Errorf logs an error, colorized red.
func (l *Logger) Errorf(format string, v ...any) {
	if l != nil {
		l.line(color.RedString("Error: "+format, v...))
	}
}

// Error logs an error.
func (l *Logger) Error(err error) {
	if l != nil {
		l.line(color.RedString("Error: %v", err))
	}
}

// writer adapts line-oriented callbacks to io.Writer, splitting arbitrary
// writes on newlines and buffering incomplete trailing fragments.
type writer struct {
	callback func(string)
	buffer   []byte
}

func trimCarriageReturn(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func (w *writer) Write(p []byte) (int, error) {
	w.buffer = append(w.buffer, p...)
	var processed int
	remaining := w.buffer
	for {
		index := bytes.IndexByte(remaining, '\n')
		if index == -1 {
			break
		}
		w.callback(string(trimCarriageReturn(remaining[:index])))
		processed += index + 1
		remaining = remaining[index+1:]
	}
	if processed > 0 {
		leftover := len(w.buffer) - processed
		if leftover > 0 {
			copy(w.buffer[:leftover], w.buffer[processed:])
		}
		w.buffer = w.buffer[:leftover]
	}
	return len(p), nil
}

// Writer returns an io.Writer that writes lines using Print.
func (l *Logger) Writer() io.Writer {
	if l == nil {
		return io.Discard
	}
	return &writer{callback: l.Print}
}
