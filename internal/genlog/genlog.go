// Package genlog is the ambient logging wrapper shared by every generator
// package. The teacher repository logs via the standard library's "log"
// package directly (cmd/server/main.go), with no structured-logging
// dependency in its go.mod; genlog keeps that choice but tags each line with
// the emitting subsystem and a level, giving spec.md §7's four log levels
// (Trace/Info/Warn/Error) a concrete home.
package genlog

import (
	"log"
	"os"
)

// Level is a coarse log severity.
type Level int

const (
	Trace Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Trace:
		return "TRACE"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger tags every line with a subsystem name, e.g. "trackinterp" or
// "deathstar".
type Logger struct {
	subsystem string
	min       Level
	out       *log.Logger
}

// New creates a Logger for the given subsystem, writing to stderr at or
// above min.
func New(subsystem string, min Level) *Logger {
	return &Logger{
		subsystem: subsystem,
		min:       min,
		out:       log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (l *Logger) log(level Level, format string, args ...any) {
	if l == nil || level < l.min {
		return
	}
	l.out.Printf("["+level.String()+"] "+l.subsystem+": "+format, args...)
}

func (l *Logger) Tracef(format string, args ...any) { l.log(Trace, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.log(Info, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(Warn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.log(Error, format, args...) }
