package log

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
)

// GoLogger is the Go built-in (log) implementation of Logger.
//
// It is meant for local runs and tests that want readable output; services use
// the zap adapter. All string values are sanitized before being written.
type GoLogger struct {
	Level  Level
	out    *stdlog.Logger
	fields []Field
	group  string
}

// NewGoLogger builds a GoLogger writing to w at the given level. A nil writer
// falls back to stderr.
func NewGoLogger(w io.Writer, level Level) *GoLogger {
	if w == nil {
		w = os.Stderr
	}

	return &GoLogger{
		Level: level,
		out:   stdlog.New(w, "", stdlog.LstdFlags),
	}
}

// Log writes a single line: `[level] msg key=value ...`.
func (l *GoLogger) Log(_ context.Context, level Level, msg string, fields ...Field) {
	if !l.Enabled(level) {
		return
	}

	var b strings.Builder

	b.WriteString("[")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(sanitizeLogString(msg))

	for _, f := range l.fields {
		writeField(&b, "", f)
	}

	for _, f := range fields {
		writeField(&b, l.group, f)
	}

	l.logger().Print(b.String())
}

func writeField(b *strings.Builder, group string, f Field) {
	key := f.Key
	if group != "" {
		key = group + "." + key
	}

	b.WriteString(" ")
	b.WriteString(sanitizeLogString(key))
	b.WriteString("=")
	b.WriteString(sanitizeLogString(fmt.Sprint(f.Value)))
}

func (l *GoLogger) logger() *stdlog.Logger {
	if l.out == nil {
		return stdlog.Default()
	}

	return l.out
}

// With returns a child logger carrying additional fields.
//
//nolint:ireturn
func (l *GoLogger) With(fields ...Field) Logger {
	if l == nil {
		return NewNop()
	}

	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)

	for _, f := range fields {
		if l.group != "" {
			f.Key = l.group + "." + f.Key
		}

		merged = append(merged, f)
	}

	return &GoLogger{Level: l.Level, out: l.out, fields: merged, group: l.group}
}

// WithGroup returns a child logger whose subsequent field keys are prefixed by name.
//
//nolint:ireturn
func (l *GoLogger) WithGroup(name string) Logger {
	if l == nil {
		return NewNop()
	}

	group := name
	if l.group != "" {
		group = l.group + "." + name
	}

	return &GoLogger{Level: l.Level, out: l.out, fields: l.fields, group: group}
}

// Enabled reports whether the level is within the configured verbosity.
func (l *GoLogger) Enabled(level Level) bool {
	if l == nil {
		return false
	}

	return l.Level >= level
}

// Sync is a no-op: the stdlib logger writes synchronously.
func (l *GoLogger) Sync(_ context.Context) error { return nil }
