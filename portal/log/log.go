package log

import (
	"context"
	"fmt"
	"strings"
)

// Logger is the structured logging contract of the portal. Wizard sessions,
// the backend client and the gateway all log through it, usually with the
// session-scoped fields below bound by With.
type Logger interface {
	Log(ctx context.Context, level Level, msg string, fields ...Field)
	With(fields ...Field) Logger
	WithGroup(name string) Logger
	Enabled(level Level) bool
	Sync(ctx context.Context) error
}

// OrNop returns l, or a no-op logger when l is nil. Constructors use it so a
// missing logger option never panics.
//
//nolint:ireturn
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNop()
	}

	return l
}

// Level is a log severity. Lower values are more severe; a logger set to a
// level also emits everything more severe.
type Level uint8

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var levelNames = map[Level]string{
	LevelError: "error",
	LevelWarn:  "warn",
	LevelInfo:  "info",
	LevelDebug: "debug",
}

func (level Level) String() string {
	if name, ok := levelNames[level]; ok {
		return name
	}

	return "unknown"
}

// ParseLevel reads LOG_LEVEL values. "warning" is accepted for warn.
func ParseLevel(lvl string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(lvl))
	if name == "warning" {
		name = "warn"
	}

	for level, candidate := range levelNames {
		if candidate == name {
			return level, nil
		}
	}

	return LevelError, fmt.Errorf("not a valid Level: %q", lvl)
}

// Field is a key/value attribute attached to a log event.
type Field struct {
	Key   string
	Value any
}

// Keys shared by every component, so wizard, client and gateway lines for the
// same session can be joined.
const (
	KeyFlow           = "flow"
	KeySessionID      = "session_id"
	KeyIdempotencyKey = "idempotency_key"
	KeyOperation      = "operation"
	KeyStatus         = "status"
)

// Any creates a field with an arbitrary value. Never pass bearer tokens or
// raw request bodies through it.
func Any(key string, value any) Field { return Field{Key: key, Value: value} }

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an integer field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Bool creates a boolean field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Err creates the conventional `error` field.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// Flow tags a line with the money-movement flow (draw, prepayment).
func Flow[F ~string](flow F) Field { return String(KeyFlow, string(flow)) }

// SessionID tags a line with the gateway wizard session.
func SessionID(id string) Field { return String(KeySessionID, id) }

// IdempotencyKey tags a line with the commit key. Keys are not secret; they
// are logged so retries of the same commit can be matched.
func IdempotencyKey(key string) Field { return String(KeyIdempotencyKey, key) }

// Operation tags a line with the backend operation name.
func Operation(name string) Field { return String(KeyOperation, name) }

// Status tags a line with an HTTP status code.
func Status(code int) Field { return Int(KeyStatus, code) }
