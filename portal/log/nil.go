package log

import "context"

// NopLogger discards everything. It is the default logger of every portal
// component until one is injected.
type NopLogger struct{}

var nop Logger = NopLogger{}

// NewNop returns the shared no-op logger.
//
//nolint:ireturn
func NewNop() Logger { return nop }

func (NopLogger) Log(context.Context, Level, string, ...Field) {}

//nolint:ireturn
func (n NopLogger) With(...Field) Logger { return n }

//nolint:ireturn
func (n NopLogger) WithGroup(string) Logger { return n }

func (NopLogger) Enabled(Level) bool { return false }

func (NopLogger) Sync(context.Context) error { return nil }
