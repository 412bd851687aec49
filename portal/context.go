package portal

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/log"
)

// ErrNilParentContext indicates that a nil parent context was provided
var ErrNilParentContext = errors.New("cannot create context from nil parent")

type customContextKey string

// CustomContextKey is the context key used to store CustomContextKeyValue.
var CustomContextKey = customContextKey("portal_context")

// CustomContextKeyValue holds the request-scoped facilities attached to context.
type CustomContextKeyValue struct {
	HeaderID string
	Logger   log.Logger
}

func valuesFrom(ctx context.Context) CustomContextKeyValue {
	if values, ok := ctx.Value(CustomContextKey).(*CustomContextKeyValue); ok && values != nil {
		return *values
	}

	return CustomContextKeyValue{}
}

// NewLoggerFromContext extracts the Logger stored in ctx, or a no-op logger.
//
//nolint:ireturn
func NewLoggerFromContext(ctx context.Context) log.Logger {
	if ctx == nil {
		return log.NewNop()
	}

	if logger := valuesFrom(ctx).Logger; logger != nil {
		return logger
	}

	return log.NewNop()
}

// ContextWithLogger returns a copy of ctx carrying logger.
func ContextWithLogger(ctx context.Context, logger log.Logger) context.Context {
	values := valuesFrom(ctx)
	values.Logger = logger

	return context.WithValue(ctx, CustomContextKey, &values)
}

// ContextWithHeaderID returns a copy of ctx carrying the request id.
func ContextWithHeaderID(ctx context.Context, headerID string) context.Context {
	values := valuesFrom(ctx)
	values.HeaderID = headerID

	return context.WithValue(ctx, CustomContextKey, &values)
}

// HeaderIDFromContext returns the request id stored in ctx, minting a fresh
// UUID when none is present so outbound calls always carry one.
func HeaderIDFromContext(ctx context.Context) string {
	if ctx != nil {
		if id := strings.TrimSpace(valuesFrom(ctx).HeaderID); id != "" {
			return id
		}
	}

	return uuid.NewString()
}

// WithTimeoutSafe creates a context with the given timeout, keeping the
// parent's deadline when it is already shorter.
func WithTimeoutSafe(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc, error) {
	if parent == nil {
		return nil, nil, ErrNilParentContext
	}

	if deadline, ok := parent.Deadline(); ok && time.Until(deadline) < timeout {
		ctx, cancel := context.WithCancel(parent)
		return ctx, cancel, nil
	}

	ctx, cancel := context.WithTimeout(parent, timeout)

	return ctx, cancel, nil
}
