package circuitbreaker

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrServiceUnavailable is returned while a breaker is open or probing.
	ErrServiceUnavailable = errors.New("circuitbreaker: service unavailable")
	// ErrUnknownService is returned by Execute for a service without a breaker.
	ErrUnknownService = errors.New("circuitbreaker: unknown service, call GetOrCreate first")
	// ErrEmptyServiceName is returned when a breaker is requested without a name.
	ErrEmptyServiceName = errors.New("circuitbreaker: service name is empty")
	// ErrInvalidHealthCheckInterval indicates that the health check interval must be positive.
	ErrInvalidHealthCheckInterval = errors.New("circuitbreaker: health check interval must be positive")
	// ErrInvalidHealthCheckTimeout indicates that the health check timeout must be positive.
	ErrInvalidHealthCheckTimeout = errors.New("circuitbreaker: health check timeout must be positive")
)

// Manager manages circuit breakers for backend services.
type Manager interface {
	// GetOrCreate returns the breaker for serviceName, creating it with config.
	GetOrCreate(serviceName string, config Config) (CircuitBreaker, error)

	// Execute runs fn through the named breaker.
	Execute(ctx context.Context, serviceName string, fn func() (any, error)) (any, error)

	// State returns the current state, StateUnknown for unregistered services.
	State(serviceName string) State

	// Counts returns the current counts for a circuit breaker.
	Counts(serviceName string) Counts

	// IsHealthy returns true only while the breaker is closed.
	IsHealthy(serviceName string) bool

	// Reset recreates the breaker in closed state with its stored config.
	Reset(serviceName string)

	// RegisterStateChangeListener registers a listener for state changes.
	RegisterStateChangeListener(listener StateChangeListener)
}

// CircuitBreaker is a single service breaker.
type CircuitBreaker interface {
	Execute(fn func() (any, error)) (any, error)
	State() State
	Counts() Counts
}

// Config holds circuit breaker configuration.
type Config struct {
	MaxRequests         uint32        // Max requests in half-open state
	Interval            time.Duration // Closed-state window after which counts are cleared
	Timeout             time.Duration // Open period before half-open
	ConsecutiveFailures uint32        // Consecutive failures to trigger open state
	FailureRatio        float64       // Failure ratio to trigger open (e.g., 0.5 for 50%)
	MinRequests         uint32        // Min requests before checking ratio

	// IsSuccessful reports whether an error still counts as a healthy answer.
	// Nil treats every error as a failure.
	IsSuccessful func(err error) bool
}

// State represents circuit breaker state.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
	StateUnknown  State = "unknown"
)

// Counts represents circuit breaker statistics.
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// HealthCheckFunc checks whether a service answers again.
type HealthCheckFunc func(ctx context.Context) error

// StateChangeListener is notified when a circuit breaker changes state.
type StateChangeListener interface {
	OnStateChange(serviceName string, from State, to State)
}

// StateChangeFunc adapts a function to StateChangeListener.
type StateChangeFunc func(serviceName string, from State, to State)

// OnStateChange calls f.
func (f StateChangeFunc) OnStateChange(serviceName string, from State, to State) {
	f(serviceName, from, to)
}
