package backoff

import (
	"context"
	"errors"
	"fmt"
	"math"
	mrand "math/rand/v2"
	"time"
)

const maxShift = 62

// ErrInvalidPolicy is returned by Retry when the policy allows no attempt.
var ErrInvalidPolicy = errors.New("backoff: policy must allow at least one attempt")

// Exponential returns base * 2^attempt, saturating at math.MaxInt64.
// Negative attempts are treated as 0.
func Exponential(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}

	attempt = min(max(attempt, 0), maxShift)
	multiplier := int64(1) << attempt

	if int64(base) > math.MaxInt64/multiplier {
		return time.Duration(math.MaxInt64)
	}

	return base * time.Duration(multiplier)
}

// FullJitter returns a random duration in [0, delay).
func FullJitter(delay time.Duration) time.Duration {
	if delay <= 0 {
		return 0
	}

	return time.Duration(mrand.Int64N(int64(delay))) // #nosec G404 -- jitter, not a secret
}

// ExponentialWithJitter returns a random duration in [0, base * 2^attempt).
func ExponentialWithJitter(base time.Duration, attempt int) time.Duration {
	return FullJitter(Exponential(base, attempt))
}

// SleepWithContext waits for duration or until ctx is done.
func SleepWithContext(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("backoff: wait interrupted: %w", ctx.Err())
	}
}

// Policy bounds a retry loop.
type Policy struct {
	// Attempts is the total number of calls, including the first.
	Attempts int
	// Base is the delay scale before the first retry.
	Base time.Duration
	// Max caps a single delay. Zero means uncapped.
	Max time.Duration
	// Retryable decides whether an error deserves another attempt.
	// Nil retries every error.
	Retryable func(error) bool
	// OnRetry, when set, observes each failed attempt before the wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultPolicy is used for backend reads: three attempts starting at 100ms.
func DefaultPolicy() Policy {
	return Policy{
		Attempts: 3,
		Base:     100 * time.Millisecond,
		Max:      2 * time.Second,
	}
}

// Delay returns the jittered wait before retry number attempt (0-based).
func (p Policy) Delay(attempt int) time.Duration {
	d := ExponentialWithJitter(p.Base, attempt)
	if p.Max > 0 && d > p.Max {
		return p.Max
	}

	return d
}

// Retry calls fn until it succeeds, the error is not retryable, attempts run
// out or ctx is done. The last error from fn is returned.
func Retry(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	if p.Attempts < 1 {
		return ErrInvalidPolicy
	}

	var err error

	for attempt := 0; attempt < p.Attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}

		if attempt == p.Attempts-1 || (p.Retryable != nil && !p.Retryable(err)) {
			break
		}

		wait := p.Delay(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, err, wait)
		}

		if sleepErr := SleepWithContext(ctx, wait); sleepErr != nil {
			return errors.Join(err, sleepErr)
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Join(err, ctxErr)
		}
	}

	return err
}
