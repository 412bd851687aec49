//go:build unit

package circuitbreaker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHealthChecker_Validation(t *testing.T) {
	t.Parallel()

	m := NewManager(log.NewNop())

	_, err := NewHealthChecker(m, 0, time.Second, nil)
	assert.ErrorIs(t, err, ErrInvalidHealthCheckInterval)

	_, err = NewHealthChecker(m, time.Second, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidHealthCheckTimeout)
}

func TestHealthChecker_ResetsOpenBreakerWhenProbeSucceeds(t *testing.T) {
	t.Parallel()

	m := NewManager(log.NewNop())

	cfg := tripFast()
	cfg.Timeout = time.Hour

	_, err := m.GetOrCreate("portal-api", cfg)
	require.NoError(t, err)

	hc, err := NewHealthChecker(m, time.Hour, time.Second, log.NewNop())
	require.NoError(t, err)

	var probes atomic.Int32

	hc.Register("portal-api", func(context.Context) error {
		if probes.Add(1) == 1 {
			return errors.New("still down")
		}

		return nil
	})

	m.RegisterStateChangeListener(hc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hc.Start(ctx)
	defer hc.Stop()

	for range 3 {
		_, _ = m.Execute(context.Background(), "portal-api", failing)
	}

	assert.Eventually(t, func() bool { return probes.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, StateOpen, m.State("portal-api"))

	hc.OnStateChange("portal-api", StateClosed, StateOpen)

	assert.Eventually(t, func() bool { return m.IsHealthy("portal-api") }, time.Second, 5*time.Millisecond)
	assert.Equal(t, map[string]State{"portal-api": StateClosed}, hc.Status())
}

func TestHealthChecker_SkipsHealthyServices(t *testing.T) {
	t.Parallel()

	m := NewManager(log.NewNop())
	_, err := m.GetOrCreate("portal-api", DefaultConfig())
	require.NoError(t, err)

	hc, err := NewHealthChecker(m, 5*time.Millisecond, time.Second, nil)
	require.NoError(t, err)

	var probes atomic.Int32

	hc.Register("portal-api", func(context.Context) error {
		probes.Add(1)
		return nil
	})

	hc.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	hc.Stop()
	hc.Stop()

	assert.Zero(t, probes.Load())
}
