package circuitbreaker

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/log"
)

// HealthChecker probes services whose breaker is not closed and resets the
// breaker once the probe succeeds. It is also a StateChangeListener: a breaker
// that opens is probed right away instead of waiting for the next tick.
type HealthChecker struct {
	manager        Manager
	services       map[string]HealthCheckFunc
	interval       time.Duration
	checkTimeout   time.Duration
	logger         log.Logger
	immediateCheck chan string
	stop           chan struct{}
	stopOnce       sync.Once
	wg             sync.WaitGroup
	mu             sync.RWMutex
}

// NewHealthChecker validates interval and checkTimeout and returns a stopped
// checker.
func NewHealthChecker(manager Manager, interval, checkTimeout time.Duration, logger log.Logger) (*HealthChecker, error) {
	if interval <= 0 {
		return nil, ErrInvalidHealthCheckInterval
	}

	if checkTimeout <= 0 {
		return nil, ErrInvalidHealthCheckTimeout
	}

	if logger == nil {
		logger = log.NewNop()
	}

	return &HealthChecker{
		manager:        manager,
		services:       make(map[string]HealthCheckFunc),
		interval:       interval,
		checkTimeout:   checkTimeout,
		logger:         logger,
		immediateCheck: make(chan string, 10),
		stop:           make(chan struct{}),
	}, nil
}

// Register adds a probe for serviceName.
func (hc *HealthChecker) Register(serviceName string, fn HealthCheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.services[serviceName] = fn
}

// Start runs the probe loop until ctx is done or Stop is called.
func (hc *HealthChecker) Start(ctx context.Context) {
	hc.wg.Add(1)

	go hc.loop(ctx)

	hc.logger.Log(ctx, log.LevelInfo, "health checker started", log.String("interval", hc.interval.String()))
}

// Stop ends the probe loop and waits for it. Safe to call more than once.
func (hc *HealthChecker) Stop() {
	hc.stopOnce.Do(func() { close(hc.stop) })
	hc.wg.Wait()
}

// Status returns the breaker state of every registered service.
func (hc *HealthChecker) Status() map[string]State {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := make(map[string]State, len(hc.services))
	for name := range hc.services {
		status[name] = hc.manager.State(name)
	}

	return status
}

// OnStateChange schedules an immediate probe when a breaker opens.
func (hc *HealthChecker) OnStateChange(serviceName string, _ State, to State) {
	if to != StateOpen {
		return
	}

	select {
	case hc.immediateCheck <- serviceName:
	default:
		hc.logger.Log(context.Background(), log.LevelWarn, "immediate health check queue full",
			log.String("service", serviceName))
	}
}

func (hc *HealthChecker) loop(ctx context.Context) {
	defer hc.wg.Done()

	ticker := time.NewTicker(hc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			hc.checkAll(ctx)
		case name := <-hc.immediateCheck:
			hc.check(ctx, name)
		case <-hc.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (hc *HealthChecker) checkAll(ctx context.Context) {
	hc.mu.RLock()
	services := maps.Clone(hc.services)
	hc.mu.RUnlock()

	for name := range services {
		hc.check(ctx, name)
	}
}

func (hc *HealthChecker) check(ctx context.Context, serviceName string) {
	hc.mu.RLock()
	fn, exists := hc.services[serviceName]
	hc.mu.RUnlock()

	if !exists || hc.manager.IsHealthy(serviceName) {
		return
	}

	probeCtx, cancel := context.WithTimeout(ctx, hc.checkTimeout)
	err := fn(probeCtx)

	cancel()

	if err != nil {
		hc.logger.Log(ctx, log.LevelWarn, "service still unhealthy",
			log.String("service", serviceName), log.Err(err))

		return
	}

	hc.logger.Log(ctx, log.LevelInfo, "service recovered, resetting breaker", log.String("service", serviceName))
	hc.manager.Reset(serviceName)
}
