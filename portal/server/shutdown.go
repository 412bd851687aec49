package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/log"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/opentelemetry"
)

// ErrNoServersConfigured indicates no HTTP server was configured for the manager.
var ErrNoServersConfigured = errors.New("no servers configured: use WithHTTPServer()")

// Closer releases a resource during shutdown.
type Closer func(ctx context.Context) error

type namedCloser struct {
	name string
	fn   Closer
}

// ServerManager runs the HTTP server and shuts it down gracefully.
type ServerManager struct {
	httpServer         *fiber.App
	telemetry          *opentelemetry.Telemetry
	logger             log.Logger
	closers            []namedCloser
	httpAddress        string
	serversStarted     chan struct{}
	serversStartedOnce sync.Once
	shutdownChan       <-chan struct{}
	shutdownOnce       sync.Once
	shutdownTimeout    time.Duration
	startupErrors      chan error
}

// NewServerManager creates a new instance of ServerManager.
// If logger is nil, a no-op logger is used.
func NewServerManager(telemetry *opentelemetry.Telemetry, logger log.Logger) *ServerManager {
	if logger == nil {
		logger = log.NewNop()
	}

	return &ServerManager{
		telemetry:       telemetry,
		logger:          logger,
		serversStarted:  make(chan struct{}),
		shutdownTimeout: 30 * time.Second,
		startupErrors:   make(chan error, 1),
	}
}

// WithHTTPServer configures the HTTP server for the ServerManager.
func (sm *ServerManager) WithHTTPServer(app *fiber.App, address string) *ServerManager {
	sm.httpServer = app
	sm.httpAddress = address

	return sm
}

// WithShutdownChannel configures a custom shutdown channel for the ServerManager.
// This allows tests to trigger shutdown deterministically instead of relying on OS signals.
func (sm *ServerManager) WithShutdownChannel(ch <-chan struct{}) *ServerManager {
	sm.shutdownChan = ch

	return sm
}

// WithShutdownTimeout bounds the whole shutdown sequence. Defaults to 30 seconds.
func (sm *ServerManager) WithShutdownTimeout(d time.Duration) *ServerManager {
	if d > 0 {
		sm.shutdownTimeout = d
	}

	return sm
}

// WithCloser registers fn to run after the HTTP server stops, in
// registration order.
func (sm *ServerManager) WithCloser(name string, fn Closer) *ServerManager {
	if fn != nil {
		sm.closers = append(sm.closers, namedCloser{name: name, fn: fn})
	}

	return sm
}

// ServersStarted returns a channel that is closed when the server goroutine has been launched.
// Note: This signals that the goroutine was spawned, not that the socket is bound.
func (sm *ServerManager) ServersStarted() <-chan struct{} {
	return sm.serversStarted
}

// StartWithGracefulShutdown starts the HTTP server and blocks until ctx is
// done, a termination signal arrives, the shutdown channel is closed or the
// server fails to start. A startup failure is returned after cleanup.
func (sm *ServerManager) StartWithGracefulShutdown(ctx context.Context) error {
	if sm.httpServer == nil {
		return ErrNoServersConfigured
	}

	sm.startServers()

	startupErr := sm.waitForShutdown(ctx)

	sm.logInfo("Gracefully shutting down all servers...")
	sm.executeShutdown()

	return startupErr
}

func (sm *ServerManager) startServers() {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				sm.reportStartupError(fmt.Errorf("HTTP server panic: %v", r))
			}
		}()

		sm.logInfof("Starting HTTP server on %s", sm.httpAddress)

		if err := sm.httpServer.Listen(sm.httpAddress); err != nil {
			sm.logErrorf("HTTP server error: %v", err)
			sm.reportStartupError(fmt.Errorf("HTTP server: %w", err))
		}
	}()

	sm.serversStartedOnce.Do(func() {
		close(sm.serversStarted)
	})
}

func (sm *ServerManager) reportStartupError(err error) {
	select {
	case sm.startupErrors <- err:
	default:
	}
}

func (sm *ServerManager) waitForShutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var signals <-chan os.Signal

	if sm.shutdownChan == nil {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)

		defer signal.Stop(c)

		signals = c
	}

	select {
	case <-ctx.Done():
		return nil
	case <-sm.shutdownChan:
		return nil
	case sig := <-signals:
		sm.logInfof("Received signal %s", sig)
		return nil
	case err := <-sm.startupErrors:
		sm.logErrorf("Server startup failed: %v", err)
		return err
	}
}

// executeShutdown stops the server, then runs the closers, flushes telemetry
// and syncs the logger. Only the first call does anything.
func (sm *ServerManager) executeShutdown() {
	sm.shutdownOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), sm.shutdownTimeout)
		defer cancel()

		if sm.httpServer != nil {
			sm.logInfo("Shutting down HTTP server...")

			if err := sm.httpServer.ShutdownWithContext(ctx); err != nil {
				sm.logErrorf("Error during HTTP server shutdown: %v", err)
			}
		}

		for _, c := range sm.closers {
			sm.logInfof("Closing %s...", c.name)

			if err := c.fn(ctx); err != nil {
				sm.logErrorf("Error closing %s: %v", c.name, err)
			}
		}

		// Telemetry goes last among resources so shutdown spans are exported.
		if sm.telemetry != nil {
			sm.logInfo("Shutting down telemetry...")

			if err := sm.telemetry.Shutdown(ctx); err != nil {
				sm.logErrorf("Error during telemetry shutdown: %v", err)
			}
		}

		sm.logInfo("Syncing logger...")

		if err := sm.logger.Sync(ctx); err != nil {
			sm.logErrorf("Failed to sync logger: %v", err)
		}

		sm.logInfo("Graceful shutdown completed")
	})
}

func (sm *ServerManager) logInfo(msg string) {
	sm.logger.Log(context.Background(), log.LevelInfo, msg)
}

func (sm *ServerManager) logInfof(format string, args ...any) {
	sm.logger.Log(context.Background(), log.LevelInfo, fmt.Sprintf(format, args...))
}

func (sm *ServerManager) logErrorf(format string, args ...any) {
	sm.logger.Log(context.Background(), log.LevelError, fmt.Sprintf(format, args...))
}
