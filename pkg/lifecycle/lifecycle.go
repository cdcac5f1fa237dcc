// Package lifecycle coordinates the startup, readiness and staged shutdown
// of long-running subsystems.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator manages startup and shutdown hooks for the application lifecycle.
//
// Shutdown runs in two stages. Drain hooks finish first, while resources
// such as the database are still open; shutdown hooks then release those
// resources.
type Coordinator struct {
	ctx         context.Context
	cancel      context.CancelFunc
	drainCtx    context.Context
	drainCancel context.CancelFunc

	startupWg  sync.WaitGroup
	drainWg    sync.WaitGroup
	shutdownWg sync.WaitGroup

	mu       sync.RWMutex
	started  bool
	checkers []ReadinessChecker
}

// New creates a Coordinator with cancellable drain and shutdown contexts.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	drainCtx, drainCancel := context.WithCancel(ctx)
	return &Coordinator{
		ctx:         ctx,
		cancel:      cancel,
		drainCtx:    drainCtx,
		drainCancel: drainCancel,
	}
}

// Context returns the coordinator's context, cancelled once draining completes.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// Draining returns a context cancelled as soon as Shutdown begins.
func (c *Coordinator) Draining() context.Context {
	return c.drainCtx
}

// OnStartup registers a function to run concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnDrain registers a function that must finish before shutdown hooks
// observe cancellation. Drain hooks should block on <-c.Draining().Done().
func (c *Coordinator) OnDrain(fn func()) {
	c.drainWg.Go(fn)
}

// OnShutdown registers a function to run concurrently during shutdown.
// Shutdown hooks should block on <-c.Context().Done() before executing cleanup.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// Require makes readiness depend on the given checkers in addition to
// startup completion.
func (c *Coordinator) Require(checkers ...ReadinessChecker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkers = append(c.checkers, checkers...)
}

// Ready returns true after all startup hooks have completed and every
// required checker reports ready.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started {
		return false
	}
	for _, rc := range c.checkers {
		if !rc.Ready() {
			return false
		}
	}
	return true
}

// WaitForStartup blocks until all startup hooks have completed.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.mu.Lock()
	c.started = true
	c.mu.Unlock()
}

// Shutdown cancels the drain context, waits for drain hooks, then cancels
// the main context and waits for shutdown hooks. Both stages share the
// given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	deadline := time.After(timeout)

	c.drainCancel()
	if !wait(&c.drainWg, deadline) {
		c.cancel()
		return fmt.Errorf("drain timeout after %v", timeout)
	}

	c.cancel()
	if !wait(&c.shutdownWg, deadline) {
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
	return nil
}

func wait(wg *sync.WaitGroup, deadline <-chan time.Time) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-deadline:
		return false
	}
}
