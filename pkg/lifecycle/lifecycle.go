// Package lifecycle coordinates subsystem startup and shutdown for the
// server process.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Readiness reports whether a subsystem is ready to serve traffic.
type Readiness interface {
	Ready() bool
}

// Coordinator runs registered startup hooks concurrently, tracks readiness,
// and drives shutdown hooks when the process stops. Shutdown hooks should
// block on <-Context().Done() before cleaning up.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	startup  sync.WaitGroup
	shutdown sync.WaitGroup

	mu    sync.RWMutex
	ready bool
}

// New creates a Coordinator with a cancellable root context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{ctx: ctx, cancel: cancel}
}

// Context returns the coordinator's context, cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a hook to run concurrently during startup.
func (c *Coordinator) OnStartup(hook func()) {
	c.startup.Go(hook)
}

// OnShutdown registers a hook to run concurrently during shutdown.
func (c *Coordinator) OnShutdown(hook func()) {
	c.shutdown.Go(hook)
}

// Ready reports whether startup has completed.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// AwaitStartup blocks until every startup hook has returned, then marks the
// coordinator ready.
func (c *Coordinator) AwaitStartup() {
	c.startup.Wait()

	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()
}

// Shutdown cancels the coordinator context and waits for shutdown hooks to
// finish, bounded by timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdown.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown exceeded %v", timeout)
	}
}
