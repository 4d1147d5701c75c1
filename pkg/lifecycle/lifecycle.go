// Package lifecycle coordinates startup and shutdown of long-lived
// subsystems and keeps the named dependency checks behind /readyz.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Check tests a dependency. A nil error means healthy.
type Check func(ctx context.Context) error

// Coordinator runs startup hooks concurrently, flips to ready once they
// return, and cancels its context on Shutdown so shutdown hooks can clean
// up.
type Coordinator struct {
	ctx      context.Context
	cancel   context.CancelFunc
	starting sync.WaitGroup
	stopping sync.WaitGroup
	ready    atomic.Bool

	mu     sync.Mutex
	checks map[string]Check
}

func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{ctx: ctx, cancel: cancel, checks: map[string]Check{}}
}

// Context is cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context { return c.ctx }

// OnStartup runs fn in its own goroutine immediately.
func (c *Coordinator) OnStartup(fn func()) { c.starting.Go(fn) }

// OnShutdown runs fn in its own goroutine immediately. fn must wait on
// Context().Done() before releasing anything.
func (c *Coordinator) OnShutdown(fn func()) { c.stopping.Go(fn) }

func (c *Coordinator) Ready() bool { return c.ready.Load() }

// AddCheck registers a check under name, replacing any previous one.
func (c *Coordinator) AddCheck(name string, check Check) {
	c.mu.Lock()
	c.checks[name] = check
	c.mu.Unlock()
}

// Verify runs the checks in name order and joins their failures, each
// prefixed with the check name.
func (c *Coordinator) Verify(ctx context.Context) error {
	c.mu.Lock()
	checks := maps.Clone(c.checks)
	c.mu.Unlock()

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(checks)) {
		if err := checks[name](ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// WaitForStartup blocks until every startup hook has returned, then marks
// the coordinator ready.
func (c *Coordinator) WaitForStartup() {
	c.starting.Wait()
	c.ready.Store(true)
}

// Shutdown marks the coordinator not ready, cancels its context and waits
// up to timeout for the shutdown hooks.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.ready.Store(false)
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.stopping.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmt.Errorf("shutdown hooks still running after %v", timeout)
	}
}
