// Package lifecycle coordinates named startup and shutdown hooks and aggregates readiness.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Hook is a startup or shutdown step. Startup hooks receive the coordinator context;
// shutdown hooks receive a context bounded by the shutdown timeout.
type Hook func(ctx context.Context) error

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

type namedHook struct {
	name string
	fn   Hook
}

// Coordinator manages startup and shutdown hooks for the application lifecycle.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	startup  []namedHook
	shutdown []namedHook
	checks   []ReadinessChecker

	started atomic.Bool
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a hook that runs concurrently with the other startup hooks.
func (c *Coordinator) OnStartup(name string, fn Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startup = append(c.startup, namedHook{name: name, fn: fn})
}

// OnShutdown registers a hook that runs after the coordinator context is cancelled.
func (c *Coordinator) OnShutdown(name string, fn Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdown = append(c.shutdown, namedHook{name: name, fn: fn})
}

// AddCheck registers a readiness checker consulted by Ready.
func (c *Coordinator) AddCheck(check ReadinessChecker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, check)
}

// Start runs every startup hook and marks the coordinator started when all succeed.
// The first hook error is returned.
func (c *Coordinator) Start() error {
	c.mu.Lock()
	hooks := append([]namedHook(nil), c.startup...)
	c.mu.Unlock()

	g, ctx := errgroup.WithContext(c.ctx)
	for _, h := range hooks {
		g.Go(func() error {
			if err := h.fn(ctx); err != nil {
				return fmt.Errorf("startup %s: %w", h.name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	c.started.Store(true)
	return nil
}

// Ready reports whether startup completed and every registered checker is ready.
func (c *Coordinator) Ready() bool {
	if !c.started.Load() {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, check := range c.checks {
		if !check.Ready() {
			return false
		}
	}
	return true
}

// Shutdown cancels the coordinator context and runs the shutdown hooks concurrently
// within the given timeout. Hook errors are joined.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.started.Store(false)
	c.cancel()

	c.mu.Lock()
	hooks := append([]namedHook(nil), c.shutdown...)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, h := range hooks {
		wg.Go(func() {
			if err := h.fn(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("shutdown %s: %w", h.name, err))
				mu.Unlock()
			}
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return errors.Join(errs...)
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
