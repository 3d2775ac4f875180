// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout commits and persistence.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the layout core stays
// free of observability frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetPersistenceHooks(&myPersistenceHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnCommit("drag-stop", id)
//	observability.Persistence().OnSave(ctx, key, len(instances), len(blob), elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout store.
// Store operations are synchronous and carry no context.
type LayoutHooks interface {
	// OnCommit records a committed mutation. op names the operation
	// (add, remove, drag-stop, resize-stop, commit, params, replace, revalidate).
	OnCommit(op, id string)

	// OnRevert records a gesture reverted at commit because it collided with blocker.
	OnRevert(op, id, blocker string)

	// OnDrop records an instance removed by revalidation.
	OnDrop(id, reason string)
}

// =============================================================================
// Persistence Hooks
// =============================================================================

// PersistenceHooks receives events from the persistence adapter.
type PersistenceHooks interface {
	// OnLoad records a load with the number of kept and dropped instances.
	OnLoad(ctx context.Context, key string, kept, dropped int, duration time.Duration, err error)

	// OnSave records a write-through save.
	OnSave(ctx context.Context, key string, count, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnCommit(string, string)         {}
func (NoopLayoutHooks) OnRevert(string, string, string) {}
func (NoopLayoutHooks) OnDrop(string, string)           {}

// NoopPersistenceHooks is a no-op implementation of PersistenceHooks.
type NoopPersistenceHooks struct{}

func (NoopPersistenceHooks) OnLoad(context.Context, string, int, int, time.Duration, error) {}
func (NoopPersistenceHooks) OnSave(context.Context, string, int, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks      LayoutHooks      = NoopLayoutHooks{}
	persistenceHooks PersistenceHooks = NoopPersistenceHooks{}
	hooksMu          sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any store operations.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetPersistenceHooks registers custom persistence hooks.
// This should be called once at application startup before any load or save.
func SetPersistenceHooks(h PersistenceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		persistenceHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Persistence returns the registered persistence hooks.
func Persistence() PersistenceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return persistenceHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	persistenceHooks = NoopPersistenceHooks{}
}

// =============================================================================
// Counting Hooks
// =============================================================================

// Counter is a LayoutHooks and PersistenceHooks implementation that tallies
// events. Tests use it to assert on commits and saves.
type Counter struct {
	mu       sync.Mutex
	Commits  map[string]int
	Reverts  int
	Drops    int
	Saves    int
	SaveErrs int
	Loads    int
}

// NewCounter creates an empty Counter.
func NewCounter() *Counter {
	return &Counter{Commits: make(map[string]int)}
}

func (c *Counter) OnCommit(op, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Commits[op]++
}

func (c *Counter) OnRevert(string, string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Reverts++
}

func (c *Counter) OnDrop(string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Drops++
}

func (c *Counter) OnLoad(context.Context, string, int, int, time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Loads++
}

func (c *Counter) OnSave(_ context.Context, _ string, _, _ int, _ time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Saves++
	if err != nil {
		c.SaveErrs++
	}
}

var (
	_ LayoutHooks      = (*Counter)(nil)
	_ PersistenceHooks = (*Counter)(nil)
)
