// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about plan generation and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This keeps the core library free of observability frameworks while
// supporting different backends (OpenTelemetry, Prometheus, etc.).
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPlanHooks(&myPlanHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Plan().OnPlanStart(ctx, kind, seed)
//	// ... generate shifts ...
//	observability.Plan().OnPlanComplete(ctx, kind, count, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PlanHooks receives events from plan generation.
type PlanHooks interface {
	// OnPlanStart records the beginning of a generation run.
	OnPlanStart(ctx context.Context, kind string, seed uint64)

	// OnPlanComplete records the end of a generation run with the object
	// count produced.
	OnPlanComplete(ctx context.Context, kind string, count int, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopPlanHooks is a no-op implementation of PlanHooks.
type NoopPlanHooks struct{}

func (NoopPlanHooks) OnPlanStart(context.Context, string, uint64)                          {}
func (NoopPlanHooks) OnPlanComplete(context.Context, string, int, time.Duration, error)    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	planHooks  PlanHooks  = NoopPlanHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetPlanHooks registers custom plan hooks.
// This should be called once at application startup before any generation.
func SetPlanHooks(h PlanHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		planHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Plan returns the registered plan hooks.
func Plan() PlanHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return planHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	planHooks = NoopPlanHooks{}
	cacheHooks = NoopCacheHooks{}
}
