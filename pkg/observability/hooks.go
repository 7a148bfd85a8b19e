// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about diagram emission and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEmitterHooks(&myEmitterHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Emitter().OnRenderStart(ctx, name, segment)
//	// ... render the segment ...
//	observability.Emitter().OnRenderComplete(ctx, name, segment, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Emitter Hooks
// =============================================================================

// EmitterHooks receives events from diagram emission.
// The segment argument is the zero-based index of the segment within its
// diagram; diagrams narrow enough to avoid splitting emit segment 0 only.
type EmitterHooks interface {
	// Render events (WaveDrom renderer producing SVG)
	OnRenderStart(ctx context.Context, diagram string, segment int)
	OnRenderComplete(ctx context.Context, diagram string, segment int, duration time.Duration, err error)

	// Convert events (SVG to PNG rasterization)
	OnConvertStart(ctx context.Context, diagram string, segment int)
	OnConvertComplete(ctx context.Context, diagram string, segment int, duration time.Duration, err error)

	// OnSegmentSkipped records a segment dropped by the significance filter.
	OnSegmentSkipped(ctx context.Context, diagram string, segment int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEmitterHooks is a no-op implementation of EmitterHooks.
type NoopEmitterHooks struct{}

func (NoopEmitterHooks) OnRenderStart(context.Context, string, int) {}
func (NoopEmitterHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopEmitterHooks) OnConvertStart(context.Context, string, int) {}
func (NoopEmitterHooks) OnConvertComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopEmitterHooks) OnSegmentSkipped(context.Context, string, int) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	emitterHooks EmitterHooks = NoopEmitterHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetEmitterHooks registers custom emitter hooks.
// This should be called once at application startup before any diagrams are emitted.
func SetEmitterHooks(h EmitterHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		emitterHooks = h
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

// Emitter returns the registered emitter hooks.
func Emitter() EmitterHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return emitterHooks
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
	emitterHooks = NoopEmitterHooks{}
	cacheHooks = NoopCacheHooks{}
}
