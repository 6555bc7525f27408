// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional: the breaking pipeline, the caches and the
// HTTP server call the registered hooks, and nothing happens until a
// consumer registers its own implementation at startup.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, which keeps the library
// packages free of import cycles and of any particular metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBreakHooks(&myBreakHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Break().OnBreakStart(ctx, "sequence", seq.Len())
//	// ... find breaks ...
//	observability.Break().OnBreakComplete(ctx, "sequence", len(parts), duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Break Hooks
// =============================================================================

// BreakHooks receives events from the breaking pipeline. kind names the
// input: "sequence" for element sequences, "text" for plain text.
type BreakHooks interface {
	OnBreakStart(ctx context.Context, kind string, elements int)
	OnBreakComplete(ctx context.Context, kind string, parts int, duration time.Duration, err error)

	// OnOverflow records a solution that needed overflowing parts.
	OnOverflow(ctx context.Context, kind string, parts int)
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
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response to a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBreakHooks is a no-op implementation of BreakHooks.
type NoopBreakHooks struct{}

func (NoopBreakHooks) OnBreakStart(context.Context, string, int) {}
func (NoopBreakHooks) OnBreakComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopBreakHooks) OnOverflow(context.Context, string, int) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	breakHooks BreakHooks = NoopBreakHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetBreakHooks registers custom break hooks.
// This should be called once at application startup before any breaking.
func SetBreakHooks(h BreakHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		breakHooks = h
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

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Break returns the registered break hooks.
func Break() BreakHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return breakHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	breakHooks = NoopBreakHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
