// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about detection passes, catalog lookups, cache operations,
// and provider HTTP calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDetectionHooks(&myDetectionHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Detection().OnDetectStart(ctx, language, lines)
//	// ... scan and enrich ...
//	observability.Detection().OnDetectComplete(ctx, language, count, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Detection Hooks
// =============================================================================

// DetectionHooks receives events from the detection engine.
type DetectionHooks interface {
	// OnDetectStart fires before a document is scanned.
	OnDetectStart(ctx context.Context, language string, lines int)
	// OnDetectComplete fires after the result list is built.
	OnDetectComplete(ctx context.Context, language string, features int, duration time.Duration)
	// OnLookup fires once per distinct canonical id resolved in a pass.
	OnLookup(ctx context.Context, id string, found bool)
	// OnSessionHit fires when a session answers from its single-entry cache.
	OnSessionHit(ctx context.Context, language string)
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

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDetectionHooks is a no-op implementation of DetectionHooks.
type NoopDetectionHooks struct{}

func (NoopDetectionHooks) OnDetectStart(context.Context, string, int)                   {}
func (NoopDetectionHooks) OnDetectComplete(context.Context, string, int, time.Duration) {}
func (NoopDetectionHooks) OnLookup(context.Context, string, bool)                       {}
func (NoopDetectionHooks) OnSessionHit(context.Context, string)                         {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	detectionHooks DetectionHooks = NoopDetectionHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	hooksMu        sync.RWMutex
)

// SetDetectionHooks registers custom detection hooks.
// This should be called once at application startup before any detection runs.
func SetDetectionHooks(h DetectionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		detectionHooks = h
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
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Detection returns the registered detection hooks.
func Detection() DetectionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return detectionHooks
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
	detectionHooks = NoopDetectionHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
