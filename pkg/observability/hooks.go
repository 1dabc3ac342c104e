// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about drags, reorders and settle transitions inside
// containers, and about requests served by the preview service.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the engine packages stay
// free of any observability framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetReflowHooks(&myReflowHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Reflow().OnReorder(container, item, from, to)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Reflow Hooks
// =============================================================================

// ReflowHooks receives events from containers. Hooks run on the host tick and
// must not block.
type ReflowHooks interface {
	// Drag events
	OnDragStart(container, item string, index int)
	OnDragStop(container, item string, index int)

	// OnReorder records an item moving from one slot to another.
	OnReorder(container, item string, from, to int)

	// OnAnimate records the number of settle transitions issued in one tick.
	OnAnimate(container string, started int)

	// OnSettle records a container reaching its targets, with the time spent
	// since it was last disturbed.
	OnSettle(container string, items int, elapsed time.Duration)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the preview HTTP service.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopReflowHooks is a no-op implementation of ReflowHooks.
type NoopReflowHooks struct{}

func (NoopReflowHooks) OnDragStart(string, string, int)     {}
func (NoopReflowHooks) OnDragStop(string, string, int)      {}
func (NoopReflowHooks) OnReorder(string, string, int, int)  {}
func (NoopReflowHooks) OnAnimate(string, int)               {}
func (NoopReflowHooks) OnSettle(string, int, time.Duration) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	reflowHooks ReflowHooks = NoopReflowHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetReflowHooks registers custom reflow hooks.
// This should be called once at application startup before any container ticks.
func SetReflowHooks(h ReflowHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		reflowHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving requests.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Reflow returns the registered reflow hooks.
func Reflow() ReflowHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return reflowHooks
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
	reflowHooks = NoopReflowHooks{}
	httpHooks = NoopHTTPHooks{}
}
