// Package observability provides hooks for metrics, tracing, and logging.
//
// Library packages call the registered hooks at well-defined points; main
// registers real implementations at startup. Nothing in the core imports an
// observability backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetShuffleHooks(&myShuffleHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Shuffle().OnIntegrateStart(ctx, nodes)
//	// ... integrate ...
//	observability.Shuffle().OnIntegrateComplete(ctx, locations, items, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// ShuffleHooks receives events from the integrate → place pipeline.
type ShuffleHooks interface {
	OnIntegrateStart(ctx context.Context, nodes int)
	OnIntegrateComplete(ctx context.Context, locations, items int, duration time.Duration, err error)

	// OnAttempt is called once per placement attempt, from the goroutine
	// that ran it.
	OnAttempt(ctx context.Context, attempt int, ok bool, duration time.Duration)

	// OnPlacementComplete is called once per run.
	OnPlacementComplete(ctx context.Context, attempts int, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
// keyType is "reduction" or "placement".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the status written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// NoopShuffleHooks is a no-op implementation of ShuffleHooks.
type NoopShuffleHooks struct{}

func (NoopShuffleHooks) OnIntegrateStart(context.Context, int)                               {}
func (NoopShuffleHooks) OnIntegrateComplete(context.Context, int, int, time.Duration, error) {}
func (NoopShuffleHooks) OnAttempt(context.Context, int, bool, time.Duration)                 {}
func (NoopShuffleHooks) OnPlacementComplete(context.Context, int, time.Duration, error)      {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// registry holds the current implementation of one hook interface.
type registry[H any] struct {
	mu   sync.RWMutex
	h    H
	noop H
}

func newRegistry[H any](noop H) *registry[H] {
	return &registry[H]{h: noop, noop: noop}
}

func (r *registry[H]) get() H {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.h
}

func (r *registry[H]) set(h H) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.h = h
}

func (r *registry[H]) reset() { r.set(r.noop) }

var (
	shuffleHooks = newRegistry[ShuffleHooks](NoopShuffleHooks{})
	cacheHooks   = newRegistry[CacheHooks](NoopCacheHooks{})
	httpHooks    = newRegistry[HTTPHooks](NoopHTTPHooks{})
)

// SetShuffleHooks replaces the shuffle hooks. Nil is ignored.
func SetShuffleHooks(h ShuffleHooks) {
	if h != nil {
		shuffleHooks.set(h)
	}
}

// SetCacheHooks replaces the cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.set(h)
	}
}

// SetHTTPHooks replaces the HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpHooks.set(h)
	}
}

func Shuffle() ShuffleHooks { return shuffleHooks.get() }
func Cache() CacheHooks     { return cacheHooks.get() }
func HTTP() HTTPHooks       { return httpHooks.get() }

// Reset restores the no-op hooks.
func Reset() {
	shuffleHooks.reset()
	cacheHooks.reset()
	httpHooks.reset()
}
