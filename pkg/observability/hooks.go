// Package observability carries layout, pipeline, cache and server events
// to whatever the running binary registered, or nowhere.
//
// Grids report placement passes and resize notifications, the pipeline
// reports scene loads and renders, and the HTTP server reports requests.
// [LogHooks] turns all of them into debug log lines:
//
//	h := observability.NewLogHooks(logger)
//	observability.Register(h)
//
// Emitters fetch the current hooks per event:
//
//	observability.Layout().OnLayoutPass(gridID, columns, children, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from grids.
type LayoutHooks interface {
	// OnLayoutPass records a completed placement pass.
	OnLayoutPass(gridID string, columns, children int, duration time.Duration)

	// OnLayoutError records a pass that was skipped because of err.
	OnLayoutError(gridID string, err error)

	// OnResizeEvent records a resize notification. coalesced is true when a
	// pass was already pending and the notification was dropped.
	OnResizeEvent(gridID string, coalesced bool)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the scene pipeline.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, items int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
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
// Server Hooks
// =============================================================================

// ServerHooks receives events from the HTTP server.
type ServerHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, requestID, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, requestID, method, path string, status int, duration time.Duration)
}

// =============================================================================
// Defaults
// =============================================================================

// NoopLayoutHooks discards layout events.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutPass(string, int, int, time.Duration) {}
func (NoopLayoutHooks) OnLayoutError(string, error)                  {}
func (NoopLayoutHooks) OnResizeEvent(string, bool)                   {}

// NoopPipelineHooks discards pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {
}

// NoopCacheHooks discards cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks discards server events.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

// slot holds the hooks of one kind. Set ignores nil so a registered
// implementation can only be replaced, never cleared.
type slot[T any] struct {
	mu  sync.RWMutex
	cur T
	def T
}

func newSlot[T any](def T) *slot[T] { return &slot[T]{cur: def, def: def} }

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *slot[T]) set(h T) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.cur = s.def
	s.mu.Unlock()
}

var (
	layoutSlot   = newSlot[LayoutHooks](NoopLayoutHooks{})
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	serverSlot   = newSlot[ServerHooks](NoopServerHooks{})
)

// SetLayoutHooks registers h for grid events. A nil h is ignored.
func SetLayoutHooks(h LayoutHooks) { layoutSlot.set(h) }

// SetPipelineHooks registers h for scene load and render events.
func SetPipelineHooks(h PipelineHooks) { pipelineSlot.set(h) }

// SetCacheHooks registers h for cache events.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetServerHooks registers h for HTTP events.
func SetServerHooks(h ServerHooks) { serverSlot.set(h) }

// Register installs h for every hook kind it implements.
func Register(h any) {
	if l, ok := h.(LayoutHooks); ok {
		SetLayoutHooks(l)
	}
	if p, ok := h.(PipelineHooks); ok {
		SetPipelineHooks(p)
	}
	if c, ok := h.(CacheHooks); ok {
		SetCacheHooks(c)
	}
	if s, ok := h.(ServerHooks); ok {
		SetServerHooks(s)
	}
}

// Layout returns the current layout hooks.
func Layout() LayoutHooks { return layoutSlot.get() }

// Pipeline returns the current pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.get() }

// Cache returns the current cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// Server returns the current server hooks.
func Server() ServerHooks { return serverSlot.get() }

// Reset puts the no-op hooks back. Tests that register hooks call it on
// cleanup.
func Reset() {
	layoutSlot.reset()
	pipelineSlot.reset()
	cacheSlot.reset()
	serverSlot.reset()
}
