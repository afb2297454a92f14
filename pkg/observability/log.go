package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event as a debug line, errors as warnings. It
// implements all four hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging through a "hooks" sub-logger of logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) OnLayoutPass(gridID string, columns, children int, d time.Duration) {
	h.logger.Debug("layout pass", "grid", gridID, "columns", columns, "children", children, "took", d)
}

func (h *LogHooks) OnLayoutError(gridID string, err error) {
	h.logger.Warn("layout skipped", "grid", gridID, "err", err)
}

func (h *LogHooks) OnResizeEvent(gridID string, coalesced bool) {
	h.logger.Debug("resize", "grid", gridID, "coalesced", coalesced)
}

func (h *LogHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("loading scene", "source", source)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, source string, items int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("scene load failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("scene loaded", "source", source, "items", items, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("rendering", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("rendered", "format", format, "bytes", size, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, requestID, method, path string) {
	h.logger.Debug("request", "id", requestID, "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, requestID, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "id", requestID, "method", method, "path", path, "status", status, "took", d)
}

var (
	_ LayoutHooks   = (*LogHooks)(nil)
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
)
