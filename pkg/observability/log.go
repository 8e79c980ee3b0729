package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failed stages are
// logged at error level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnDecodeStart(_ context.Context, size int) {
	h.logger.Debug("decode", "bytes", size)
}

func (h *LogHooks) OnDecodeComplete(_ context.Context, label string, components int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("decode failed", "err", err, "took", d)
		return
	}
	h.logger.Debug("decoded", "label", label, "components", components, "took", d)
}

func (h *LogHooks) OnAnalyzeStart(_ context.Context, label string, components int) {
	h.logger.Debug("analyze", "label", label, "components", components)
}

func (h *LogHooks) OnAnalyzeComplete(_ context.Context, label string, s AnalyzeStats, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("analyze failed", "label", label, "err", err, "took", d)
		return
	}
	h.logger.Debug("analyzed", "label", label, "nodes", s.Nodes, "subsumed", s.Subsumed,
		"bottlenecks", s.Bottlenecks, "diagnostics", s.Diagnostics, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("rendered", "formats", formats, "took", d)
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

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("served", "method", method, "path", path, "status", status, "took", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
)
