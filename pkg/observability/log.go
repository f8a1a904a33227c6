package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgrid/pkg/grid"
)

// LogHooks reports every event at debug level on a charmbracelet logger.
// It implements GenerateHooks, RenderHooks and CacheHooks.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l, or to log.Default() when l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l.WithPrefix("hooks")}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetGenerateHooks(h)
	SetRenderHooks(h)
	SetCacheHooks(h)
}

func (h *LogHooks) OnGenerateStart(_ context.Context, p grid.Params) {
	h.Logger.Debug("generate start", "nodes", p.NodeCount, "sinks", p.SinkCount, "size", p.Size, "rate", p.ProductionRate)
}

func (h *LogHooks) OnGenerateComplete(_ context.Context, p grid.Params, emitted int, d time.Duration, err error) {
	h.Logger.Debug("generate complete", "requested", p.NodeCount, "emitted", emitted, "duration", d, "err", err)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string, nodeCount int) {
	h.Logger.Debug("render start", "format", format, "nodes", nodeCount)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	h.Logger.Debug("render complete", "format", format, "bytes", size, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ GenerateHooks = (*LogHooks)(nil)
	_ RenderHooks   = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
