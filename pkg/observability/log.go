package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug log line. The CLI installs it
// when running with --verbose.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or to the default logger when
// logger is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) OnLoadStart(_ context.Context, repo string) {
	h.logger.Debug("load start", "repo", repo)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, repo string, commits int, d time.Duration, err error) {
	h.logger.Debug("load complete", "repo", repo, "commits", commits, "duration", d, "err", err)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, commits int) {
	h.logger.Debug("layout start", "commits", commits)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, rows, lanes int, d time.Duration, err error) {
	h.logger.Debug("layout complete", "rows", rows, "lanes", lanes, "duration", d, "err", err)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("render start", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	h.logger.Debug("render complete", "format", format, "duration", d, "err", err)
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

func (h *LogHooks) OnWalk(_ context.Context, refs, commits int, truncated bool, d time.Duration, err error) {
	h.logger.Debug("history walk", "refs", refs, "commits", commits, "truncated", truncated, "duration", d, "err", err)
}

func (h *LogHooks) OnResolve(_ context.Context, name string, err error) {
	h.logger.Debug("resolve", "name", name, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ StoreHooks    = (*LogHooks)(nil)
)
