package observability

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level events to
// a logger and counting them. Register it with [UseLogHooks].
type LogHooks struct {
	logger *log.Logger

	builds    atomic.Int64
	renders   atomic.Int64
	hits      atomic.Int64
	misses    atomic.Int64
	requests  atomic.Int64
	httpFails atomic.Int64
}

// Counts is a snapshot of the events seen by a [LogHooks].
type Counts struct {
	Builds      int64 `json:"builds"`
	Renders     int64 `json:"renders"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Requests    int64 `json:"requests"`
	Errors      int64 `json:"errors"`
}

// NewLogHooks creates hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("events")}
}

// UseLogHooks registers h for pipeline, cache and HTTP events.
func UseLogHooks(h *LogHooks) {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

// Counts returns the current event counts.
func (h *LogHooks) Counts() Counts {
	return Counts{
		Builds:      h.builds.Load(),
		Renders:     h.renders.Load(),
		CacheHits:   h.hits.Load(),
		CacheMisses: h.misses.Load(),
		Requests:    h.requests.Load(),
		Errors:      h.httpFails.Load(),
	}
}

func (h *LogHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("load start", "source", source)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, source string, rows int, d time.Duration, err error) {
	h.logger.Debug("load complete", "source", source, "rows", rows, "took", d, "err", err)
}

func (h *LogHooks) OnBuildStart(_ context.Context, dims []string, rows int) {
	h.logger.Debug("build start", "dimensions", dims, "rows", rows)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, dims []string, nodes int, d time.Duration, err error) {
	h.builds.Add(1)
	h.logger.Debug("build complete", "dimensions", dims, "nodes", nodes, "took", d, "err", err)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.renders.Add(1)
	h.logger.Debug("render complete", "formats", formats, "took", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.hits.Add(1)
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.misses.Add(1)
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path, requestID string) {
	h.requests.Add(1)
	h.logger.Debug("request", "method", method, "path", path, "id", requestID)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path, requestID string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "id", requestID, "status", status, "took", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path, requestID string, err error) {
	h.httpFails.Add(1)
	h.logger.Debug("request failed", "method", method, "path", path, "id", requestID, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
