package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogPipelineHooks writes pipeline events to a logger at debug level.
// Failures are logged at warn level.
type LogPipelineHooks struct {
	Logger *log.Logger
}

func (h LogPipelineHooks) OnGenerateStart(_ context.Context, strategy string) {
	h.Logger.Debug("generate start", "strategy", strategy)
}

func (h LogPipelineHooks) OnGenerateComplete(_ context.Context, strategy string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("generate failed", "strategy", strategy, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("generate done", "strategy", strategy, "duration", d)
}

func (h LogPipelineHooks) OnRenderStart(_ context.Context, backend string) {
	h.Logger.Debug("render start", "backend", backend)
}

func (h LogPipelineHooks) OnRenderComplete(_ context.Context, backend string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("render failed", "backend", backend, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("render done", "backend", backend, "bytes", size, "duration", d)
}

func (h LogPipelineHooks) OnExportStart(_ context.Context, filename string) {
	h.Logger.Debug("export start", "file", filename)
}

func (h LogPipelineHooks) OnExportComplete(_ context.Context, filename string, pages int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("export failed", "file", filename, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("export done", "file", filename, "pages", pages, "duration", d)
}

// LogCacheHooks writes cache events to a logger at debug level.
type LogCacheHooks struct {
	Logger *log.Logger
}

func (h LogCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

// LogHTTPHooks writes outbound request events to a logger at debug level.
type LogHTTPHooks struct {
	Logger *log.Logger
}

func (h LogHTTPHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h LogHTTPHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h LogHTTPHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

// UseLogger registers log-backed pipeline, cache and HTTP hooks writing to
// logger. A nil logger leaves the registered hooks unchanged.
func UseLogger(logger *log.Logger) {
	if logger == nil {
		return
	}
	SetPipelineHooks(LogPipelineHooks{Logger: logger})
	SetCacheHooks(LogCacheHooks{Logger: logger})
	SetHTTPHooks(LogHTTPHooks{Logger: logger})
}

var (
	_ PipelineHooks = LogPipelineHooks{}
	_ CacheHooks    = LogCacheHooks{}
	_ HTTPHooks     = LogHTTPHooks{}
)
