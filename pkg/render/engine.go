package render

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-graphviz"
	"golang.org/x/sync/singleflight"
)

// dotRenderer renders DOT to SVG. The Graphviz runtime is one implementation;
// tests substitute their own.
type dotRenderer interface {
	renderDOT(ctx context.Context, dot []byte) ([]byte, error)
	Close() error
}

// Engine owns the lazily started Graphviz runtime.
//
// The runtime is created by the first EnsureInitialized call. Concurrent first
// callers wait on the same initialisation. A failed initialisation is not
// remembered, so the next call tries again. Renders are serialised because the
// WebAssembly module is single threaded.
type Engine struct {
	init  func(context.Context) (dotRenderer, error)
	group singleflight.Group

	mu      sync.RWMutex // guards backend
	backend dotRenderer

	renderMu sync.Mutex
}

// NewEngine returns an engine backed by go-graphviz. Nothing is started
// until the first EnsureInitialized or RenderDOT call.
func NewEngine() *Engine {
	return &Engine{init: newGraphvizBackend}
}

var defaultEngine = NewEngine()

// DefaultEngine returns the process-wide engine.
func DefaultEngine() *Engine {
	return defaultEngine
}

// Ready reports whether the runtime has been started.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.backend != nil
}

// EnsureInitialized starts the runtime if it is not running yet. Once it is
// running, calls return immediately. Cancelling ctx stops the wait but not an
// initialisation other callers may be sharing.
func (e *Engine) EnsureInitialized(ctx context.Context) error {
	if e.Ready() {
		return nil
	}

	ch := e.group.DoChan("init", func() (any, error) {
		if e.Ready() {
			return nil, nil
		}
		b, err := e.init(context.WithoutCancel(ctx))
		if err != nil {
			return nil, fmt.Errorf("init graphviz: %w", err)
		}
		e.mu.Lock()
		e.backend = b
		e.mu.Unlock()
		return nil, nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

// RenderDOT renders a DOT graph to SVG, starting the runtime if needed.
func (e *Engine) RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	if err := e.EnsureInitialized(ctx); err != nil {
		return nil, err
	}

	e.mu.RLock()
	b := e.backend
	e.mu.RUnlock()
	if b == nil {
		return nil, fmt.Errorf("graphviz engine closed")
	}

	e.renderMu.Lock()
	defer e.renderMu.Unlock()
	return b.renderDOT(ctx, []byte(dot))
}

// Close stops the runtime. A later call to EnsureInitialized starts a new one.
func (e *Engine) Close() error {
	e.mu.Lock()
	b := e.backend
	e.backend = nil
	e.mu.Unlock()
	if b == nil {
		return nil
	}
	e.renderMu.Lock()
	defer e.renderMu.Unlock()
	return b.Close()
}

type graphvizBackend struct {
	gv *graphviz.Graphviz
}

func newGraphvizBackend(ctx context.Context) (dotRenderer, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, err
	}
	return &graphvizBackend{gv: gv}, nil
}

func (b *graphvizBackend) renderDOT(ctx context.Context, dot []byte) ([]byte, error) {
	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := b.gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *graphvizBackend) Close() error {
	return b.gv.Close()
}
