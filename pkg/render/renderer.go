package render

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/errors"
	"github.com/matzehuels/mdgraph/pkg/observability"
)

// Backend names, also used in cache keys.
const (
	BackendGraphviz = "graphviz"
	BackendMermaid  = "mmdc"
	BackendAuto     = "auto"
)

// Renderer converts diagram source to an SVG document.
// id names the diagram (e.g. "diagram-3") and becomes the SVG root id.
type Renderer interface {
	Render(ctx context.Context, id, source string) ([]byte, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, id, source string) ([]byte, error)

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, id, source string) ([]byte, error) {
	return f(ctx, id, source)
}

// New returns the renderer for a backend name: "graphviz", "mmdc" or
// "auto" (the default when backend is empty).
func New(backend, mmdcPath string) (Renderer, error) {
	switch backend {
	case "", BackendAuto:
		return NewAuto(mmdcPath), nil
	case BackendGraphviz:
		return NewGraphvizRenderer(nil), nil
	case BackendMermaid:
		return &MermaidCLIRenderer{Path: mmdcPath}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput,
		"unknown render backend %q (must be one of: auto, graphviz, mmdc)", backend)
}

// SyntaxError describes diagram source a backend could not parse.
type SyntaxError struct {
	Line   int    // 1-based line number, 0 when unknown
	Msg    string // parser message
	Source string // the rejected source
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// SourceOf returns the rejected source carried by err, if any.
func SourceOf(err error) (string, bool) {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Source, true
	}
	return "", false
}

// checkSource validates source before it reaches a backend.
func checkSource(source string) error {
	return diagram.ValidateStrict(source)
}

// observe reports a render attempt to the pipeline hooks.
func observe(ctx context.Context, backend string, fn func() ([]byte, error)) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, backend)
	start := time.Now()
	svg, err := fn()
	hooks.OnRenderComplete(ctx, backend, len(svg), time.Since(start), err)
	return svg, err
}
