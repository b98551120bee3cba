package render

import (
	"context"

	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/errors"
)

// GraphvizRenderer renders flowchart and graph diagrams in process.
type GraphvizRenderer struct {
	engine *Engine
}

// NewGraphvizRenderer returns a renderer using engine, or the process-wide
// engine when engine is nil.
func NewGraphvizRenderer(engine *Engine) *GraphvizRenderer {
	if engine == nil {
		engine = DefaultEngine()
	}
	return &GraphvizRenderer{engine: engine}
}

// Supports reports whether source is a diagram kind this renderer handles.
func (r *GraphvizRenderer) Supports(source string) bool {
	switch diagram.Keyword(source) {
	case "flowchart", "graph":
		return true
	}
	return false
}

// Render validates, parses and renders source.
func (r *GraphvizRenderer) Render(ctx context.Context, id, source string) ([]byte, error) {
	if err := checkSource(source); err != nil {
		return nil, err
	}
	if !r.Supports(source) {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"graphviz backend renders flowchart and graph diagrams, not %s", diagram.Keyword(source))
	}

	return observe(ctx, BackendGraphviz, func() ([]byte, error) {
		f, err := ParseFlowchart(source)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse diagram")
		}

		svg, err := r.engine.RenderDOT(ctx, ToDOT(f))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, &SyntaxError{Msg: err.Error(), Source: source}, "graphviz")
		}
		return normalizeSVG(svg, id), nil
	})
}

var _ Renderer = (*GraphvizRenderer)(nil)
