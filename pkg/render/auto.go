package render

import "context"

// Auto renders flowcharts with Graphviz and every other kind with mermaid-cli.
type Auto struct {
	Graphviz *GraphvizRenderer
	Mermaid  Renderer
}

// NewAuto combines the process-wide Graphviz engine with mmdc found on PATH.
func NewAuto(mmdcPath string) *Auto {
	return &Auto{
		Graphviz: NewGraphvizRenderer(nil),
		Mermaid:  &MermaidCLIRenderer{Path: mmdcPath},
	}
}

// Render dispatches on the diagram keyword.
func (a *Auto) Render(ctx context.Context, id, source string) ([]byte, error) {
	if err := checkSource(source); err != nil {
		return nil, err
	}
	if a.Graphviz.Supports(source) || a.Mermaid == nil {
		return a.Graphviz.Render(ctx, id, source)
	}
	return a.Mermaid.Render(ctx, id, source)
}

var _ Renderer = (*Auto)(nil)
