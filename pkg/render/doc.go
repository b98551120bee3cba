// Package render turns Mermaid diagram source into SVG.
//
// # Overview
//
// Every backend implements [Renderer]:
//
//   - [GraphvizRenderer] parses the flowchart/graph subset of Mermaid,
//     converts it to Graphviz DOT with [ToDOT] and renders it in process
//     through go-graphviz (WebAssembly, no system Graphviz needed).
//   - [MermaidCLIRenderer] shells out to mermaid-cli (mmdc) and handles
//     every diagram kind mmdc understands.
//   - [Auto] sends flowcharts to Graphviz and everything else to mmdc.
//   - [CachedRenderer] decorates any renderer with a [cache.Cache].
//
// Source is validated with [diagram.Validate] before any backend runs.
// Invalid source fails with code INVALID_DIAGRAM and is never rendered.
// Parse problems are reported as a [*SyntaxError] wrapped in RENDER_FAILED,
// so callers can show the offending line next to the source.
//
// # Engine
//
// The Graphviz runtime is expensive to start, so one process-wide [Engine]
// is created lazily. [Engine.EnsureInitialized] starts it on first use;
// concurrent first callers share a single initialisation.
//
//	svg, err := render.NewGraphvizRenderer(nil).Render(ctx, "diagram-0", src)
//
// # Format Conversion
//
// [ToPNG] and [ToPDF] convert SVG with the external rsvg-convert tool.
//
// [cache.Cache]: github.com/matzehuels/mdgraph/pkg/cache.Cache
// [diagram.Validate]: github.com/matzehuels/mdgraph/pkg/diagram.Validate
package render
