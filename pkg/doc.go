// Package pkg provides the libraries behind mdgraph.
//
// # Overview
//
// mdgraph splits a markdown document into heading sections, produces a
// Mermaid diagram for each section, renders the diagrams to SVG and exports
// the document with its diagrams as a paginated PDF.
//
// # Architecture
//
// The typical data flow:
//
//	Markdown document
//	         ↓
//	    [markdown] package (split into heading sections)
//	         ↓
//	    [generate] package (strategy chain → Mermaid source)
//	         ↓
//	    [render] package (Mermaid source → SVG)
//	         ↓
//	    [export] package (document capture → A4 PDF)
//
// # Quick Start
//
//	sections := markdown.ExtractSections(doc)
//	resp := diagram.Synthesize(diagram.Request{
//	    Title:       sections[0].Heading,
//	    Description: sections[0].Content,
//	    Kind:        diagram.KindFlowchart,
//	})
//	svg, err := render.NewGraphvizRenderer(nil).Render(ctx, "diagram-0", resp.Source)
//
// # Main Packages
//
// [diagram] - Pure diagram synthesis: label sanitizing, list extraction,
// skeleton templates per kind and complexity, and source validation.
//
// [markdown] - Section extraction and HTML rendering with goldmark.
//
// [generate] - Ordered generation strategies (simulation, Hugging Face,
// Claude, template) where the first valid result wins.
//
// [render] - Render backends: in-process Graphviz for flowcharts and the
// Mermaid CLI for every kind, plus rsvg-convert for PNG and PDF.
//
// [export] - Document capture with headless Chrome or rsvg-convert and A4
// pagination with fpdf, verified with pdfcpu.
//
// [workspace] - Per-session document state with debounced section
// extraction and per-section diagrams.
//
// [cache] - File, Redis and null cache backends with content-addressed keys.
//
// [errors] - Structured error codes shared by the CLI and HTTP API.
//
// [observability] - Hooks for generation, render, export and cache events.
package pkg
