package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/markdown"
	"github.com/matzehuels/mdgraph/pkg/render"
)

// Section is one document section with its rendered diagram and the
// diagram's summary, if any.
type Section struct {
	markdown.Section
	SVG     []byte
	Summary string
}

type documentData struct {
	Title    string
	Sections []documentSection
}

type documentSection struct {
	Body    template.HTML
	Diagram template.HTML
	Summary string
}

var documentTmpl = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { margin: 0; background: #ffffff; }
#document { width: 820px; padding: 40px; background: #ffffff; color: #111827;
  font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; line-height: 1.5; }
#document section { margin-bottom: 32px; }
#document figure.diagram { margin: 16px 0; text-align: center; }
#document figure.diagram svg { max-width: 100%; height: auto; }
#document p.summary { margin: 8px 0; padding: 8px 12px; background: #f3f4f6; border-radius: 4px; }
#document table { border-collapse: collapse; }
#document th, #document td { border: 1px solid #d1d5db; padding: 4px 8px; }
</style>
</head>
<body>
<div id="document">
{{- range .Sections}}
<section>
{{.Body}}
{{- if .Diagram}}
<figure class="diagram">{{.Diagram}}</figure>
{{- end}}
{{- if .Summary}}
<p class="summary"><strong>Summary:</strong> {{.Summary}}</p>
{{- end}}
</section>
{{- end}}
</div>
</body>
</html>
`))

// Document builds the export HTML: each section rendered from markdown
// followed by its diagram, all inside <div id="document">.
func Document(title string, sections []Section) ([]byte, error) {
	data := documentData{Title: title}
	for i, s := range sections {
		body, err := markdown.RenderSection(s.Section)
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}
		ds := documentSection{Body: body, Summary: s.Summary}
		if len(s.SVG) > 0 {
			ds.Diagram = template.HTML(render.InlineSVG(s.SVG))
		}
		data.Sections = append(data.Sections, ds)
	}

	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderSections pairs each section with the SVG of its diagram and its
// summary. Diagrams that are missing, invalid or fail to render are left out
// with a warning so one broken diagram does not block the export; their
// summary is kept. id names the diagram of section i for the renderer.
func RenderSections(ctx context.Context, r render.Renderer, sections []markdown.Section,
	diagrams, summaries map[int]string, id func(int) string, logger *log.Logger) []Section {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	out := make([]Section, len(sections))
	for i, sec := range sections {
		out[i].Section = sec
		out[i].Summary = summaries[i]
		src, ok := diagrams[i]
		if !ok || r == nil || !diagram.Validate(src) {
			continue
		}
		svg, err := r.Render(ctx, id(i), src)
		if err != nil {
			logger.Warn("diagram left out of export", "section", i, "err", err)
			continue
		}
		out[i].SVG = svg
	}
	return out
}
