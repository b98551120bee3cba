package export

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/mdgraph/pkg/errors"
	"github.com/matzehuels/mdgraph/pkg/markdown"
	"github.com/matzehuels/mdgraph/pkg/render"
)

func TestDocument(t *testing.T) {
	svg := []byte(`<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<svg xmlns="http://www.w3.org/2000/svg" id="diagram-0"><g/></svg>`)
	sections := []Section{
		{Section: markdown.Section{Heading: "Steps", Level: 1, Content: "1. Mix\n2. Bake"}, SVG: svg, Summary: "Mix & bake."},
		{Section: markdown.Section{Heading: "Notes", Level: 2, Content: "plain <b>text</b>"}},
	}

	out, err := Document("Recipe & notes", sections)
	if err != nil {
		t.Fatalf("Document() error: %v", err)
	}
	doc := string(out)

	for _, want := range []string{
		`<title>Recipe &amp; notes</title>`,
		`<div id="document">`,
		`<h1 id="steps">Steps</h1>`,
		`<li>Mix</li>`,
		`<h2 id="notes">Notes</h2>`,
		`<figure class="diagram"><svg xmlns="http://www.w3.org/2000/svg" id="diagram-0">`,
		`<p class="summary"><strong>Summary:</strong> Mix &amp; bake.</p>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}
	if strings.Contains(doc, "<?xml") {
		t.Error("XML prolog should be stripped from inline SVG")
	}
	if strings.Count(doc, "<figure") != 1 {
		t.Error("only sections with a diagram get a figure")
	}
	if strings.Count(doc, `<p class="summary">`) != 1 {
		t.Error("only sections with a summary get one")
	}
}

func TestRenderSections(t *testing.T) {
	sections := markdown.ExtractSections("# A\n\n# B\n\n# C\n\n# D")
	diagrams := map[int]string{
		0: "graph TD\n    A --> B",
		1: "not a diagram",
		2: "graph TD\n    BROKEN",
	}
	var rendered []string
	r := render.RendererFunc(func(_ context.Context, id, src string) ([]byte, error) {
		rendered = append(rendered, id)
		if strings.Contains(src, "BROKEN") {
			return nil, errors.New(errors.ErrCodeRenderFailed, "broken")
		}
		return []byte("<svg id=\"" + id + "\"></svg>"), nil
	})

	summaries := map[int]string{0: "First.", 2: "Third."}

	out := RenderSections(context.Background(), r, sections, diagrams, summaries,
		func(i int) string { return fmt.Sprintf("d%d", i) }, nil)

	if len(out) != 4 {
		t.Fatalf("RenderSections() returned %d sections, want 4", len(out))
	}
	if got := string(out[0].SVG); got != `<svg id="d0"></svg>` {
		t.Errorf("section 0 SVG = %q", got)
	}
	for i := 1; i < 4; i++ {
		if out[i].SVG != nil {
			t.Errorf("section %d SVG = %q, want none", i, out[i].SVG)
		}
		if out[i].Heading != sections[i].Heading {
			t.Errorf("section %d heading = %q", i, out[i].Heading)
		}
	}
	for i, want := range []string{"First.", "", "Third.", ""} {
		if out[i].Summary != want {
			t.Errorf("section %d summary = %q, want %q", i, out[i].Summary, want)
		}
	}
	if fmt.Sprint(rendered) != "[d0 d2]" {
		t.Errorf("rendered = %v, want [d0 d2]", rendered)
	}
}
