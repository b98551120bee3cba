package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ToDOT converts a parsed flowchart to Graphviz DOT.
// Mermaid style attributes map onto their Graphviz equivalents: fill to
// fillcolor, stroke to color, stroke-width to penwidth, color to fontcolor,
// and a stroke-dasharray to a dashed outline.
func ToDOT(f *Flowchart) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", f.Direction)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range f.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range f.Edges {
		attrs := edgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *Node) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.Label)}
	styles := []string{"filled"}

	switch n.Shape {
	case ShapeRound, ShapeStadium:
		styles = append(styles, "rounded")
	case ShapeSubroutine:
		attrs = append(attrs, "peripheries=2")
	case ShapeCylinder:
		attrs = append(attrs, "shape=cylinder")
	case ShapeCircle:
		attrs = append(attrs, "shape=circle")
	case ShapeDiamond:
		attrs = append(attrs, "shape=diamond")
	case ShapeHexagon:
		attrs = append(attrs, "shape=hexagon")
	}

	if v := n.Style["fill"]; v != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", v))
	}
	if v := n.Style["stroke"]; v != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", v))
	}
	if v := n.Style["stroke-width"]; v != "" {
		if w, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64); err == nil {
			attrs = append(attrs, fmt.Sprintf("penwidth=%g", w))
		}
	}
	if v := n.Style["color"]; v != "" {
		attrs = append(attrs, fmt.Sprintf("fontcolor=%q", v))
	}
	if n.Style["stroke-dasharray"] != "" {
		styles = append(styles, "dashed")
	}

	return append(attrs, fmt.Sprintf("style=%q", strings.Join(styles, ",")))
}

func edgeAttrs(e Edge) []string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	switch e.Link {
	case LinkDotted:
		attrs = append(attrs, "style=dashed")
	case LinkThick:
		attrs = append(attrs, "penwidth=2")
	}
	if !e.Arrow {
		attrs = append(attrs, "arrowhead=none")
	}
	return attrs
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)\s+(-?[0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
	idSafeRe  = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	prologRe  = regexp.MustCompile(`(?s)\A.*?(<svg[\s>])`)
)

// normalizeSVG replaces the root tag with one carrying a zero-origin viewBox,
// explicit pixel size and the diagram id. SVG without a usable viewBox is
// returned unchanged.
func normalizeSVG(svg []byte, id string) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	idAttr := ""
	if id = idSafeRe.ReplaceAllString(id, ""); id != "" {
		idAttr = fmt.Sprintf(` id="%s"`, id)
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink"%s viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		idAttr, w, h, w, h)

	loc := svgTagRe.FindIndex(svg)
	out := make([]byte, 0, len(svg)+len(root))
	out = append(out, svg[:loc[0]]...)
	out = append(out, root...)
	return append(out, svg[loc[1]:]...)
}

// InlineSVG strips the XML declaration, doctype and leading comments so the
// document can be embedded directly in HTML.
func InlineSVG(svg []byte) []byte {
	loc := prologRe.FindSubmatchIndex(svg)
	if loc == nil {
		return svg
	}
	return svg[loc[2]:]
}
