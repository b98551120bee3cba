package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// converter is shared by all callers; goldmark.Markdown is safe for concurrent use.
var converter = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithXHTML(),
	),
)

// RenderHTML converts markdown source to an HTML fragment. Raw HTML in the
// source is omitted.
func RenderHTML(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := converter.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// RenderSection renders a section's heading and body as one HTML fragment,
// keeping the heading at its original level.
func RenderSection(s Section) (template.HTML, error) {
	level := s.Level
	if level < 1 || level > 6 {
		level = 1
	}
	var src bytes.Buffer
	src.Write(bytes.Repeat([]byte{'#'}, level))
	src.WriteByte(' ')
	src.WriteString(s.Heading)
	if s.Content != "" {
		src.WriteString("\n\n")
		src.WriteString(s.Content)
	}
	return RenderHTML(src.String())
}
