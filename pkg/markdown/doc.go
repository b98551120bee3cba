// Package markdown splits markdown notes into heading-delimited sections and
// renders markdown to HTML for document export.
//
// Sections are the unit of diagram generation: every heading starts a new
// [Section] whose Content is the body text up to the next heading. A section
// has no identity beyond its index in the slice returned by [ExtractSections],
// and the whole slice is rebuilt whenever the document changes.
//
//	sections := markdown.ExtractSections("# Steps\n1. Mix\n2. Bake")
//	// sections[0] = {Heading: "Steps", Level: 1, Content: "1. Mix\n2. Bake"}
//
// HTML rendering is delegated to goldmark with GitHub Flavored Markdown
// extensions, see [RenderHTML].
package markdown
