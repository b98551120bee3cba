package markdown

import (
	"regexp"
	"strings"
)

// headingRe matches ATX headings: one to six '#' followed by whitespace and text.
var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Section is a heading and the body text that follows it.
type Section struct {
	Heading string `json:"heading"`
	Level   int    `json:"level"`
	Content string `json:"content"`
}

// ExtractSections scans doc line by line and returns one Section per heading,
// in document order. Text before the first heading belongs to no section and
// is dropped. Content is the section body joined with newlines and trimmed.
// Carriage returns at line ends are ignored so CRLF input behaves like LF.
func ExtractSections(doc string) []Section {
	var (
		sections []Section
		current  *Section
		body     []string
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(strings.Join(body, "\n"))
		sections = append(sections, *current)
	}

	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if m := headingRe.FindStringSubmatch(line); m != nil {
			flush()
			current = &Section{Heading: strings.TrimSpace(m[2]), Level: len(m[1])}
			body = body[:0]
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()

	return sections
}

// Headings returns the heading text of each section, in order.
func Headings(sections []Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Heading
	}
	return out
}
