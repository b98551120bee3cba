package markdown

import "strings"

// Summarize returns the first two sentences of a section body as a short
// caption for its diagram. Sentences are split on ". ", runs of whitespace in
// the result collapse to one space, and a trailing period is added when the
// body contains one.
func Summarize(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	parts := strings.SplitN(content, ". ", 3)
	summary := strings.Join(strings.Fields(strings.Join(parts[:min(len(parts), 2)], ". ")), " ")
	if strings.Contains(content, ".") && !strings.HasSuffix(summary, ".") {
		summary += "."
	}
	return summary
}
