package diagram

import (
	"regexp"
	"strings"
)

// listItemRe matches "1. item", "- item", "* item" and "+ item" with optional indentation.
var listItemRe = regexp.MustCompile(`^\s*(?:\d+\.|[-*+])\s+(.*)$`)

// ExtractListItems returns the content of every ordered or unordered list
// line in text, in line order. Lines that are not list items are ignored.
func ExtractListItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		m := listItemRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if item := strings.TrimSpace(m[1]); item != "" {
			items = append(items, item)
		}
	}
	return items
}
