package diagram

import (
	"strings"
	"unicode"
)

// MaxLabelLength is the longest label SanitizeLabel returns.
const MaxLabelLength = 40

// SanitizeLabel makes free text safe to embed in Mermaid source.
//
// Everything except ASCII letters, digits, underscores, dashes and whitespace
// is dropped (this covers brackets, braces, angle brackets, quotes, colons,
// semicolons, pipes, backslashes and punctuation). Whitespace runs collapse
// to a single space, the result is trimmed and cut to MaxLabelLength.
func SanitizeLabel(s string) string {
	var b strings.Builder
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case isLabelRune(r):
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}

	out := b.String()
	if len(out) > MaxLabelLength {
		out = strings.TrimRight(out[:MaxLabelLength], " ")
	}
	return out
}

func isLabelRune(r rune) bool {
	return r == '_' || r == '-' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// identifier turns a sanitized label into a Mermaid identifier for diagram
// kinds that do not allow spaces in names (class and ER entities).
func identifier(label, fallback string) string {
	id := strings.ReplaceAll(SanitizeLabel(label), " ", "_")
	if id == "" {
		return fallback
	}
	return id
}
