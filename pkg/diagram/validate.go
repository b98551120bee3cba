package diagram

import (
	"strings"

	"github.com/matzehuels/mdgraph/pkg/errors"
)

// recognizedKeywords are the headers of the diagram kinds mdgraph generates.
// Edited sources must use one of them too.
var recognizedKeywords = []string{
	"flowchart",
	"graph",
	"sequenceDiagram",
	"classDiagram",
	"erDiagram",
	"gantt",
	"pie",
}

// Validate reports whether src starts with a recognized diagram keyword,
// ignoring case and surrounding whitespace. Empty input is invalid.
func Validate(src string) bool {
	return detectKeyword(src) != ""
}

// ValidateStrict is Validate with a structured error for API callers.
func ValidateStrict(src string) error {
	if strings.TrimSpace(src) == "" {
		return errors.New(errors.ErrCodeInvalidDiagram, "diagram source is empty")
	}
	if !Validate(src) {
		return errors.New(errors.ErrCodeInvalidDiagram,
			"diagram source must start with one of: %s", strings.Join(recognizedKeywords, ", "))
	}
	return nil
}

// Keyword returns the recognized keyword src starts with, in its canonical
// spelling, or "" when src is not valid.
func Keyword(src string) string {
	return detectKeyword(src)
}

func detectKeyword(src string) string {
	lower := strings.ToLower(strings.TrimSpace(src))
	if lower == "" {
		return ""
	}
	for _, kw := range recognizedKeywords {
		if strings.HasPrefix(lower, strings.ToLower(kw)) {
			return kw
		}
	}
	return ""
}
