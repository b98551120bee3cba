package diagram

import (
	"fmt"
	"strings"
)

// stepStyle is applied to every node of a list diagram.
var stepStyle = styleSpec(0)

// Synthesize maps req to Mermaid source without randomness or I/O.
//
// When req.Description holds more than one list item the result is a list
// diagram, regardless of req.Kind and req.Complexity. Otherwise the skeleton
// for (Kind, Complexity) is used, falling back to a two-node graph for pairs
// the skeleton table does not know. Synthesize never fails.
func Synthesize(req Request) Response {
	if items := ExtractListItems(req.Description); len(items) > 1 {
		return Response{Source: ListDiagram(items), Origin: OriginTemplate}
	}

	fn, known := lookupSkeleton(req.Kind, req.Complexity.orDefault())
	src := strings.TrimSpace(fn(SanitizeLabel(req.Title), SanitizeLabel(req.Description)))
	if !known {
		return Response{Source: src, Origin: OriginFallback}
	}
	return Response{Source: src, Origin: OriginTemplate}
}

// ListDiagram renders items as a top-down chain: one Step<i> node per item,
// Step1 --> Step2 --> ... --> StepN, and a uniform style on every node.
// Items whose sanitized label is empty are labelled "Step <i>".
func ListDiagram(items []string) string {
	s := newSource("flowchart TD")
	for i, item := range items {
		s.line("%s[%s]", stepID(i), orDefault(SanitizeLabel(item), fmt.Sprintf("Step %d", i+1)))
	}
	for i := 1; i < len(items); i++ {
		s.line("%s --> %s", stepID(i-1), stepID(i))
	}
	for i := range items {
		s.line("style %s %s", stepID(i), stepStyle)
	}
	return s.String()
}

// stepID returns the node id of the i-th (zero based) list item.
func stepID(i int) string {
	return fmt.Sprintf("Step%d", i+1)
}
