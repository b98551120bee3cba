package diagram

import (
	"strings"

	"github.com/matzehuels/mdgraph/pkg/errors"
)

// Kind names a Mermaid diagram family.
type Kind string

// Supported diagram kinds.
const (
	KindFlowchart Kind = "flowchart"
	KindGraph     Kind = "graph"
	KindSequence  Kind = "sequence"
	KindClass     Kind = "class"
	KindER        Kind = "er"
	KindGantt     Kind = "gantt"
	KindPie       Kind = "pie"
)

// Complexity selects how large a skeleton diagram is.
type Complexity string

// Complexity tiers. The zero value behaves as ComplexityMedium.
const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// DefaultComplexity is used when a request leaves Complexity empty.
const DefaultComplexity = ComplexityMedium

// Origin records which path produced a diagram.
type Origin string

// Diagram origins.
const (
	OriginAI       Origin = "ai"
	OriginTemplate Origin = "template"
	OriginFallback Origin = "fallback"
)

// Request describes a diagram to synthesize.
type Request struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Kind        Kind       `json:"kind"`
	Complexity  Complexity `json:"complexity,omitempty"`
}

// Response is a synthesized diagram. Summary is only set when the diagram
// was generated for a workspace section.
type Response struct {
	Source  string `json:"source"`
	Origin  Origin `json:"origin"`
	Summary string `json:"summary,omitempty"`
}

// keywords maps each kind to the Mermaid keyword its source starts with.
var keywords = map[Kind]string{
	KindFlowchart: "flowchart",
	KindGraph:     "graph",
	KindSequence:  "sequenceDiagram",
	KindClass:     "classDiagram",
	KindER:        "erDiagram",
	KindGantt:     "gantt",
	KindPie:       "pie",
}

// Kinds returns all supported kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindFlowchart, KindGraph, KindSequence, KindClass, KindER, KindGantt, KindPie}
}

// Complexities returns all complexity tiers in ascending order.
func Complexities() []Complexity {
	return []Complexity{ComplexitySimple, ComplexityMedium, ComplexityComplex}
}

// Keyword returns the Mermaid keyword for k, or "" for unknown kinds.
func (k Kind) Keyword() string {
	return keywords[k]
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	_, ok := keywords[k]
	return ok
}

// Valid reports whether c is a supported complexity tier.
func (c Complexity) Valid() bool {
	switch c {
	case ComplexitySimple, ComplexityMedium, ComplexityComplex:
		return true
	}
	return false
}

// orDefault returns c, or DefaultComplexity when c is empty.
func (c Complexity) orDefault() Complexity {
	if c == "" {
		return DefaultComplexity
	}
	return c
}

// ParseKind converts user input to a Kind. Matching is case-insensitive and
// also accepts the Mermaid keyword itself (e.g. "sequenceDiagram").
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for _, k := range Kinds() {
		if strings.EqualFold(s, string(k)) || strings.EqualFold(s, k.Keyword()) {
			return k, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidKind,
		"invalid diagram kind: %q (must be one of: flowchart, graph, sequence, class, er, gantt, pie)", s)
}

// ParseComplexity converts user input to a Complexity. Empty input yields
// DefaultComplexity.
func ParseComplexity(s string) (Complexity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultComplexity, nil
	}
	c := Complexity(s)
	if !c.Valid() {
		return "", errors.New(errors.ErrCodeInvalidComplexity,
			"invalid complexity: %q (must be one of: simple, medium, complex)", s)
	}
	return c, nil
}
