package render

import (
	"fmt"
	"regexp"
	"strings"
)

// Direction is the rank direction of a flowchart.
type Direction string

// Flowchart directions. TD is accepted as an alias of TB.
const (
	DirTB Direction = "TB"
	DirBT Direction = "BT"
	DirLR Direction = "LR"
	DirRL Direction = "RL"
)

// Shape is a flowchart node outline.
type Shape int

// Node shapes, named after their Mermaid bracket syntax.
const (
	ShapeRect       Shape = iota // A[label]
	ShapeRound                   // A(label)
	ShapeStadium                 // A([label])
	ShapeSubroutine              // A[[label]]
	ShapeCylinder                // A[(label)]
	ShapeCircle                  // A((label))
	ShapeDiamond                 // A{label}
	ShapeHexagon                 // A{{label}}
)

// Link is the line style of an edge.
type Link int

// Edge line styles.
const (
	LinkSolid  Link = iota // --> or ---
	LinkDotted             // -.-> or -.-
	LinkThick              // ==> or ===
)

// Node is a flowchart vertex. Style holds the attributes of its style line.
type Node struct {
	ID    string
	Label string
	Shape Shape
	Style map[string]string
}

// Edge connects two nodes.
type Edge struct {
	From, To string
	Label    string
	Link     Link
	Arrow    bool
}

// Flowchart is the parsed form of a flowchart or graph diagram.
type Flowchart struct {
	Direction Direction
	Nodes     []*Node // declaration order
	Edges     []Edge

	index map[string]*Node
}

// Node returns the node with the given id, or nil.
func (f *Flowchart) Node(id string) *Node {
	return f.index[id]
}

// shapeDelims lists bracket pairs longest first so "((" wins over "(".
var shapeDelims = []struct {
	open, close string
	shape       Shape
}{
	{"((", "))", ShapeCircle},
	{"([", "])", ShapeStadium},
	{"[(", ")]", ShapeCylinder},
	{"[[", "]]", ShapeSubroutine},
	{"{{", "}}", ShapeHexagon},
	{"[", "]", ShapeRect},
	{"(", ")", ShapeRound},
	{"{", "}", ShapeDiamond},
}

// linkRe matches an edge operator with an optional |label|.
var linkRe = regexp.MustCompile(`^(-\.+->|-\.+-|={2,}>|={3,}|-{2,}>|-{3,})(?:\s*\|([^|]*)\|)?`)

// ignoredStatements are valid Mermaid statements without a visual effect here.
var ignoredStatements = map[string]bool{
	"classdef":  true,
	"class":     true,
	"click":     true,
	"linkstyle": true,
	"direction": true,
	"subgraph":  true,
	"end":       true,
}

// ParseFlowchart parses the flowchart/graph subset of Mermaid: node
// declarations, chained edges with optional labels, style lines, and the
// header orientation. Statements may be separated by newlines or semicolons.
// Errors are *SyntaxError values carrying the 1-based line number.
func ParseFlowchart(src string) (*Flowchart, error) {
	f := &Flowchart{Direction: DirTB, index: map[string]*Node{}}
	sawHeader := false

	for i, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}

		stmts := splitStatements(line)
		if len(stmts) == 0 {
			continue
		}
		if !sawHeader {
			if err := f.parseHeader(stmts[0]); err != nil {
				return nil, &SyntaxError{Line: i + 1, Msg: err.Error(), Source: src}
			}
			sawHeader = true
			stmts = stmts[1:]
		}

		for _, stmt := range stmts {
			if err := f.parseStatement(stmt); err != nil {
				return nil, &SyntaxError{Line: i + 1, Msg: err.Error(), Source: src}
			}
		}
	}

	if !sawHeader {
		return nil, &SyntaxError{Msg: "empty diagram", Source: src}
	}
	return f, nil
}

func (f *Flowchart) parseHeader(stmt string) error {
	fields := strings.Fields(stmt)
	switch strings.ToLower(fields[0]) {
	case "flowchart", "graph":
	default:
		return fmt.Errorf("expected flowchart or graph header, got %q", fields[0])
	}
	if len(fields) == 1 {
		return nil
	}
	if len(fields) > 2 {
		return fmt.Errorf("unexpected %q after direction", strings.Join(fields[2:], " "))
	}

	switch d := strings.ToUpper(fields[1]); d {
	case "TD", "TB":
		f.Direction = DirTB
	case "BT", "LR", "RL":
		f.Direction = Direction(d)
	default:
		return fmt.Errorf("unknown direction %q", fields[1])
	}
	return nil
}

func (f *Flowchart) parseStatement(stmt string) error {
	word, rest, _ := strings.Cut(stmt, " ")
	switch lw := strings.ToLower(word); {
	case lw == "style":
		return f.parseStyle(strings.TrimSpace(rest))
	case ignoredStatements[lw]:
		return nil
	}
	return f.parseChain(stmt)
}

// parseStyle handles "style ID key:value,key:value".
func (f *Flowchart) parseStyle(rest string) error {
	id, attrs, ok := strings.Cut(rest, " ")
	if !ok || !isIdent(id) {
		return fmt.Errorf("style needs a node id and attributes")
	}

	n := f.declare(id, "", ShapeRect, false)
	if n.Style == nil {
		n.Style = map[string]string{}
	}
	for _, kv := range strings.Split(attrs, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(kv), ":")
		if !ok {
			return fmt.Errorf("malformed style attribute %q", kv)
		}
		n.Style[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return nil
}

// parseChain handles "A[x] --> B --> C{y}" and "A -->|label| B".
func (f *Flowchart) parseChain(stmt string) error {
	s := stmt
	from, rest, err := f.nodeRef(s)
	if err != nil {
		return err
	}
	s = strings.TrimSpace(rest)

	for s != "" {
		m := linkRe.FindStringSubmatch(s)
		if m == nil {
			return fmt.Errorf("unexpected %q", s)
		}
		op, label := m[1], strings.TrimSpace(m[2])
		s = strings.TrimSpace(s[len(m[0]):])

		to, rest, err := f.nodeRef(s)
		if err != nil {
			return err
		}
		s = strings.TrimSpace(rest)

		f.Edges = append(f.Edges, Edge{
			From:  from.ID,
			To:    to.ID,
			Label: label,
			Link:  linkStyle(op),
			Arrow: strings.HasSuffix(op, ">"),
		})
		from = to
	}
	return nil
}

// nodeRef reads a node id with an optional shape and declares it.
func (f *Flowchart) nodeRef(s string) (*Node, string, error) {
	end := 0
	for end < len(s) && isIdentByte(s[end]) {
		end++
	}
	if end == 0 {
		if s == "" {
			return nil, "", fmt.Errorf("missing node after link")
		}
		return nil, "", fmt.Errorf("expected node id at %q", s)
	}
	id, rest := s[:end], s[end:]

	for _, d := range shapeDelims {
		if !strings.HasPrefix(rest, d.open) {
			continue
		}
		body := rest[len(d.open):]
		closeAt := strings.Index(body, d.close)
		if closeAt < 0 {
			return nil, "", fmt.Errorf("unclosed %q in node %s", d.open, id)
		}
		label := strings.Trim(strings.TrimSpace(body[:closeAt]), `"`)
		return f.declare(id, label, d.shape, true), body[closeAt+len(d.close):], nil
	}
	return f.declare(id, "", ShapeRect, false), rest, nil
}

// declare returns the node for id, creating it on first use. An explicit
// shape on a later reference replaces the label and shape.
func (f *Flowchart) declare(id, label string, shape Shape, explicit bool) *Node {
	n, ok := f.index[id]
	if !ok {
		n = &Node{ID: id, Label: id, Shape: ShapeRect}
		f.index[id] = n
		f.Nodes = append(f.Nodes, n)
	}
	if explicit {
		n.Label = label
		n.Shape = shape
	}
	return n
}

func linkStyle(op string) Link {
	switch {
	case strings.Contains(op, "."):
		return LinkDotted
	case strings.HasPrefix(op, "="):
		return LinkThick
	default:
		return LinkSolid
	}
}

// splitStatements splits a line on semicolons outside brackets and |labels|.
func splitStatements(line string) []string {
	var (
		out   []string
		depth int
		inBar bool
		start int
	)
	for i := 0; i < len(line); i++ {
		switch c := line[i]; c {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			if depth > 0 {
				depth--
			}
		case '|':
			inBar = !inBar
		case ';':
			if depth == 0 && !inBar {
				if s := strings.TrimSpace(line[start:i]); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(line[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return true
}
