package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/errors"
)

func TestParseFlowchart_ListDiagram(t *testing.T) {
	src := diagram.ListDiagram([]string{"Mix", "Bake", "Serve"})
	f, err := ParseFlowchart(src)
	if err != nil {
		t.Fatalf("ParseFlowchart() error: %v", err)
	}

	if f.Direction != DirTB {
		t.Errorf("Direction = %s, want TB", f.Direction)
	}
	if len(f.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(f.Nodes))
	}
	for i, label := range []string{"Mix", "Bake", "Serve"} {
		if f.Nodes[i].Label != label {
			t.Errorf("node %d label = %q, want %q", i, f.Nodes[i].Label, label)
		}
		if f.Nodes[i].Style["fill"] != "#e0f2fe" {
			t.Errorf("node %d fill = %q", i, f.Nodes[i].Style["fill"])
		}
	}
	if len(f.Edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(f.Edges))
	}
	if f.Edges[0].From != "Step1" || f.Edges[0].To != "Step2" || !f.Edges[0].Arrow {
		t.Errorf("edge 0 = %+v", f.Edges[0])
	}
}

func TestParseFlowchart_Skeletons(t *testing.T) {
	for _, k := range []diagram.Kind{diagram.KindFlowchart, diagram.KindGraph} {
		for _, c := range diagram.Complexities() {
			src := diagram.Synthesize(diagram.Request{Title: "System", Kind: k, Complexity: c}).Source
			if _, err := ParseFlowchart(src); err != nil {
				t.Errorf("%s/%s: %v\n%s", k, c, err, src)
			}
		}
	}

	fallback := diagram.Synthesize(diagram.Request{Title: "X", Kind: "unknown"}).Source
	if _, err := ParseFlowchart(fallback); err != nil {
		t.Errorf("fallback: %v", err)
	}
}

func TestParseFlowchart_Features(t *testing.T) {
	src := strings.Join([]string{
		"graph LR",
		"%% comment",
		`A(["Start"]) -->|go| B{Check}`,
		"B -.-> C((Done)) ==> D[(Store)]",
		"D --- E{{Hex}}; E --> F[[Sub]]",
		"subgraph group",
		"end",
		"classDef hot fill:#f00",
		"style B fill:#fff,stroke:#000,stroke-width:3px",
	}, "\n")

	f, err := ParseFlowchart(src)
	if err != nil {
		t.Fatalf("ParseFlowchart() error: %v", err)
	}
	if f.Direction != DirLR {
		t.Errorf("Direction = %s, want LR", f.Direction)
	}

	shapes := map[string]Shape{
		"A": ShapeStadium, "B": ShapeDiamond, "C": ShapeCircle,
		"D": ShapeCylinder, "E": ShapeHexagon, "F": ShapeSubroutine,
	}
	for id, want := range shapes {
		n := f.Node(id)
		if n == nil {
			t.Fatalf("node %s missing", id)
		}
		if n.Shape != want {
			t.Errorf("node %s shape = %d, want %d", id, n.Shape, want)
		}
	}
	if got := f.Node("A").Label; got != "Start" {
		t.Errorf("quoted label = %q, want Start", got)
	}

	wantEdges := []Edge{
		{From: "A", To: "B", Label: "go", Link: LinkSolid, Arrow: true},
		{From: "B", To: "C", Link: LinkDotted, Arrow: true},
		{From: "C", To: "D", Link: LinkThick, Arrow: true},
		{From: "D", To: "E", Link: LinkSolid, Arrow: false},
		{From: "E", To: "F", Link: LinkSolid, Arrow: true},
	}
	if len(f.Edges) != len(wantEdges) {
		t.Fatalf("got %d edges, want %d: %+v", len(f.Edges), len(wantEdges), f.Edges)
	}
	for i, want := range wantEdges {
		if f.Edges[i] != want {
			t.Errorf("edge %d = %+v, want %+v", i, f.Edges[i], want)
		}
	}

	if got := f.Node("B").Style["stroke-width"]; got != "3px" {
		t.Errorf("style stroke-width = %q", got)
	}
}

func TestParseFlowchart_Directions(t *testing.T) {
	tests := map[string]Direction{
		"flowchart TD": DirTB,
		"flowchart tb": DirTB,
		"graph BT":     DirBT,
		"graph RL":     DirRL,
		"graph":        DirTB,
		"graph LR;":    DirLR,
	}
	for src, want := range tests {
		f, err := ParseFlowchart(src)
		if err != nil {
			t.Errorf("ParseFlowchart(%q) error: %v", src, err)
			continue
		}
		if f.Direction != want {
			t.Errorf("ParseFlowchart(%q).Direction = %s, want %s", src, f.Direction, want)
		}
	}
}

func TestParseFlowchart_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
		wantMsg  string
	}{
		{"bad direction", "flowchart XY", 1, "unknown direction"},
		{"not a flowchart", "sequenceDiagram\n A->>B: hi", 1, "expected flowchart or graph"},
		{"unclosed bracket", "flowchart TD\n    A[Start --> B", 2, "unclosed"},
		{"dangling link", "flowchart TD\n    A --> B\n    B -->", 3, "missing node"},
		{"garbage", "graph LR\n    A ?? B", 2, "unexpected"},
		{"bad style", "graph LR\n    style A", 2, "style needs"},
		{"empty", "\n\n", 0, "empty diagram"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlowchart(tt.src)
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("ParseFlowchart() error = %v, want *SyntaxError", err)
			}
			if se.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", se.Line, tt.wantLine)
			}
			if !strings.Contains(se.Msg, tt.wantMsg) {
				t.Errorf("Msg = %q, want it to contain %q", se.Msg, tt.wantMsg)
			}
			if se.Source != tt.src {
				t.Error("SyntaxError should carry the rejected source")
			}
		})
	}
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements(`A["x;y"] --> B; B -->|a;b| C;`)
	want := []string{`A["x;y"] --> B`, "B -->|a;b| C"}
	if len(got) != len(want) {
		t.Fatalf("splitStatements() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("statement %d = %q, want %q", i, got[i], want[i])
		}
	}
}
