package diagram

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
)

var (
	stepNodeRe = regexp.MustCompile(`(?m)^    (Step\d+)\[`)
	stepEdgeRe = regexp.MustCompile(`(?m)^    (Step\d+) --> (Step\d+)$`)
)

func TestSynthesizeListDiagram(t *testing.T) {
	resp := Synthesize(Request{
		Title:       "Recipe",
		Description: "1. Mix\n2. Bake\n3. Serve",
		Kind:        KindPie,
	})

	if resp.Origin != OriginTemplate {
		t.Errorf("Origin = %q, want %q", resp.Origin, OriginTemplate)
	}
	if !strings.HasPrefix(resp.Source, "flowchart TD") {
		t.Fatalf("list diagram should be a flowchart regardless of kind, got:\n%s", resp.Source)
	}
	for i, label := range []string{"Mix", "Bake", "Serve"} {
		want := fmt.Sprintf("Step%d[%s]", i+1, label)
		if !strings.Contains(resp.Source, want) {
			t.Errorf("missing node %q in:\n%s", want, resp.Source)
		}
	}
	for _, edge := range []string{"Step1 --> Step2", "Step2 --> Step3"} {
		if !strings.Contains(resp.Source, edge) {
			t.Errorf("missing edge %q in:\n%s", edge, resp.Source)
		}
	}
	if strings.Contains(resp.Source, "Step3 --> ") {
		t.Errorf("last step should have no outgoing edge:\n%s", resp.Source)
	}
}

func TestListDiagramShape(t *testing.T) {
	for n := 2; n <= 12; n++ {
		items := make([]string, n)
		for i := range items {
			items[i] = fmt.Sprintf("item %d", i)
		}

		src := ListDiagram(items)
		nodes := stepNodeRe.FindAllStringSubmatch(src, -1)
		edges := stepEdgeRe.FindAllStringSubmatch(src, -1)

		if len(nodes) != n {
			t.Fatalf("n=%d: got %d nodes", n, len(nodes))
		}
		if len(edges) != n-1 {
			t.Fatalf("n=%d: got %d edges", n, len(edges))
		}
		for i, e := range edges {
			if e[1] != stepID(i) || e[2] != stepID(i+1) {
				t.Errorf("n=%d: edge %d = %s --> %s, want %s --> %s", n, i, e[1], e[2], stepID(i), stepID(i+1))
			}
		}
		if got := strings.Count(src, "style Step"); got != n {
			t.Errorf("n=%d: got %d style lines, want %d", n, got, n)
		}
	}
}

func TestListDiagramEmptyLabel(t *testing.T) {
	src := ListDiagram([]string{"First", "!!!"})
	if !strings.Contains(src, "Step2[Step 2]") {
		t.Errorf("empty label should fall back to step number:\n%s", src)
	}
}

func TestSynthesizeSingleItemUsesSkeleton(t *testing.T) {
	resp := Synthesize(Request{Title: "Login", Description: "- only one", Kind: KindSequence, Complexity: ComplexitySimple})
	if !strings.HasPrefix(resp.Source, "sequenceDiagram") {
		t.Errorf("single list item should not produce a list diagram:\n%s", resp.Source)
	}
	if resp.Origin != OriginTemplate {
		t.Errorf("Origin = %q, want template", resp.Origin)
	}
}

func TestSynthesizeSkeletons(t *testing.T) {
	for _, k := range Kinds() {
		for _, c := range Complexities() {
			t.Run(string(k)+"/"+string(c), func(t *testing.T) {
				req := Request{Title: "Checkout", Description: "Pay for the order", Kind: k, Complexity: c}

				first := Synthesize(req)
				second := Synthesize(req)
				if first != second {
					t.Fatalf("Synthesize is not deterministic:\n%s\n---\n%s", first.Source, second.Source)
				}
				if first.Origin != OriginTemplate {
					t.Errorf("Origin = %q, want template", first.Origin)
				}
				if !strings.HasPrefix(first.Source, k.Keyword()) {
					t.Errorf("source does not start with %q:\n%s", k.Keyword(), first.Source)
				}
				if !Validate(first.Source) {
					t.Errorf("skeleton does not validate:\n%s", first.Source)
				}
				if !strings.Contains(first.Source, "Checkout") {
					t.Errorf("skeleton does not mention the title:\n%s", first.Source)
				}
			})
		}
	}
}

func TestSynthesizeNodeCounts(t *testing.T) {
	for _, k := range []Kind{KindFlowchart, KindGraph} {
		prev := 0
		for _, c := range Complexities() {
			src := Synthesize(Request{Title: "T", Kind: k, Complexity: c}).Source
			n := strings.Count(src, "\n    style ")
			if n < 3 || n > 15 {
				t.Errorf("%s/%s: %d styled nodes, want 3..15", k, c, n)
			}
			if n <= prev {
				t.Errorf("%s/%s: %d nodes, want more than %d", k, c, n, prev)
			}
			prev = n
		}
	}
}

func TestSynthesizeDefaultComplexity(t *testing.T) {
	for _, k := range Kinds() {
		empty := Synthesize(Request{Title: "X", Kind: k})
		medium := Synthesize(Request{Title: "X", Kind: k, Complexity: ComplexityMedium})
		if empty != medium {
			t.Errorf("%s: empty complexity differs from medium", k)
		}
	}
}

func TestSynthesizeFallback(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"unknown kind", Request{Title: "My [Title]", Kind: "mindmap"}},
		{"unknown complexity", Request{Title: "My [Title]", Kind: KindFlowchart, Complexity: "extreme"}},
		{"empty kind", Request{Title: "My [Title]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Synthesize(tt.req)
			if resp.Origin != OriginFallback {
				t.Errorf("Origin = %q, want fallback", resp.Origin)
			}
			if !strings.Contains(resp.Source, "A[My Title] --> B[End]") {
				t.Errorf("fallback should link the sanitized title to End:\n%s", resp.Source)
			}
			if !Validate(resp.Source) {
				t.Errorf("fallback does not validate:\n%s", resp.Source)
			}
		})
	}
}

func TestSynthesizeSanitizesInput(t *testing.T) {
	resp := Synthesize(Request{
		Title:       `Evil"]; click A callback`,
		Description: "x --> y",
		Kind:        KindFlowchart,
		Complexity:  ComplexitySimple,
	})
	if strings.Contains(resp.Source, `"`) || strings.Contains(resp.Source, ";") {
		t.Errorf("unsanitized metacharacters leaked into source:\n%s", resp.Source)
	}
	if !strings.Contains(resp.Source, "A[Evil click A callback]") {
		t.Errorf("title not sanitized as expected:\n%s", resp.Source)
	}
	if !strings.Contains(resp.Source, "B[x -- y]") {
		t.Errorf("description not sanitized as expected:\n%s", resp.Source)
	}
}

func TestSynthesizeEmptyTitle(t *testing.T) {
	resp := Synthesize(Request{Kind: KindClass, Complexity: ComplexitySimple})
	if !strings.Contains(resp.Source, "class Subject {") {
		t.Errorf("empty title should use placeholder class name:\n%s", resp.Source)
	}
}
