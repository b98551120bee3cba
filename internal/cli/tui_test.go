package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/markdown"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m SectionBrowserModel, msg tea.Msg) (SectionBrowserModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(SectionBrowserModel), cmd
}

func templateGenerate(_ context.Context, req diagram.Request) (diagram.Response, error) {
	return diagram.Synthesize(req), nil
}

func TestSectionBrowser_Navigation(t *testing.T) {
	sections := markdown.ExtractSections("# A\n# B\n# C")
	m := NewSectionBrowserModel(context.Background(), sections, templateGenerate)

	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("j"))
	m, _ = update(t, m, key("j"))
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2 (clamped)", m.Cursor)
	}
	m, _ = update(t, m, key("up"))
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", m.Cursor)
	}

	m, _ = update(t, m, key("tab"))
	if m.Kind != diagram.KindGraph {
		t.Errorf("Kind after tab = %s, want graph", m.Kind)
	}

	if _, cmd := update(t, m, key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestSectionBrowser_Generate(t *testing.T) {
	sections := markdown.ExtractSections(stepsDoc)
	m := NewSectionBrowserModel(context.Background(), sections, templateGenerate)

	m, cmd := update(t, m, key("enter"))
	if cmd == nil {
		t.Fatal("enter should start generation")
	}
	if m.Pending != 0 {
		t.Errorf("Pending = %d, want 0", m.Pending)
	}
	if !strings.Contains(m.View(), "…") {
		t.Error("View() should mark the pending section")
	}

	// A second enter while pending is ignored.
	if _, again := update(t, m, key("enter")); again != nil {
		t.Error("enter while pending should not start another generation")
	}

	m, _ = update(t, m, cmd())
	if m.Pending != -1 {
		t.Errorf("Pending = %d after result, want -1", m.Pending)
	}
	d, ok := m.Diagrams[0]
	if !ok || !strings.Contains(d.Source, "Step1[Mix]") {
		t.Fatalf("Diagrams[0] = %+v", d)
	}
	if view := m.View(); !strings.Contains(view, "Step1[Mix]") || !strings.Contains(view, "template") {
		t.Errorf("View() missing preview:\n%s", view)
	}
}

func TestSectionBrowser_GenerateError(t *testing.T) {
	failing := func(context.Context, diagram.Request) (diagram.Response, error) {
		return diagram.Response{}, fmt.Errorf("strategies exhausted")
	}
	m := NewSectionBrowserModel(context.Background(), markdown.ExtractSections("# A"), failing)

	m, cmd := update(t, m, key("enter"))
	m, _ = update(t, m, cmd())
	if m.Err == nil || !strings.Contains(m.View(), "strategies exhausted") {
		t.Errorf("error not shown: %v\n%s", m.Err, m.View())
	}
}

func TestSectionBrowser_Empty(t *testing.T) {
	m := NewSectionBrowserModel(context.Background(), nil, templateGenerate)
	if _, cmd := update(t, m, key("enter")); cmd != nil {
		t.Error("enter with no sections should do nothing")
	}
	if !strings.Contains(m.View(), "no headings") {
		t.Errorf("View() = %q", m.View())
	}
}

func TestNextKind(t *testing.T) {
	kinds := diagram.Kinds()
	if got := nextKind(kinds[len(kinds)-1]); got != kinds[0] {
		t.Errorf("nextKind(last) = %s, want %s", got, kinds[0])
	}
	if got := nextKind("unknown"); got != kinds[0] {
		t.Errorf("nextKind(unknown) = %s", got)
	}
}
