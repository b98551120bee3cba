package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/markdown"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// =============================================================================
// SectionBrowserModel - Interactive section browser
// =============================================================================

// GenerateFunc produces a diagram for a request.
type GenerateFunc func(ctx context.Context, req diagram.Request) (diagram.Response, error)

// diagramMsg delivers a finished generation to the model.
type diagramMsg struct {
	index int
	resp  diagram.Response
	err   error
}

// SectionBrowserModel is the bubbletea model for browsing a document's
// sections and previewing a generated diagram for each.
type SectionBrowserModel struct {
	Sections []markdown.Section
	Cursor   int
	Height   int
	Offset   int

	// Kind is the diagram kind generated on enter. Tab cycles it.
	Kind     diagram.Kind
	Diagrams map[int]diagram.Response
	Pending  int // section being generated, -1 when idle
	Err      error

	ctx      context.Context
	generate GenerateFunc
}

// NewSectionBrowserModel creates a section browser. generate is called on
// enter for the section under the cursor.
func NewSectionBrowserModel(ctx context.Context, sections []markdown.Section, generate GenerateFunc) SectionBrowserModel {
	return SectionBrowserModel{
		Sections: sections,
		Height:   10,
		Kind:     diagram.KindFlowchart,
		Diagrams: make(map[int]diagram.Response),
		Pending:  -1,
		ctx:      ctx,
		generate: generate,
	}
}

func (m SectionBrowserModel) Init() tea.Cmd {
	return nil
}

func (m SectionBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Sections)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "tab":
			m.Kind = nextKind(m.Kind)
		case "enter":
			if len(m.Sections) == 0 || m.Pending >= 0 || m.generate == nil {
				return m, nil
			}
			m.Pending = m.Cursor
			m.Err = nil
			return m, m.generateCmd(m.Cursor, m.Kind)
		}
	case diagramMsg:
		m.Pending = -1
		if msg.err != nil {
			m.Err = msg.err
			return m, nil
		}
		m.Diagrams[msg.index] = msg.resp
	case tea.WindowSizeMsg:
		m.Height = msg.Height/2 - 4
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// generateCmd runs the generator off the UI goroutine.
func (m SectionBrowserModel) generateCmd(idx int, kind diagram.Kind) tea.Cmd {
	sec := m.Sections[idx]
	ctx, gen := m.ctx, m.generate
	return func() tea.Msg {
		resp, err := gen(ctx, diagram.Request{
			Title:       sec.Heading,
			Description: sec.Content,
			Kind:        kind,
		})
		return diagramMsg{index: idx, resp: resp, err: err}
	}
}

func (m SectionBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Sections"))
	b.WriteString("  ")
	b.WriteString(StyleHighlight.Render(string(m.Kind)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ generate  ⇥ kind  q quit"))
	b.WriteString("\n\n")

	if len(m.Sections) == 0 {
		b.WriteString(listDimStyle.Render("  no headings found"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Sections))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Sections[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		status := "—"
		if i == m.Pending {
			status = "…"
		} else if d, ok := m.Diagrams[i]; ok {
			status = string(d.Origin)
		}
		heading := strings.Repeat("  ", s.Level-1) + s.Heading
		rows = append(rows, []string{cursor, strconv.Itoa(i), heading, status})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Heading", "Diagram").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			base := lipgloss.NewStyle()
			if _, ok := m.Diagrams[idx]; ok {
				base = base.Foreground(colorGreen)
			} else {
				base = base.Foreground(colorGray)
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Sections))))
	b.WriteString("\n\n")

	switch d, ok := m.Diagrams[m.Cursor]; {
	case m.Err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + m.Err.Error())
	case ok:
		b.WriteString(previewStyle.Render(d.Source))
	default:
		b.WriteString(listDimStyle.Render("  press enter to generate a diagram"))
	}
	b.WriteString("\n")

	return b.String()
}

// nextKind cycles through the diagram kinds in their declared order.
func nextKind(k diagram.Kind) diagram.Kind {
	kinds := diagram.Kinds()
	for i, kk := range kinds {
		if kk == k {
			return kinds[(i+1)%len(kinds)]
		}
	}
	return kinds[0]
}
