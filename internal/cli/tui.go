package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/provgraph/pkg/layout"
	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/view"
)

// nudgeStep is how far shift+arrow moves the node under the cursor. Nudges
// are not snapped to the layout grid.
const nudgeStep = 20

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	panelStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// filterTypes is the cycle of the type filter: none, then every tier.
var filterTypes = append([]lineage.NodeType{""}, lineage.Tiers...)

// =============================================================================
// ExploreModel - Interactive provenance explorer
// =============================================================================

// ExploreModel is the bubbletea model driving a view controller from the
// keyboard.
type ExploreModel struct {
	ctrl *view.Controller
	snap view.Snapshot

	Cursor int
	Offset int
	Height int

	// editing is true while the name filter is being typed into input.
	editing bool
	input   string
	typeIdx int

	// detail is the node opened with space or i.
	detail *lineage.Node
}

// NewExploreModel creates an explorer over ctrl.
func NewExploreModel(ctrl *view.Controller) ExploreModel {
	return ExploreModel{
		ctrl:   ctrl,
		snap:   ctrl.Snapshot(),
		Height: 15,
	}
}

// Snapshot returns the view currently displayed.
func (m ExploreModel) Snapshot() view.Snapshot { return m.snap }

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.updateInput(msg)
		}
		return m.updateKey(msg)
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-14, 5)
		m.scroll()
	}
	return m, nil
}

func (m ExploreModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.detail != nil {
			m.detail = nil
			return m, nil
		}
		return m, tea.Quit
	case "1", "2", "3", "4", "5", "6":
		i, _ := strconv.Atoi(key)
		m.set(m.ctrl.ToggleGroup(string(lineage.Tiers[i-1])))
	case "e":
		m.set(m.ctrl.ExpandAll())
	case "E":
		m.set(m.ctrl.CollapseAll())
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			m.scroll()
		}
	case "down", "j":
		if m.Cursor < len(m.snap.Nodes)-1 {
			m.Cursor++
			m.scroll()
		}
	case "enter":
		if n, ok := m.current(); ok {
			m.set(m.ctrl.SelectNode(n.Node.ID))
			m.follow(n.Node.ID)
		}
	case " ", "i":
		if n, ok := m.current(); ok {
			if node, ok := m.ctrl.ClickNode(n.Node.ID); ok {
				m.detail = &node
			}
		}
	case "/":
		m.editing = true
		m.input = m.snap.Filter.Name
	case "t":
		m.typeIdx = (m.typeIdx + 1) % len(filterTypes)
		m.set(m.ctrl.SetFilter(m.snap.Filter.Name, filterTypes[m.typeIdx]))
	case "c":
		m.typeIdx = 0
		m.input = ""
		m.set(m.ctrl.ClearAll())
	case "r":
		m.set(m.ctrl.ResetPositions())
	case "shift+up", "shift+down", "shift+left", "shift+right":
		if n, ok := m.current(); ok {
			m.set(m.ctrl.DragNode(n.Node.ID, nudge(n.Position, key), false))
			m.follow(n.Node.ID)
		}
	}
	return m, nil
}

func (m ExploreModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.editing = false
		m.input = m.snap.Filter.Name
	case tea.KeyEnter:
		m.editing = false
		m.set(m.ctrl.SetFilter(m.input, filterTypes[m.typeIdx]))
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

// set installs a new snapshot and keeps the cursor in range.
func (m *ExploreModel) set(s view.Snapshot) {
	m.snap = s
	m.detail = nil
	if m.Cursor >= len(s.Nodes) {
		m.Cursor = max(len(s.Nodes)-1, 0)
	}
	m.scroll()
}

// follow moves the cursor to id if it is still visible.
func (m *ExploreModel) follow(id string) {
	for i, n := range m.snap.Nodes {
		if n.Node.ID == id {
			m.Cursor = i
			m.scroll()
			return
		}
	}
}

func (m *ExploreModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m ExploreModel) current() (layout.PositionedNode, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.snap.Nodes) {
		return layout.PositionedNode{}, false
	}
	return m.snap.Nodes[m.Cursor], true
}

func nudge(p lineage.Position, key string) lineage.Position {
	switch key {
	case "shift+up":
		p.Y -= nudgeStep
	case "shift+down":
		p.Y += nudgeStep
	case "shift+left":
		p.X -= nudgeStep
	case "shift+right":
		p.X += nudgeStep
	}
	return p
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Provenance Explorer"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("Showing %d of %d nodes (%d%%)", m.snap.Visible, m.snap.Total, m.snap.Percent())))
	b.WriteString("\n\n")
	b.WriteString(m.groupsView())
	b.WriteString("\n")
	b.WriteString(m.filterView())
	b.WriteString("\n\n")
	b.WriteString(m.nodesView())
	b.WriteString("\n")

	if m.detail != nil {
		b.WriteString(detailView(*m.detail))
		b.WriteString("\n")
	}

	b.WriteString(listDimStyle.Render("1-6 toggle tier  e/E expand/collapse all  ↑/↓ move  ⏎ trace  space details"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("/ filter  t type  c clear  shift+↑↓←→ nudge  r reset positions  q quit"))
	return b.String()
}

func (m ExploreModel) groupsView() string {
	parts := make([]string, 0, len(m.snap.Groups))
	for _, g := range m.snap.Groups {
		i := g.Group.Column() + 1
		state := "▾"
		if g.Collapsed {
			state = "▸"
		}
		label := tierStyle(g.Group).Render(fmt.Sprintf("%s %s (%d)", state, g.Label, g.Count))
		parts = append(parts, listDimStyle.Render(fmt.Sprintf("[%d]", i))+" "+label)
	}
	return strings.Join(parts, "  ")
}

func (m ExploreModel) filterView() string {
	name := m.snap.Filter.Name
	if m.editing {
		name = m.input + "█"
	}
	if name == "" {
		name = listDimStyle.Render("none")
	}
	typ := listDimStyle.Render("all types")
	if t := filterTypes[m.typeIdx]; t != "" {
		typ = tierStyle(t).Render(t.Label())
	}
	line := "Filter: " + name + "  Type: " + typ
	if m.snap.Selection != "" {
		line += "  Trace: " + StyleHighlight.Render(m.snap.Selection)
	}
	return line
}

func (m ExploreModel) nodesView() string {
	if len(m.snap.Nodes) == 0 {
		return StyleWarning.Render("No nodes match the current view")
	}

	end := min(m.Offset+m.Height, len(m.snap.Nodes))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.snap.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		label := n.Node.DisplayLabel()
		if n.Node.IsCollapsed() {
			label += fmt.Sprintf(" [%d]", n.Node.Count)
		}
		rows = append(rows, []string{
			cursor,
			n.Node.ID,
			label,
			n.Node.Tier().Label(),
			fmt.Sprintf("%g,%g", n.Position.X, n.Position.Y),
		})
	}

	t := newTable([]string{"", "ID", "Label", "Tier", "Position"}, rows, func(row, col int) lipgloss.Style {
		idx := m.Offset + row
		if idx >= len(m.snap.Nodes) {
			return lipgloss.NewStyle()
		}
		n := m.snap.Nodes[idx]
		switch {
		case idx == m.Cursor:
			return listSelectedStyle
		case col == 3:
			return tierStyle(n.Node.Tier())
		case n.Highlighted:
			return listNormalStyle.Bold(true)
		case n.Opacity < 1:
			return listDimStyle
		}
		return listNormalStyle
	})

	return t.Render() + "\n" + listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.snap.Nodes)))
}

func detailView(n lineage.Node) string {
	var b strings.Builder
	b.WriteString(tierStyle(n.Tier()).Bold(true).Render(n.DisplayLabel()))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(n.ID))
	for _, f := range n.Fields() {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%-16s", f.Label+":")))
		b.WriteString(StyleValue.Render(f.Value))
	}
	return panelStyle.Render(b.String())
}
