package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/parsets/pkg/parsets"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle       = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	mergedStyle       = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Static Tables
// =============================================================================

// axisTable renders one axis as a table of its segments.
func axisTable(a *parsets.Axis) string {
	rows := make([][]string, 0, len(a.Segments))
	for _, s := range a.Segments {
		merged := ""
		if s.Merged {
			merged = "merged"
		}
		rows = append(rows, []string{
			s.Label(),
			strconv.Itoa(s.Count()),
			formatRatio(s.RawRatio),
			formatRatio(s.AdjustedRatio),
			formatRange(s.Range),
			merged,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Segment", "Count", "Raw", "Adjusted", "Range", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < len(a.Segments) && a.Segments[row].Merged {
				return base.Inherit(mergedStyle)
			}
			if col > 0 {
				return base.Foreground(colorWhite)
			}
			return base.Foreground(colorCyan)
		})
	return t.Render()
}

func formatRatio(r float64) string { return strconv.FormatFloat(r, 'f', 3, 64) }

func formatRange(r parsets.RatioRange) string {
	return "[" + formatRatio(r.Start) + ", " + formatRatio(r.End) + ")"
}

// =============================================================================
// TreeModel - Interactive partition tree browser
// =============================================================================

// TreeModel is the bubbletea model for browsing the partition tree one
// level at a time. Pressing "/" filters the current level by segment label.
type TreeModel struct {
	Model   *parsets.Model
	Current *parsets.Node
	Cursor  int
	Height  int
	Offset  int

	Filter    textinput.Model
	Filtering bool
}

// NewTreeModel creates a browser positioned at the tree root.
func NewTreeModel(m *parsets.Model) TreeModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "segment"
	ti.CharLimit = 64
	return TreeModel{
		Model:   m,
		Current: m.Tree.Root,
		Height:  15,
		Filter:  ti,
	}
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

// Items returns the children of the current node that match the filter.
func (m TreeModel) Items() []*parsets.Node {
	q := strings.ToLower(strings.TrimSpace(m.Filter.Value()))
	if q == "" {
		return m.Current.Children
	}
	var out []*parsets.Node
	for _, c := range m.Current.Children {
		if strings.Contains(strings.ToLower(c.Segment().Label()), q) {
			out = append(out, c)
		}
	}
	return out
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Filter.Value() == "" {
				return m, tea.Quit
			}
			m.clearFilter()
		case "/":
			m.Filtering = true
			return m, m.Filter.Focus()
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "right", "l":
			child := m.Selected()
			if child == nil || len(child.Children) == 0 {
				return m, nil
			}
			m.Filter.SetValue("")
			m.Current = child
			m.Cursor, m.Offset = 0, 0
		case "backspace", "left", "h":
			if m.Current.IsRoot() {
				return m, nil
			}
			prev := m.Current
			m.Filter.SetValue("")
			m.Current = prev.Parent()
			m.Cursor = max(0, slices.Index(m.Current.Children, prev))
			m.Offset = max(0, m.Cursor-m.Height+1)
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-8)
	}
	return m, nil
}

// updateFilter handles keys while the filter input has focus. Enter keeps
// the filter, Esc drops it. Every edit moves the cursor back to the top.
func (m TreeModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.Filtering = false
		m.Filter.Blur()
		return m, nil
	case tea.KeyEsc, tea.KeyCtrlC:
		m.clearFilter()
		return m, nil
	}
	var cmd tea.Cmd
	m.Filter, cmd = m.Filter.Update(msg)
	m.Cursor, m.Offset = 0, 0
	return m, cmd
}

func (m *TreeModel) clearFilter() {
	m.Filtering = false
	m.Filter.Blur()
	m.Filter.SetValue("")
	m.Cursor, m.Offset = 0, 0
}

// Selected returns the child under the cursor, or nil when nothing is listed.
func (m TreeModel) Selected() *parsets.Node {
	items := m.Items()
	if m.Cursor >= len(items) {
		return nil
	}
	return items[m.Cursor]
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.breadcrumb()))
	b.WriteString("\n")
	if axes := m.Model.OrderedAxes(); m.Current.Depth < len(axes) {
		b.WriteString(StyleDim.Render("next axis: " + axes[m.Current.Depth].Label()))
		b.WriteString("\n")
	}
	switch {
	case m.Filtering:
		b.WriteString(m.Filter.View())
	case m.Filter.Value() != "":
		b.WriteString(listDimStyle.Render("filter: " + m.Filter.Value() + "  (esc to clear)"))
	default:
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  ⌫ back  / filter  q quit"))
	}
	b.WriteString("\n\n")

	children := m.Items()
	end := min(m.Offset+m.Height, len(children))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := children[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			n.Segment().Label(),
			strconv.Itoa(n.Count()),
			formatRatio(n.Ratio()),
			formatRange(n.RatioRangeInPreviousAxisSegment()),
			formatRange(n.RatioRangeInNextAxisSegment()),
			strconv.Itoa(len(n.Children)),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Segment", "Count", "Share", "Prev range", "Next range", "Children").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(children) {
				return lipgloss.NewStyle()
			}
			if idx == m.Cursor {
				return listSelectedStyle
			}
			if children[idx].Segment().Merged {
				return mergedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	switch {
	case len(m.Current.Children) == 0:
		b.WriteString(listDimStyle.Render("  (leaf)"))
	case len(children) == 0:
		b.WriteString(listDimStyle.Render("  no segments match"))
	default:
		b.WriteString(t.Render())
		b.WriteString("\n\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d of %d records here",
			m.Cursor+1, len(children), m.Current.Count(), m.Model.Total)))
	}
	return b.String()
}

// breadcrumb joins the labels along the current node's path.
func (m TreeModel) breadcrumb() string {
	parts := append([]string{"all"}, m.Current.Labels()...)
	return strings.Join(parts, " › ")
}
