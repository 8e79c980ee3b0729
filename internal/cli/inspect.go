package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/factoryflow/pkg/report"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [blueprint]",
		Short: "Browse analysed nodes interactively",
		Long: `Analyze a blueprint and browse its nodes, busiest first.

Keys: ↑/↓ (or k/j) move, b toggles bottlenecks only, q quits.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBlueprintFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runInspect(ctx context.Context, input string) error {
	bp, err := readBlueprint(input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, c.pipelineOptions(bp))
	if err != nil {
		return err
	}
	if len(res.Report.Nodes) == 0 {
		printInfo("No nodes in %s", res.Report.Label)
		return nil
	}

	_, err = tea.NewProgram(newNodeListModel(res.Report), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// NodeListModel - Interactive node browser
// =============================================================================

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// NodeListModel is the bubbletea model for browsing report nodes.
type NodeListModel struct {
	Report *report.Report

	all         []report.Node // busiest first, unbounded nodes last
	visible     []report.Node
	bottlenecks bool

	Cursor int
	Offset int
	Height int
}

// newNodeListModel creates a node browser over r.
func newNodeListModel(r *report.Report) NodeListModel {
	all := r.ByUsage()
	for _, n := range r.Nodes {
		if n.Usage == nil {
			all = append(all, n)
		}
	}
	return NodeListModel{Report: r, all: all, visible: all, Height: 12}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "b":
			m.bottlenecks = !m.bottlenecks
			m.visible = m.all
			if m.bottlenecks {
				m.visible = m.Report.BottleneckNodes()
			}
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		// Leave room for the title, the table border and the detail pane.
		m.Height = max(msg.Height-18, 5)
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Report.Label))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  b bottlenecks only  q quit"))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(StyleSuccess.Render("No bottlenecks."))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.visible))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		n := m.visible[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, n.ID, n.Name, fmtUsage(n.Usage)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Entity", "Name", "Usage").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.visible) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case m.visible[idx].Bottleneck:
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.visible))))
	b.WriteString("\n\n")
	b.WriteString(nodeDetail(m.visible[m.Cursor]))
	return b.String()
}

// Selected returns the node under the cursor.
func (m NodeListModel) Selected() (report.Node, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.visible) {
		return report.Node{}, false
	}
	return m.visible[m.Cursor], true
}

// =============================================================================
// Helpers
// =============================================================================

func nodeDetail(n report.Node) string {
	key := lipgloss.NewStyle().Foreground(colorGray).Width(10)
	line := func(k, v string) string {
		return key.Render(k) + " " + StyleValue.Render(v) + "\n"
	}

	var b strings.Builder
	b.WriteString(line("kind", n.Kind))
	if n.Recipe != "" {
		b.WriteString(line("recipe", n.Recipe))
	}
	if len(n.Carries) > 0 {
		b.WriteString(line("carries", strings.Join(n.Carries, ", ")))
	}
	b.WriteString(line("flow", formatItems(n.Flow)))
	if n.Rate > 0 {
		b.WriteString(line("rate", fmt.Sprintf("%.2f/s", n.Rate)))
	}
	b.WriteString(line("parents", joinOrDash(n.Parents)))
	b.WriteString(line("children", joinOrDash(n.Children)))
	if len(n.Subsumed) > 0 {
		b.WriteString(line("subsumed", strings.Join(n.Subsumed, ", ")))
	}
	return b.String()
}

func fmtUsage(u *float64) string {
	if u == nil {
		return "∞"
	}
	return fmt.Sprintf("%.0f%%", *u*100)
}

func joinOrDash(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ", ")
}
