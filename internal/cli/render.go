package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/gridstate/internal/engine"
	"github.com/roach88/gridstate/internal/ir"
)

// TextRenderer is implemented by payloads that draw themselves with
// lipgloss. The renderer is bound to the output writer, so styling is
// dropped when the writer is not a terminal.
type TextRenderer interface {
	RenderText(r *lipgloss.Renderer) string
}

// styles are the lipgloss styles of one renderer.
type styles struct {
	header lipgloss.Style
	cell   lipgloss.Style
	dim    lipgloss.Style
	accent lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header: r.NewStyle().Bold(true),
		cell:   r.NewStyle(),
		dim:    r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		accent: r.NewStyle().Foreground(lipgloss.Color("#7C3AED")),
	}
}

// Marker glyphs for the selection and expansion columns.
const (
	markSelected   = "[x]"
	markUnselected = "[ ]"
	markExpanded   = "v"
	markCollapsed  = ">"
	sortAsc        = "^"
	sortDesc       = "v"
	columnGap      = "  "
)

// renderSnapshot draws the header line, the grid and the selection footer.
func renderSnapshot(r *lipgloss.Renderer, s engine.Snapshot) string {
	st := newStyles(r)
	var b strings.Builder

	b.WriteString(st.accent.Render(fmt.Sprintf("table %s", s.TableID)))
	b.WriteString(st.dim.Render(fmt.Sprintf("  rev %d", s.Revision)))
	if s.SortDirection != ir.DirectionNone {
		b.WriteString(st.dim.Render(fmt.Sprintf("  sort %s %s", s.SortHeaderKey, s.SortDirection)))
	}
	if s.FilterQuery != "" {
		b.WriteString(st.dim.Render(fmt.Sprintf("  filter %q", s.FilterQuery)))
	}
	b.WriteString("\n")

	b.WriteString(renderGrid(st, s))

	sel := s.Selection
	footer := fmt.Sprintf("%d of %d selected", sel.Selected, sel.Total)
	if s.ShouldShowBatchActions {
		footer += "  [batch actions]"
	}
	b.WriteString(st.dim.Render(footer))
	return b.String()
}

// renderGrid lays out the visible rows in columns padded to the widest
// cell. Widths are measured with lipgloss so wide runes line up.
func renderGrid(st styles, s engine.Snapshot) string {
	headers := make([]string, 0, len(s.Columns)+2)
	headers = append(headers, "sel", "exp")
	for _, col := range s.Columns {
		headers = append(headers, columnTitle(s, col))
	}

	table := [][]string{headers}
	for _, row := range s.Rows {
		line := make([]string, 0, len(headers))
		line = append(line, mark(row.IsSelected, markSelected, markUnselected), mark(row.IsExpanded, markExpanded, markCollapsed))
		for _, col := range s.Columns {
			line = append(line, ir.ToString(row.Value(col.Key)))
		}
		table = append(table, line)
	}

	widths := make([]int, len(headers))
	for _, line := range table {
		for i, cell := range line {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for r, line := range table {
		cells := make([]string, len(line))
		for i, cell := range line {
			style := st.cell.Width(widths[i])
			if r == 0 {
				style = st.header.Width(widths[i])
			}
			cells[i] = style.Render(cell)
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, columnGap), " "))
		b.WriteString("\n")
	}
	if len(s.Rows) == 0 {
		b.WriteString(st.dim.Render("(no rows)"))
		b.WriteString("\n")
	}
	return b.String()
}

// columnTitle is the header text, with an arrow on the sorted column.
func columnTitle(s engine.Snapshot, col ir.Column) string {
	title := col.Header
	if title == "" {
		title = col.Key
	}
	if col.Key != s.SortHeaderKey {
		return title
	}
	switch s.SortDirection {
	case ir.DirectionAsc:
		return title + " " + sortAsc
	case ir.DirectionDesc:
		return title + " " + sortDesc
	}
	return title
}

func mark(on bool, yes, no string) string {
	if on {
		return yes
	}
	return no
}
