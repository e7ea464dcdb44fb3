package blueprint

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// cellWidth is the display width of one grid cell: three CJK glyphs.
const cellWidth = 6

var (
	styleGrid = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorGrid)).
			Background(lipgloss.Color(ColorBackground))

	styleEnd = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorEndText)).
			Background(lipgloss.Color(ColorEnd)).
			Width(Cols * cellWidth).
			Height(Rows)
)

// Render draws a plan as Rows lines of Cols cells. Rooms outside the sheet
// are not drawn; a later room in the same cell covers an earlier one.
func Render(p Plan) string {
	if p.Blank {
		return styleEnd.Render(p.Text)
	}

	var grid [Rows][Cols]*Cell
	for i := range p.Cells {
		c := &p.Cells[i]
		if c.Col < 0 || c.Col >= Cols || c.Row < 0 || c.Row >= Rows {
			continue
		}
		grid[c.Row][c.Col] = c
	}

	empty := styleGrid.Render("+" + strings.Repeat(" ", cellWidth-1))
	lines := make([]string, 0, Rows)
	for row := range Rows {
		var b strings.Builder
		for col := range Cols {
			c := grid[row][col]
			if c == nil {
				b.WriteString(empty)
				continue
			}
			b.WriteString(cellStyle(c).Render(fit(c.Label)))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func cellStyle(c *Cell) lipgloss.Style {
	s := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorLabel)).
		Background(lipgloss.Color(c.Color)).
		Width(cellWidth)
	if c.Current {
		s = s.Bold(true)
	}
	return s
}

// fit truncates a label to the cell width, never splitting a wide glyph.
func fit(label string) string {
	return truncate.String(label, cellWidth)
}
