package visualizer

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"league_grid_go/internal/types"
)

var (
	solvedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")).Bold(true)
	nearStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	headStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	frameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Visualizer handles grid visualization
type Visualizer struct {
	puzzle *types.Puzzle
}

func NewVisualizer(p *types.Puzzle) *Visualizer {
	return &Visualizer{puzzle: p}
}

// Print writes the answer sheet followed by the grid as generated.
func (v *Visualizer) Print(w io.Writer) {
	fmt.Fprintln(w, v.Summary())
	fmt.Fprintln(w, v.Grid(nil, nil))
}

// PrintResult writes arrangement with its row and column statuses.
func (v *Visualizer) PrintResult(w io.Writer, arrangement []string, res *types.ValidationResult) {
	fmt.Fprintln(w, v.Grid(arrangement, res))
	if res != nil && res.AllRowsSolved {
		fmt.Fprintln(w, solvedStyle.Render("All four characters found!"))
	}
}

// Summary lists the chosen characters with their clues and the bonus line.
func (v *Visualizer) Summary() string {
	p := v.puzzle
	var b strings.Builder
	b.WriteString(headStyle.Render("Characters"))
	b.WriteByte('\n')
	for i, name := range p.Solutions {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, name, strings.Join(p.RowSolutions[i], ", "))
	}
	bonus := strings.Join(p.BonusSolution, ", ")
	if p.BonusName != "" {
		bonus += " (" + p.BonusName + ")"
	}
	fmt.Fprintf(&b, "Bonus: %s\n", bonus)
	b.WriteString(mutedStyle.Render(fmt.Sprintf("policy %s, seed %d", p.Policy, p.Seed)))
	return b.String()
}

// Grid renders arrangement as a 4x4 board, or the puzzle's own grid when
// arrangement is nil. With a result, solved rows turn green and show the
// character, near rows turn yellow, and column statuses go underneath.
func (v *Visualizer) Grid(arrangement []string, res *types.ValidationResult) string {
	if arrangement == nil {
		arrangement = v.puzzle.Grid
	}
	width := 0
	for _, clue := range arrangement {
		width = max(width, lipgloss.Width(clue))
	}
	cell := lipgloss.NewStyle().Width(width + 2)

	lines := make([]string, 0, types.Side+2)
	for r := 0; r < types.Side; r++ {
		cells := make([]string, types.Side)
		for c := range cells {
			cells[c] = cell.Render(arrangement[r*types.Side+c])
		}
		line := strings.Join(cells, "")
		if res != nil {
			line = decorateRow(line, res.Rows[r])
		}
		lines = append(lines, line)
	}

	if res != nil {
		marks := make([]string, types.Side)
		for c := range marks {
			marks[c] = cell.Render(columnMark(res.Columns[c]))
		}
		lines = append(lines,
			mutedStyle.Render(strings.Repeat("─", types.Side*(width+2))),
			strings.Join(marks, ""))
	}
	return frameStyle.Render(strings.Join(lines, "\n"))
}

func decorateRow(line string, row types.LineResult) string {
	switch row.Status {
	case types.Solved:
		return solvedStyle.Render(line) + solvedStyle.Render("✓ "+row.Name)
	case types.Near:
		return nearStyle.Render(line) + nearStyle.Render(fmt.Sprintf("~ %d/%d", row.Matches, types.Side))
	default:
		return line
	}
}

func columnMark(col types.LineResult) string {
	switch col.Status {
	case types.Solved:
		return solvedStyle.Render("★ bonus")
	case types.Near:
		return nearStyle.Render(fmt.Sprintf("~ %d/%d", col.Matches, types.Side))
	default:
		return mutedStyle.Render("·")
	}
}
