package validator

import (
	"errors"
	"fmt"

	"league_grid_go/internal/types"
)

// ErrInvalidArrangement means the arrangement is not a permutation of the puzzle grid.
var ErrInvalidArrangement = errors.New("invalid arrangement")

// GridValidator classifies rows against the row solutions and columns against the
// bonus. It holds no state and is safe for concurrent use.
type GridValidator struct{}

func New() *GridValidator { return &GridValidator{} }

// Validate checks arrangement against p. The arrangement must be a permutation of
// p.Grid; anything else is rejected with ErrInvalidArrangement rather than scored.
func (v *GridValidator) Validate(p *types.Puzzle, arrangement []string) (*types.ValidationResult, error) {
	if err := CheckArrangement(p, arrangement); err != nil {
		return nil, err
	}

	res := &types.ValidationResult{
		Rows:          make([]types.LineResult, types.Side),
		Columns:       make([]types.LineResult, types.Side),
		AllRowsSolved: true,
	}

	for r := 0; r < types.Side; r++ {
		row := arrangement[r*types.Side : (r+1)*types.Side]
		n := matches(row, p.RowSolutions[r])
		line := types.LineResult{Index: r, Status: classify(n, n == types.Side), Matches: n}
		if line.Status == types.Solved {
			line.Name = p.Solutions[r]
		} else {
			res.AllRowsSolved = false
		}
		res.Rows[r] = line
	}

	col := make([]string, types.Side)
	for c := 0; c < types.Side; c++ {
		for r := 0; r < types.Side; r++ {
			col[r] = arrangement[c+r*types.Side]
		}
		n := matches(col, p.BonusSolution)
		res.Columns[c] = types.LineResult{
			Index:   c,
			Status:  classify(n, sameSet(col, p.BonusSolution)),
			Matches: n,
		}
	}
	return res, nil
}

// CheckArrangement reports whether arrangement holds exactly the clues of p.Grid.
func CheckArrangement(p *types.Puzzle, arrangement []string) error {
	if len(arrangement) != len(p.Grid) {
		return fmt.Errorf("%w: got %d tiles, want %d", ErrInvalidArrangement, len(arrangement), len(p.Grid))
	}
	count := make(map[string]int, len(p.Grid))
	for _, clue := range p.Grid {
		count[clue]++
	}
	for _, clue := range arrangement {
		if count[clue] == 0 {
			return fmt.Errorf("%w: unexpected tile %q", ErrInvalidArrangement, clue)
		}
		count[clue]--
	}
	return nil
}

func classify(n int, solved bool) types.Status {
	switch {
	case solved:
		return types.Solved
	case n == types.Side-1:
		return types.Near
	default:
		return types.Unsolved
	}
}

// matches counts the distinct values of line that are members of want.
func matches(line, want []string) int {
	member := make(map[string]bool, len(want))
	for _, w := range want {
		member[w] = true
	}
	n := 0
	counted := make(map[string]bool, len(line))
	for _, v := range line {
		if member[v] && !counted[v] {
			counted[v] = true
			n++
		}
	}
	return n
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	return matches(a, b) == len(b) && matches(b, a) == len(a)
}
