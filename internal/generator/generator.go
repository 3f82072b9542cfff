package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"league_grid_go/internal/clues"
	"league_grid_go/internal/types"
)

// ErrInsufficientCandidates is returned when the pool cannot supply four eligible
// characters with pairwise disjoint clue rows. Retrying with the same pool won't help.
var ErrInsufficientCandidates = errors.New("insufficient candidates")

const defaultMaxNodes = 200000

// PuzzleGenerator builds a puzzle from a character pool
type PuzzleGenerator interface {
	Build(pool []types.Character) (*types.Puzzle, error)
}

// Builder implements PuzzleGenerator
type Builder struct {
	policy   SelectionPolicy
	rng      *rand.Rand
	shuffle  bool
	maxNodes int
}

// NewBuilder returns a builder that orders candidates with policy. rng drives the
// initial shuffle of the grid; with a nil rng the grid stays in row-major order.
func NewBuilder(policy SelectionPolicy, rng *rand.Rand) *Builder {
	if policy == nil {
		policy = PrefixPolicy{}
	}
	return &Builder{
		policy:   policy,
		rng:      rng,
		shuffle:  rng != nil,
		maxNodes: defaultMaxNodes,
	}
}

func (b *Builder) SetShuffle(shuffle bool) {
	b.shuffle = shuffle && b.rng != nil
}

// SetMaxNodes bounds the number of candidate rows the search may try.
func (b *Builder) SetMaxNodes(n int) {
	if n > 0 {
		b.maxNodes = n
	}
}

type candidate struct {
	char  types.Character
	clues []string
}

// Build selects four characters and assembles the grid, row solutions and bonus.
func (b *Builder) Build(pool []types.Character) (*types.Puzzle, error) {
	cands := eligible(b.policy.Order(pool))
	if len(cands) < types.Side {
		return nil, fmt.Errorf("%w: %d eligible characters, need %d", ErrInsufficientCandidates, len(cands), types.Side)
	}

	s := &search{cands: cands, budget: b.maxNodes, used: make(map[string]bool)}
	if !s.run(0, 0) {
		if s.budget <= 0 {
			return nil, fmt.Errorf("%w: no disjoint selection found within %d attempts", ErrInsufficientCandidates, b.maxNodes)
		}
		return nil, fmt.Errorf("%w: no four characters with disjoint clue rows among %d eligible", ErrInsufficientCandidates, len(cands))
	}

	p := &types.Puzzle{
		Grid:         make([]string, 0, types.Cells),
		RowSolutions: make([][]string, types.Side),
		Solutions:    make([]string, types.Side),
		Policy:       b.policy.Name(),
	}
	for i, idx := range s.chosen {
		p.RowSolutions[i] = s.rows[i]
		p.Solutions[i] = cands[idx].char.DisplayName()
		p.Grid = append(p.Grid, s.rows[i]...)
	}
	if b.shuffle {
		b.rng.Shuffle(len(p.Grid), func(i, j int) {
			p.Grid[i], p.Grid[j] = p.Grid[j], p.Grid[i]
		})
	}

	p.BonusSolution, p.BonusName = b.bonus(cands, s)
	return p, nil
}

// eligible extracts clues once per character, dropping characters that cannot fill
// a row and repeated catalog entries.
func eligible(pool []types.Character) []candidate {
	out := make([]candidate, 0, len(pool))
	seen := make(map[string]bool, len(pool))
	for _, c := range pool {
		if seen[c.Key()] {
			continue
		}
		cl := clues.Extract(c)
		if len(cl) < clues.MinClues {
			continue
		}
		seen[c.Key()] = true
		out = append(out, candidate{char: c, clues: cl})
	}
	return out
}

// search is a depth-first walk over candidate combinations in policy order.
// Each chosen character takes its first four clues not claimed by an earlier row.
type search struct {
	cands  []candidate
	budget int
	used   map[string]bool
	chosen []int
	rows   [][]string
}

func (s *search) run(depth, start int) bool {
	if depth == types.Side {
		return true
	}
	for i := start; i < len(s.cands); i++ {
		if len(s.cands)-i < types.Side-depth {
			return false
		}
		if s.budget <= 0 {
			return false
		}
		s.budget--

		row := firstUnused(s.cands[i].clues, s.used, types.Side)
		if row == nil {
			continue
		}
		for _, clue := range row {
			s.used[clue] = true
		}
		s.chosen = append(s.chosen, i)
		s.rows = append(s.rows, row)

		if s.run(depth+1, i+1) {
			return true
		}

		s.chosen = s.chosen[:len(s.chosen)-1]
		s.rows = s.rows[:len(s.rows)-1]
		for _, clue := range row {
			delete(s.used, clue)
		}
	}
	return false
}

func firstUnused(cl []string, used map[string]bool, n int) []string {
	row := make([]string, 0, n)
	for _, clue := range cl {
		if used[clue] {
			continue
		}
		row = append(row, clue)
		if len(row) == n {
			return row
		}
	}
	return nil
}

// bonus prefers a character left out of the grid whose clues touch every row; its
// first matching clue per row becomes the bonus. Otherwise the policy picks a clue
// per row.
func (b *Builder) bonus(cands []candidate, s *search) ([]string, string) {
	picked := make(map[int]bool, len(s.chosen))
	for _, idx := range s.chosen {
		picked[idx] = true
	}
	for i, c := range cands {
		if picked[i] {
			continue
		}
		if set := coverRows(c.clues, s.rows); set != nil {
			return set, c.char.DisplayName()
		}
	}

	set := make([]string, types.Side)
	for i, row := range s.rows {
		set[i] = row[b.policy.BonusIndex(i)%len(row)]
	}
	return set, ""
}

func coverRows(cl []string, rows [][]string) []string {
	rowOf := make(map[string]int, types.Cells)
	for i, row := range rows {
		for _, clue := range row {
			rowOf[clue] = i
		}
	}
	set := make([]string, len(rows))
	found := 0
	for _, clue := range cl {
		i, ok := rowOf[clue]
		if !ok || set[i] != "" {
			continue
		}
		set[i] = clue
		found++
	}
	if found != len(rows) {
		return nil
	}
	return set
}
