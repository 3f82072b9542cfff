package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// Side is the number of rows and columns in the grid.
	Side = 4
	// Cells is the number of tiles in the grid.
	Cells = Side * Side
)

// Status classifies a row or column of the current arrangement
type Status string

const (
	Unsolved Status = "unsolved"
	Near     Status = "near"
	Solved   Status = "solved"
)

// Policy names a character selection policy
type Policy string

const (
	Prefix Policy = "prefix"
	Random Policy = "random"
)

// FlexString decodes from either a JSON string or a JSON number.
// Catalogs disagree on whether release years are quoted.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", s)
	}
	*f = FlexString(n.String())
	return nil
}

// Character is a catalog entry. Empty strings and a nil Difficulty mean "no data".
type Character struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Title        string     `json:"title,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	ResourceType string     `json:"partype,omitempty"`
	Species      string     `json:"species,omitempty"`
	ReleaseYear  FlexString `json:"releaseYear,omitempty"`
	Region       string     `json:"region,omitempty"`
	Difficulty   *float64   `json:"difficulty,omitempty"`
}

// Key identifies a character for distinctness checks.
func (c Character) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Name
}

// DisplayName is the name revealed when a row is solved.
func (c Character) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Difficulty returns a pointer to score, for building Characters inline.
func Difficulty(score float64) *float64 {
	return &score
}

// Puzzle is a generated grid together with its ground truth
type Puzzle struct {
	ID            string     `json:"id"`
	Grid          []string   `json:"grid"`
	RowSolutions  [][]string `json:"rowSolutions"`
	Solutions     []string   `json:"solutions"`
	BonusSolution []string   `json:"bonusSolution"`
	BonusName     string     `json:"bonusName,omitempty"`
	Policy        Policy     `json:"policy,omitempty"`
	Seed          uint64     `json:"seed,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// PuzzleMeta is a lightweight listing entry.
type PuzzleMeta struct {
	ID        string    `json:"id"`
	Policy    Policy    `json:"policy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Meta returns the listing entry for p.
func (p *Puzzle) Meta() PuzzleMeta {
	return PuzzleMeta{ID: p.ID, Policy: p.Policy, CreatedAt: p.CreatedAt}
}

// Row returns the i-th row of the grid as laid out in p.Grid.
func (p *Puzzle) Row(i int) []string {
	return p.Grid[i*Side : (i+1)*Side]
}

// Check verifies the structural invariants of a puzzle: 16 distinct grid clues,
// four disjoint row sets of four covering the grid, and a bonus with one clue per row.
func (p *Puzzle) Check() error {
	if len(p.Grid) != Cells {
		return fmt.Errorf("grid has %d clues, want %d", len(p.Grid), Cells)
	}
	if len(p.RowSolutions) != Side {
		return fmt.Errorf("puzzle has %d row solutions, want %d", len(p.RowSolutions), Side)
	}
	if len(p.Solutions) != Side {
		return fmt.Errorf("puzzle has %d solution names, want %d", len(p.Solutions), Side)
	}

	rowOf := make(map[string]int, Cells)
	for i, set := range p.RowSolutions {
		if len(set) != Side {
			return fmt.Errorf("row solution %d has %d clues, want %d", i, len(set), Side)
		}
		for _, clue := range set {
			if prev, ok := rowOf[clue]; ok {
				return fmt.Errorf("clue %q belongs to rows %d and %d", clue, prev, i)
			}
			rowOf[clue] = i
		}
	}

	seen := make(map[string]bool, Cells)
	for _, clue := range p.Grid {
		if seen[clue] {
			return fmt.Errorf("clue %q appears twice in grid", clue)
		}
		seen[clue] = true
		if _, ok := rowOf[clue]; !ok {
			return fmt.Errorf("grid clue %q is not in any row solution", clue)
		}
	}

	if len(p.BonusSolution) != Side {
		return fmt.Errorf("bonus has %d clues, want %d", len(p.BonusSolution), Side)
	}
	hit := make([]bool, Side)
	for _, clue := range p.BonusSolution {
		row, ok := rowOf[clue]
		if !ok {
			return fmt.Errorf("bonus clue %q is not in any row solution", clue)
		}
		if hit[row] {
			return fmt.Errorf("bonus takes two clues from row %d", row)
		}
		hit[row] = true
	}
	return nil
}

// ToJSON converts the puzzle to JSON bytes
func (p *Puzzle) ToJSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// FromJSON rehydrates a persisted puzzle and re-verifies its invariants.
func FromJSON(data []byte) (*Puzzle, error) {
	var p Puzzle
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if err := p.Check(); err != nil {
		return nil, fmt.Errorf("invalid puzzle %s: %w", p.ID, err)
	}
	return &p, nil
}

// LineResult is the classification of one row or column.
type LineResult struct {
	Index   int    `json:"index"`
	Status  Status `json:"status"`
	Matches int    `json:"matches"`
	// Name is only set on solved rows.
	Name string `json:"name,omitempty"`
}

// ValidationResult is the outcome of checking an arrangement.
type ValidationResult struct {
	Rows          []LineResult `json:"rows"`
	Columns       []LineResult `json:"columns"`
	AllRowsSolved bool         `json:"allRowsSolved"`
}
