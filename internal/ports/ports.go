package ports

import (
	"context"

	"league_grid_go/internal/types"
)

// Catalog lists the characters a puzzle may be built from.
type Catalog interface {
	Characters(ctx context.Context) ([]types.Character, error)
}

// Builder assembles a puzzle from a character pool.
type Builder interface {
	Build(pool []types.Character) (*types.Puzzle, error)
}

// BuilderFactory returns a builder for one generation run. The seed fixes every
// random choice the builder makes.
type BuilderFactory func(policy types.Policy, seed uint64, shuffle bool) (Builder, error)

// Validator classifies an arrangement of a puzzle's tiles.
type Validator interface {
	Validate(p *types.Puzzle, arrangement []string) (*types.ValidationResult, error)
}

// Storage persists and retrieves puzzles.
type Storage interface {
	Save(ctx context.Context, p *types.Puzzle) error
	Load(ctx context.Context, id string) (*types.Puzzle, error)
	List(ctx context.Context) ([]types.PuzzleMeta, error)
}
