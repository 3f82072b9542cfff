// Package store persists generated puzzles.
package store

import (
	"context"
	"errors"
	"sort"

	"league_grid_go/internal/types"
)

// ErrNotFound is returned by Load when no puzzle has the requested id.
var ErrNotFound = errors.New("puzzle not found")

// Store persists and retrieves puzzles.
type Store interface {
	Save(ctx context.Context, p *types.Puzzle) error
	Load(ctx context.Context, id string) (*types.Puzzle, error)
	List(ctx context.Context) ([]types.PuzzleMeta, error)
}

// SortNewestFirst orders listings by creation time, then id.
func SortNewestFirst(metas []types.PuzzleMeta) {
	sort.SliceStable(metas, func(i, j int) bool {
		if !metas[i].CreatedAt.Equal(metas[j].CreatedAt) {
			return metas[i].CreatedAt.After(metas[j].CreatedAt)
		}
		return metas[i].ID < metas[j].ID
	})
}
