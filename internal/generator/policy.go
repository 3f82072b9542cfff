package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"league_grid_go/internal/types"
)

// SelectionPolicy decides which characters the builder tries first and which clue
// of each row backs the bonus when no bonus character exists.
type SelectionPolicy interface {
	Name() types.Policy
	// Order returns the pool in the order candidates should be tried.
	// It must not modify pool.
	Order(pool []types.Character) []types.Character
	// BonusIndex picks the position within row's clue set used for the bonus.
	BonusIndex(row int) int
}

// PrefixPolicy keeps catalog order and takes the grid diagonal as bonus.
type PrefixPolicy struct{}

func (PrefixPolicy) Name() types.Policy { return types.Prefix }

func (PrefixPolicy) Order(pool []types.Character) []types.Character {
	return append([]types.Character(nil), pool...)
}

func (PrefixPolicy) BonusIndex(row int) int { return row }

// RandomPolicy samples characters and bonus clues from rng.
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy samples from rng, or from a freshly seeded source when rng is nil.
func NewRandomPolicy(rng *rand.Rand) *RandomPolicy {
	if rng == nil {
		rng = NewRand(rand.Uint64())
	}
	return &RandomPolicy{rng: rng}
}

func (p *RandomPolicy) Name() types.Policy { return types.Random }

func (p *RandomPolicy) Order(pool []types.Character) []types.Character {
	out := append([]types.Character(nil), pool...)
	p.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func (p *RandomPolicy) BonusIndex(int) int { return p.rng.IntN(types.Side) }

// NewRand returns a deterministic generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// PolicyFor resolves a policy by name.
func PolicyFor(name string, rng *rand.Rand) (SelectionPolicy, error) {
	switch types.Policy(strings.ToLower(strings.TrimSpace(name))) {
	case types.Prefix, "":
		return PrefixPolicy{}, nil
	case types.Random:
		return NewRandomPolicy(rng), nil
	default:
		return nil, fmt.Errorf("unknown selection policy %q", name)
	}
}
