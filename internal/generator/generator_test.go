package generator

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"league_grid_go/internal/types"
)

// champ builds a character whose extracted clues are exactly cl, in order.
func champ(name string, cl ...string) types.Character {
	c := types.Character{ID: name, Name: name}
	if len(cl) > 0 {
		c.Title = cl[0]
	}
	if len(cl) > 1 {
		c.Tags = append([]string(nil), cl[1:]...)
	}
	return c
}

func scenarioPool() []types.Character {
	return []types.Character{
		champ("Aatrox", "Mage", "Darkin", "Jungle", "Noxus"),
		champ("Malphite", "Top", "Tank", "Mid", "ADC"),
		champ("Ashe", "Support", "Assassin", "Freljord", "Shurima"),
		champ("Teemo", "Demacia", "Void", "Yordle", "Marksman"),
	}
}

func largePool(n int) []types.Character {
	pool := make([]types.Character, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, types.Character{
			ID:           fmt.Sprintf("champ%03d", i),
			Name:         fmt.Sprintf("Champ %d", i),
			Title:        fmt.Sprintf("the Title %d", i),
			Tags:         []string{[]string{"Mage", "Tank", "Fighter", "Marksman", "Support", "Assassin"}[i%6], "Melee"},
			ResourceType: []string{"Mana", "Energy", "Fury", "None"}[i%4],
			Region:       []string{"Noxus", "Demacia", "Ionia", "Freljord", "Shurima", "Void", "Piltover"}[i%7],
			Difficulty:   types.Difficulty(float64(i % 10)),
		})
	}
	return pool
}

func assertInvariants(t *testing.T, p *types.Puzzle) {
	t.Helper()
	require.NoError(t, p.Check())

	seen := map[string]bool{}
	for _, clue := range p.Grid {
		require.False(t, seen[clue], "grid clue %q repeated", clue)
		seen[clue] = true
	}
	require.Len(t, seen, types.Cells)

	rowOf := map[string]int{}
	for i, set := range p.RowSolutions {
		require.Len(t, set, types.Side)
		for _, clue := range set {
			_, dup := rowOf[clue]
			require.False(t, dup, "clue %q in two row sets", clue)
			rowOf[clue] = i
		}
	}

	perRow := make([]int, types.Side)
	for _, clue := range p.BonusSolution {
		perRow[rowOf[clue]]++
	}
	assert.Equal(t, []int{1, 1, 1, 1}, perRow)
}

func TestBuildPrefixScenario(t *testing.T) {
	b := NewBuilder(PrefixPolicy{}, nil)
	p, err := b.Build(scenarioPool())
	require.NoError(t, err)
	assertInvariants(t, p)

	wantRows := [][]string{
		{"Mage", "Darkin", "Jungle", "Noxus"},
		{"Top", "Tank", "Mid", "ADC"},
		{"Support", "Assassin", "Freljord", "Shurima"},
		{"Demacia", "Void", "Yordle", "Marksman"},
	}
	if diff := cmp.Diff(wantRows, p.RowSolutions); diff != "" {
		t.Fatalf("row solutions mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"Aatrox", "Malphite", "Ashe", "Teemo"}, p.Solutions)
	assert.Equal(t, []string{"Mage", "Tank", "Freljord", "Marksman"}, p.BonusSolution)
	assert.Empty(t, p.BonusName)
	assert.Equal(t, types.Prefix, p.Policy)

	// Without an rng the grid is the row-major flattening.
	var flat []string
	for _, row := range wantRows {
		flat = append(flat, row...)
	}
	assert.Equal(t, flat, p.Grid)
}

func TestBuildFailsWithThreeEligible(t *testing.T) {
	pool := scenarioPool()[:3]
	pool = append(pool, champ("Yuumi", "Cat", "Support"))

	_, err := NewBuilder(PrefixPolicy{}, nil).Build(pool)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientCandidates))
}

func TestBuildSkipsDuplicateCharacters(t *testing.T) {
	pool := scenarioPool()
	pool = append(pool[:1], pool...)
	p, err := NewBuilder(PrefixPolicy{}, nil).Build(pool)
	require.NoError(t, err)
	assert.Equal(t, []string{"Aatrox", "Malphite", "Ashe", "Teemo"}, p.Solutions)
}

func TestBuildReselectsCollidingClues(t *testing.T) {
	pool := []types.Character{
		champ("A", "a1", "Mage", "a3", "a4"),
		champ("B", "b1", "Mage", "b3", "b4", "b5"),
		champ("C", "c1", "c2", "c3", "c4"),
		champ("D", "d1", "d2", "d3", "d4"),
	}
	p, err := NewBuilder(PrefixPolicy{}, nil).Build(pool)
	require.NoError(t, err)
	assertInvariants(t, p)
	assert.Equal(t, []string{"b1", "b3", "b4", "b5"}, p.RowSolutions[1])
}

func TestBuildBacktracksOverCharacters(t *testing.T) {
	// B can only fill a row with clues A already claimed, so B must be dropped.
	pool := []types.Character{
		champ("A", "x1", "x2", "x3", "x4"),
		champ("B", "x1", "x2", "x3", "x4"),
		champ("C", "c1", "c2", "c3", "c4"),
		champ("D", "d1", "d2", "d3", "d4"),
		champ("E", "e1", "e2", "e3", "e4"),
	}
	p, err := NewBuilder(PrefixPolicy{}, nil).Build(pool)
	require.NoError(t, err)
	assertInvariants(t, p)
	assert.Equal(t, []string{"A", "C", "D", "E"}, p.Solutions)
}

func TestBuildFailsWhenNoDisjointSelection(t *testing.T) {
	pool := []types.Character{
		champ("A", "x1", "x2", "x3", "x4"),
		champ("B", "x1", "x2", "x3", "x4"),
		champ("C", "x1", "x2", "x3", "x4", "c5"),
		champ("D", "d1", "d2", "d3", "d4"),
	}
	_, err := NewBuilder(PrefixPolicy{}, nil).Build(pool)
	require.ErrorIs(t, err, ErrInsufficientCandidates)
}

func TestBuildSearchBudget(t *testing.T) {
	pool := []types.Character{
		champ("A", "x1", "x2", "x3", "x4"),
		champ("B", "x1", "x2", "x3", "x4"),
		champ("C", "x1", "x2", "x3", "x4"),
		champ("D", "x1", "x2", "x3", "x4"),
		champ("E", "e1", "e2", "e3", "e4"),
	}
	b := NewBuilder(PrefixPolicy{}, nil)
	b.SetMaxNodes(2)
	_, err := b.Build(pool)
	require.ErrorIs(t, err, ErrInsufficientCandidates)
	assert.Contains(t, err.Error(), "within 2 attempts")
}

func TestBuildFindsBonusCharacter(t *testing.T) {
	pool := append(scenarioPool(),
		champ("Zoe", "Mage", "Tank", "Freljord", "Marksman", "Aspect"),
	)
	p, err := NewBuilder(PrefixPolicy{}, nil).Build(pool)
	require.NoError(t, err)
	assertInvariants(t, p)
	assert.Equal(t, "Zoe", p.BonusName)
	assert.Equal(t, []string{"Mage", "Tank", "Freljord", "Marksman"}, p.BonusSolution)
}

func TestBuildShuffleIsBijection(t *testing.T) {
	b := NewBuilder(PrefixPolicy{}, NewRand(7))
	p, err := b.Build(scenarioPool())
	require.NoError(t, err)
	assertInvariants(t, p)

	var flat []string
	for _, row := range p.RowSolutions {
		flat = append(flat, row...)
	}
	got := append([]string(nil), p.Grid...)
	sort.Strings(flat)
	sort.Strings(got)
	assert.Equal(t, flat, got)
}

func TestBuildRandomPolicyIsSeeded(t *testing.T) {
	pool := largePool(150)

	build := func(seed uint64) *types.Puzzle {
		rng := NewRand(seed)
		p, err := NewBuilder(NewRandomPolicy(rng), rng).Build(pool)
		require.NoError(t, err)
		return p
	}

	first := build(42)
	assertInvariants(t, first)
	assert.Equal(t, types.Random, first.Policy)
	if diff := cmp.Diff(first, build(42)); diff != "" {
		t.Fatalf("same seed produced different puzzles (-first +second):\n%s", diff)
	}

	for seed := uint64(1); seed <= 25; seed++ {
		assertInvariants(t, build(seed))
	}
}

func TestPolicyFor(t *testing.T) {
	p, err := PolicyFor("", nil)
	require.NoError(t, err)
	assert.Equal(t, types.Prefix, p.Name())

	p, err = PolicyFor(" Random ", NewRand(1))
	require.NoError(t, err)
	assert.Equal(t, types.Random, p.Name())

	_, err = PolicyFor("alphabetical", nil)
	assert.Error(t, err)
}

func TestPrefixOrderDoesNotAlias(t *testing.T) {
	pool := scenarioPool()
	out := PrefixPolicy{}.Order(pool)
	out[0] = types.Character{}
	assert.Equal(t, "Aatrox", pool[0].Name)
}
