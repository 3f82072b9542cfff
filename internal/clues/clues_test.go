package clues

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"league_grid_go/internal/types"
)

func TestExtractFieldOrder(t *testing.T) {
	c := types.Character{
		ID:           "Aatrox",
		Name:         "Aatrox",
		Title:        "the Darkin Blade",
		Tags:         []string{"Fighter", "Tank"},
		ResourceType: "Blood Well",
		Species:      "Darkin",
		ReleaseYear:  "2013",
		Region:       "Runeterra",
		Difficulty:   types.Difficulty(4),
	}

	want := []string{"the Darkin Blade", "Fighter", "Tank", "Blood Well", "Darkin", "2013", "Runeterra", "Medium"}
	if diff := cmp.Diff(want, Extract(c)); diff != "" {
		t.Fatalf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	c := types.Character{Title: "the Nine-Tailed Fox", Tags: []string{"Mage", "Assassin"}, Region: "Ionia"}
	first := Extract(c)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Extract(c))
	}
}

func TestExtractDropsDuplicatesAndBlanks(t *testing.T) {
	c := types.Character{
		Title:        "  Void  ",
		Tags:         []string{"Mage", " ", "Mage", "Void"},
		ResourceType: "",
		Species:      "Void",
		Region:       "   ",
	}

	got := Extract(c)
	assert.Equal(t, []string{"Void", "Mage"}, got)

	seen := map[string]bool{}
	for _, clue := range got {
		require.False(t, seen[clue], "duplicate clue %q", clue)
		seen[clue] = true
	}
}

func TestExtractSplitsJoinedTags(t *testing.T) {
	c := types.Character{Tags: []string{"Fighter; Tank;", "Mage"}}
	assert.Equal(t, []string{"Fighter", "Tank", "Mage"}, Extract(c))
}

func TestExtractEligibility(t *testing.T) {
	t.Run("title and one tag", func(t *testing.T) {
		c := types.Character{Title: "the Exile", Tags: []string{"Fighter"}}
		assert.Len(t, Extract(c), 2)
		assert.False(t, Eligible(c))
	})

	t.Run("no populated fields", func(t *testing.T) {
		got := Extract(types.Character{ID: "Nobody", Name: "Nobody"})
		assert.Empty(t, got)
		assert.False(t, Eligible(types.Character{}))
	})

	t.Run("four clues", func(t *testing.T) {
		c := types.Character{Title: "the Exile", Tags: []string{"Fighter", "Assassin"}, Region: "Ionia"}
		assert.True(t, Eligible(c))
	})

	t.Run("zero difficulty still counts", func(t *testing.T) {
		c := types.Character{Title: "the Exile", Difficulty: types.Difficulty(0)}
		assert.Equal(t, []string{"the Exile", "Easy"}, Extract(c))
	})
}

func TestDifficultyLabel(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{1, "Easy"},
		{3, "Easy"},
		{3.5, "Medium"},
		{4, "Medium"},
		{6, "Medium"},
		{6.5, "Hard"},
		{7, "Hard"},
		{10, "Hard"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DifficultyLabel(tc.score), "score %v", tc.score)
	}
}
