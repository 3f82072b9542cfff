// Package clues derives the clue tiles a character contributes to a grid.
package clues

import (
	"strings"

	"league_grid_go/internal/types"
)

// MinClues is the number of distinct clues a character needs to fill a row.
const MinClues = types.Side

// DifficultyLabel maps a numeric difficulty rating to its three-bucket label.
func DifficultyLabel(score float64) string {
	switch {
	case score <= 3:
		return "Easy"
	case score <= 6:
		return "Medium"
	default:
		return "Hard"
	}
}

// Extract returns the character's clues in field priority order: title, tags,
// resource type, species, release year, region, difficulty label.
// Blank values are skipped and repeated values are kept only once.
func Extract(c types.Character) []string {
	var b builder
	b.add(c.Title)
	for _, tag := range c.Tags {
		// Catalog CSVs store tags as one "; " joined field.
		for _, part := range strings.Split(tag, ";") {
			b.add(part)
		}
	}
	b.add(c.ResourceType)
	b.add(c.Species)
	b.add(string(c.ReleaseYear))
	b.add(c.Region)
	if c.Difficulty != nil {
		b.add(DifficultyLabel(*c.Difficulty))
	}
	return b.out
}

// Eligible reports whether the character can fill a grid row.
func Eligible(c types.Character) bool {
	return len(Extract(c)) >= MinClues
}

type builder struct {
	out  []string
	seen map[string]bool
}

func (b *builder) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	if b.seen == nil {
		b.seen = make(map[string]bool)
	}
	if b.seen[v] {
		return
	}
	b.seen[v] = true
	b.out = append(b.out, v)
}
