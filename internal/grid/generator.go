// internal/grid/generator.go
//
// Procedural board generation.
// Responsibilities:
//   - Pick a random subset of Primary and Secondary words per level limits.
//   - Place each word with randomized (start, direction) trials, rejecting
//     any trial that leaves the grid or touches a written cell.
//   - Fill the remaining cells with weighted random letters.
//
// Notes:
//   - All randomness goes through the Rand interface so callers can seed it.
//   - A word that does not fit within MaxAttempts trials is skipped; that is
//     normal under high occupancy and is not reported as an error.

package grid

import (
	"math/rand"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/wordhunt/internal/words"
)

const (
	// DefaultMaxAttempts is the per-word placement retry budget.
	DefaultMaxAttempts = 100

	vowels     = "AEIOU"
	consonants = "BCDFGHJKLMNPQRSTVWXYZ"
	vowelBias  = 0.4
)

// Rand is the randomness the generator consumes. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a deterministic source for seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Range is an inclusive [Min, Max] count of words to attempt.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// draw picks a count uniformly from the range.
func (r Range) draw(rng Rand) int {
	if r.Max <= r.Min {
		return max(r.Min, 0)
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// Config controls one generation run.
type Config struct {
	Size          int
	MaxWordLength int // <= 0 means no limit
	Primary       Range
	Secondary     Range
}

// Generator places words onto fresh grids.
type Generator struct {
	rng         Rand
	MaxAttempts int
}

// NewGenerator wires a generator to a random source.
func NewGenerator(rng Rand) *Generator {
	return &Generator{rng: rng, MaxAttempts: DefaultMaxAttempts}
}

// Generate builds a grid for cfg from the given pools.
// Primary entries are filtered by cfg.MaxWordLength; Secondary words are not.
func (g *Generator) Generate(cfg Config, primary []words.Entry, secondary []string) *Grid {
	grid := NewGrid(cfg.Size)

	// Primary words: filter by length, shuffle, take a random count.
	pool := lo.Filter(primary, func(e words.Entry, _ int) bool {
		return cfg.MaxWordLength <= 0 || len(e.Word) <= cfg.MaxWordLength
	})
	g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	n := min(cfg.Primary.draw(g.rng), len(pool))
	placedPrimary := 0
	for _, e := range pool[:n] {
		spec := PlacementSpec{
			Category:   Primary,
			Multiplier: e.Multiplier,
			Points:     BasePrimaryScore * max(e.Multiplier, 1),
		}
		if g.tryPlace(grid, e.Word, spec) {
			placedPrimary++
		}
	}

	// Secondary words: flat value, no length filter.
	bonus := append([]string(nil), secondary...)
	g.rng.Shuffle(len(bonus), func(i, j int) { bonus[i], bonus[j] = bonus[j], bonus[i] })
	n2 := min(cfg.Secondary.draw(g.rng), len(bonus))
	placedSecondary := 0
	for _, w := range bonus[:n2] {
		spec := PlacementSpec{Category: Secondary, Multiplier: 1, Points: SecondaryPoints}
		if g.tryPlace(grid, w, spec) {
			placedSecondary++
		}
	}

	g.fill(grid)

	log.Debug().
		Int("size", cfg.Size).
		Int("primaryTried", n).
		Int("primaryPlaced", placedPrimary).
		Int("secondaryTried", n2).
		Int("secondaryPlaced", placedSecondary).
		Msg("grid generated")
	return grid
}

// tryPlace runs up to MaxAttempts random (start, direction) trials.
func (g *Generator) tryPlace(grid *Grid, word string, spec PlacementSpec) bool {
	attempts := g.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	for i := 0; i < attempts; i++ {
		start := Coord{Row: g.rng.Intn(grid.Size), Col: g.rng.Intn(grid.Size)}
		d := Directions[g.rng.Intn(len(Directions))]
		if _, ok := grid.Place(word, start, d, spec); ok {
			return true
		}
	}
	log.Debug().Str("word", word).Int("attempts", attempts).Msg("placement exhausted, skipping")
	return false
}

// fill writes a random letter into every empty cell: 40% vowel, 60% consonant.
func (g *Generator) fill(grid *Grid) {
	for r := 0; r < grid.Size; r++ {
		for c := 0; c < grid.Size; c++ {
			if grid.cells[r][c].Letter != 0 {
				continue
			}
			set := consonants
			if g.rng.Float64() < vowelBias {
				set = vowels
			}
			grid.cells[r][c].Letter = set[g.rng.Intn(len(set))]
		}
	}
}
