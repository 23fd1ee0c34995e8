// Package levels holds the eight difficulty tiers. Easier levels use
// smaller grids, shorter themed words, more time and more hints.
package levels

import (
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/wordhunt/internal/grid"
)

// ErrUnknownLevel is returned for a level number outside the table.
var ErrUnknownLevel = errors.New("unknown level")

// Level describes one difficulty tier.
type Level struct {
	Number        int        `json:"level"`
	Name          string     `json:"name"`
	TimeLimit     int        `json:"timeLimit"`   // seconds
	TargetScore   int        `json:"targetScore"` // minimum score to pass
	MinWords      int        `json:"minWords"`    // minimum Primary words to pass
	GridSize      int        `json:"gridSize"`
	Primary       grid.Range `json:"primaryWords"`
	Secondary     grid.Range `json:"secondaryWords"`
	MaxWordLength int        `json:"maxWordLength"` // 0 means any length
	HintsAllowed  int        `json:"hintsAllowed"`
}

// Duration returns the time limit as a time.Duration.
func (l Level) Duration() time.Duration {
	return time.Duration(l.TimeLimit) * time.Second
}

// GridConfig converts the level into generator parameters.
func (l Level) GridConfig() grid.Config {
	return grid.Config{
		Size:          l.GridSize,
		MaxWordLength: l.MaxWordLength,
		Primary:       l.Primary,
		Secondary:     l.Secondary,
	}
}

var table = []Level{
	{1, "Beginner", 240, 50, 5, 10, grid.Range{Min: 5, Max: 7}, grid.Range{Min: 8, Max: 12}, 5, 8},
	{2, "Novice", 210, 80, 6, 11, grid.Range{Min: 6, Max: 8}, grid.Range{Min: 10, Max: 15}, 6, 7},
	{3, "Apprentice", 180, 100, 7, 12, grid.Range{Min: 7, Max: 9}, grid.Range{Min: 12, Max: 18}, 7, 6},
	{4, "Skilled", 150, 130, 8, 13, grid.Range{Min: 8, Max: 10}, grid.Range{Min: 14, Max: 20}, 8, 6},
	{5, "Advanced", 135, 150, 9, 14, grid.Range{Min: 9, Max: 11}, grid.Range{Min: 16, Max: 22}, 9, 5},
	{6, "Expert", 120, 180, 10, 15, grid.Range{Min: 10, Max: 12}, grid.Range{Min: 18, Max: 24}, 10, 5},
	{7, "Master", 105, 200, 11, 16, grid.Range{Min: 11, Max: 13}, grid.Range{Min: 20, Max: 26}, 11, 4},
	{8, "Legendary", 90, 250, 12, 17, grid.Range{Min: 12, Max: 15}, grid.Range{Min: 22, Max: 28}, 0, 3},
}

// Count is the number of levels.
func Count() int { return len(table) }

// All returns a copy of the table in order.
func All() []Level {
	return append([]Level(nil), table...)
}

// Get returns level n (1-based).
func Get(n int) (Level, error) {
	if n < 1 || n > len(table) {
		return Level{}, fmt.Errorf("level %d: %w", n, ErrUnknownLevel)
	}
	return table[n-1], nil
}
