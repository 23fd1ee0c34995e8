// internal/validator/validator.go
//
// Word validation for finished selections.
// Checks, in order (first failure wins):
//   1. text shorter than 3 letters            → TooShort
//   2. text already in the found set          → AlreadyFound
//   3. no unfound placed word with this text  → NotInList
//   4. path is not the word's path, forward or
//      fully reversed                         → NotInList
// On a match the placed word is marked found (the only place Found is set)
// and the text joins the found set.

package validator

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/wordhunt/internal/grid"
)

// MinLength is the shortest text that can match a word.
const MinLength = 3

// Reason explains a rejected selection.
type Reason string

const (
	TooShort     Reason = "too_short"
	AlreadyFound Reason = "already_found"
	NotInList    Reason = "not_found"
)

// Message is the user-facing text for a rejection.
func (r Reason) Message() string {
	switch r {
	case TooShort:
		return "Word must be at least 3 letters"
	case AlreadyFound:
		return "Already found!"
	case NotInList:
		return "Not in word list"
	default:
		return ""
	}
}

// Result is the outcome of one validation.
type Result struct {
	Valid   bool             `json:"valid"`
	Reason  Reason           `json:"reason,omitempty"`
	Word    *grid.PlacedWord `json:"word,omitempty"`
	Message string           `json:"message"`
}

// Intner picks flavor messages. *rand.Rand satisfies it.
type Intner interface {
	Intn(n int) int
}

var flavor = map[grid.Category][]string{
	grid.Primary: {
		"Themed word! +%d points",
		"Amazing! +%d points",
		"Perfect! +%d points",
		"Brilliant! +%d points",
	},
	grid.Secondary: {
		"Nice! +%d points",
		"Good find! +%d points",
		"Bonus word! +%d points",
	},
}

// Validator checks selections against one grid's placed words.
type Validator struct {
	grid  *grid.Grid
	found mapset.Set[string]
	rng   Intner
}

// New creates a validator with an empty found set.
func New(g *grid.Grid, rng Intner) *Validator {
	return &Validator{grid: g, found: mapset.New[string](), rng: rng}
}

// Validate checks text/path and marks the matching word found.
func (v *Validator) Validate(text string, path []grid.Coord) Result {
	if len(text) < MinLength {
		return reject(TooShort)
	}
	if v.found.Has(text) {
		return reject(AlreadyFound)
	}

	// First unfound entry in list order.
	pw, ok := lo.Find(v.grid.Words, func(w *grid.PlacedWord) bool {
		return w.Text == text && !w.Found
	})
	if !ok || !matchesPath(pw.Path, path) {
		return reject(NotInList)
	}

	pw.Found = true
	v.found.Put(text)
	return Result{Valid: true, Word: pw, Message: v.message(pw)}
}

// matchesPath reports whether got equals want forward or reversed.
func matchesPath(want, got []grid.Coord) bool {
	if len(want) != len(got) {
		return false
	}
	if slices.Equal(want, got) {
		return true
	}
	for i := range want {
		if want[i] != got[len(got)-1-i] {
			return false
		}
	}
	return true
}

func (v *Validator) message(pw *grid.PlacedWord) string {
	pool := flavor[pw.Category]
	if len(pool) == 0 {
		return fmt.Sprintf("+%d points", pw.Points)
	}
	return fmt.Sprintf(pool[v.rng.Intn(len(pool))], pw.Points)
}

func reject(r Reason) Result {
	return Result{Reason: r, Message: r.Message()}
}

// IsFound reports whether text has been found this attempt.
func (v *Validator) IsFound(text string) bool {
	return v.found.Has(text)
}

// Found returns the found words in placement order.
func (v *Validator) Found() []*grid.PlacedWord {
	return lo.Filter(v.grid.Words, func(w *grid.PlacedWord, _ int) bool { return w.Found })
}

// UnfoundPrimary returns the themed words still hidden.
func (v *Validator) UnfoundPrimary() []*grid.PlacedWord {
	return lo.Filter(v.grid.Words, func(w *grid.PlacedWord, _ int) bool {
		return w.Category == grid.Primary && !w.Found
	})
}

// Stats is the progress summary shown beside the grid.
type Stats struct {
	TotalWords     int `json:"totalWords"`
	FoundWords     int `json:"foundWords"`
	PrimaryFound   int `json:"primaryFound"`
	PrimaryTotal   int `json:"primaryTotal"`
	SecondaryFound int `json:"secondaryFound"`
	SecondaryTotal int `json:"secondaryTotal"`
	Completion     int `json:"completion"` // percent of Primary words found
}

// Stats counts found and total words per category.
func (v *Validator) Stats() Stats {
	s := Stats{TotalWords: len(v.grid.Words)}
	for _, w := range v.grid.Words {
		if w.Category == grid.Primary {
			s.PrimaryTotal++
			if w.Found {
				s.PrimaryFound++
			}
		} else {
			s.SecondaryTotal++
			if w.Found {
				s.SecondaryFound++
			}
		}
	}
	s.FoundWords = s.PrimaryFound + s.SecondaryFound
	if s.PrimaryTotal > 0 {
		s.Completion = (s.PrimaryFound*100 + s.PrimaryTotal/2) / s.PrimaryTotal
	}
	return s
}

// Complete reports whether every placed Primary word has been found.
func (v *Validator) Complete() bool {
	s := v.Stats()
	return s.PrimaryTotal > 0 && s.PrimaryFound == s.PrimaryTotal
}
