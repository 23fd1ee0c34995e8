// internal/selection/tracker.go
//
// Gesture tracking for word selection.
// Converts pointer/touch events over grid cells into an ordered,
// backtrack-aware path of cells.
//
// Rules while Tracking:
//   - The same cell as the path tail is a no-op.
//   - An 8-adjacent cell already in the path truncates back to it.
//   - Any other 8-adjacent cell is appended.
//   - Non-adjacent, off-grid or found cells are ignored, so the pointer can
//     wander without breaking the gesture.
//
// Adjacency is always measured from the current tail, never the start.

package selection

import (
	"slices"

	"github.com/samber/lo"

	"github.com/robalobadob/wordhunt/internal/grid"
)

// MinSelectionLength is the shortest gesture handed to the validator.
const MinSelectionLength = 3

// Board is what the tracker needs to know about the grid.
type Board interface {
	LetterAt(c grid.Coord) (byte, bool)
	IsFound(c grid.Coord) bool
}

// Selection is a finished gesture.
type Selection struct {
	Text string       `json:"text"`
	Path []grid.Coord `json:"path"`
}

// Tracker is the Idle/Tracking input state machine. Not safe for concurrent use.
type Tracker struct {
	board    Board
	state    State
	path     []grid.Coord
	disabled bool
}

// NewTracker creates an idle tracker over board.
func NewTracker(board Board) *Tracker {
	return &Tracker{board: board, state: Idle}
}

// State returns the current state.
func (t *Tracker) State() State { return t.state }

// Path returns a copy of the in-progress path.
func (t *Tracker) Path() []grid.Coord { return slices.Clone(t.path) }

// Disabled reports whether new gestures are refused.
func (t *Tracker) Disabled() bool { return t.disabled }

// selectable reports whether c is on the board and not part of a found word.
func (t *Tracker) selectable(c grid.Coord) bool {
	if _, ok := t.board.LetterAt(c); !ok {
		return false
	}
	return !t.board.IsFound(c)
}

// Down starts a gesture on c. It reports whether tracking began.
func (t *Tracker) Down(c grid.Coord) bool {
	if t.disabled || !t.state.CanTransitionTo(Tracking) || !t.selectable(c) {
		return false
	}
	t.state = Tracking
	t.path = []grid.Coord{c}
	return true
}

// Move feeds the cell under the pointer. It reports whether the path changed.
func (t *Tracker) Move(c grid.Coord) bool {
	if t.state != Tracking || !t.selectable(c) {
		return false
	}
	tail := t.path[len(t.path)-1]
	if c == tail || !tail.Adjacent(c) {
		return false
	}
	if i := slices.Index(t.path, c); i >= 0 {
		t.path = t.path[:i+1]
		return true
	}
	t.path = append(t.path, c)
	return true
}

// Up ends the gesture. The path is discarded either way; a Selection is
// returned only when it spells at least MinSelectionLength letters.
func (t *Tracker) Up() (Selection, bool) {
	if t.state != Tracking {
		return Selection{}, false
	}
	path := t.path
	t.reset()

	letters := lo.Map(path, func(c grid.Coord, _ int) byte {
		l, _ := t.board.LetterAt(c)
		return l
	})
	if len(letters) < MinSelectionLength {
		return Selection{}, false
	}
	return Selection{Text: string(letters), Path: path}, true
}

// Cancel forces Tracking → Idle without producing a selection.
func (t *Tracker) Cancel() {
	t.reset()
}

// Disable cancels any gesture and refuses new ones until Enable.
func (t *Tracker) Disable() {
	t.reset()
	t.disabled = true
}

// Enable accepts gestures again.
func (t *Tracker) Enable() {
	t.disabled = false
}

func (t *Tracker) reset() {
	t.state = Idle
	t.path = nil
}
