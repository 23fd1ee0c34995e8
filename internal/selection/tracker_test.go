package selection

import (
	"slices"
	"testing"

	"github.com/robalobadob/wordhunt/internal/grid"
)

func newBoard(t *testing.T) *grid.Grid {
	t.Helper()
	g := grid.NewGrid(5)
	if _, ok := g.Place("DATA", grid.Coord{Row: 0, Col: 0}, grid.Right, grid.PlacementSpec{Category: grid.Primary, Points: 10}); !ok {
		t.Fatal("seed placement failed")
	}
	if _, ok := g.Place("CODE", grid.Coord{Row: 1, Col: 0}, grid.DownRight, grid.PlacementSpec{Category: grid.Primary, Points: 10}); !ok {
		t.Fatal("seed placement failed")
	}
	return g
}

func c(r, col int) grid.Coord { return grid.Coord{Row: r, Col: col} }

func TestDownStartsTracking(t *testing.T) {
	tr := NewTracker(newBoard(t))
	if tr.State() != Idle {
		t.Fatalf("new tracker state = %s", tr.State())
	}
	if tr.Down(c(-1, 0)) {
		t.Fatal("off-grid down should not start tracking")
	}
	if !tr.Down(c(0, 0)) {
		t.Fatal("down on a free cell should start tracking")
	}
	if tr.State() != Tracking || !slices.Equal(tr.Path(), []grid.Coord{c(0, 0)}) {
		t.Fatalf("state %s path %v", tr.State(), tr.Path())
	}
	if tr.Down(c(1, 1)) {
		t.Fatal("a second down while tracking is not a valid transition")
	}
}

func TestAdjacencyRule(t *testing.T) {
	tr := NewTracker(newBoard(t))
	tr.Down(c(2, 2))

	for _, far := range []grid.Coord{c(0, 0), c(2, 4), c(4, 2), c(0, 4), c(4, 4)} {
		if tr.Move(far) {
			t.Fatalf("move to %v (delta > 1) should be ignored", far)
		}
	}
	if !slices.Equal(tr.Path(), []grid.Coord{c(2, 2)}) {
		t.Fatalf("path mutated by non-adjacent moves: %v", tr.Path())
	}
	if tr.Move(c(2, 2)) {
		t.Fatal("move onto the tail is a no-op")
	}
	if !tr.Move(c(3, 1)) {
		t.Fatal("diagonal neighbour should be appended")
	}
	// Adjacency is measured from the new tail (3,1), not the start (2,2).
	if tr.Move(c(2, 3)) {
		t.Fatal("(2,3) is adjacent to the start but not the tail")
	}
	if !tr.Move(c(4, 0)) {
		t.Fatal("(4,0) is adjacent to the tail")
	}
}

func TestBacktrackTruncation(t *testing.T) {
	tr := NewTracker(newBoard(t))
	a, b, cc, d, e := c(2, 0), c(3, 1), c(3, 2), c(4, 2), c(4, 1)
	tr.Down(a)
	tr.Move(b)
	tr.Move(cc)
	tr.Move(d)
	if !slices.Equal(tr.Path(), []grid.Coord{a, b, cc, d}) {
		t.Fatalf("path = %v", tr.Path())
	}

	if !tr.Move(b) {
		t.Fatal("moving back onto B should truncate")
	}
	if !slices.Equal(tr.Path(), []grid.Coord{a, b}) {
		t.Fatalf("after backtrack path = %v, want [A B]", tr.Path())
	}
	if !tr.Move(e) {
		t.Fatal("E is adjacent to B and should be appended")
	}
	if !slices.Equal(tr.Path(), []grid.Coord{a, b, e}) {
		t.Fatalf("path = %v, want [A B E]", tr.Path())
	}
}

func TestFoundCellsAreIgnored(t *testing.T) {
	g := newBoard(t)
	g.Words[0].Found = true // DATA on row 0

	tr := NewTracker(g)
	if tr.Down(c(0, 1)) {
		t.Fatal("down on a found cell should be refused")
	}
	tr.Down(c(1, 1))
	if tr.Move(c(0, 1)) {
		t.Fatal("move onto a found cell should be ignored")
	}
	if !tr.Move(c(1, 2)) {
		t.Fatal("free neighbour should still be accepted")
	}
}

func TestUpProducesSelection(t *testing.T) {
	tr := NewTracker(newBoard(t))
	tr.Down(c(0, 0))
	for _, m := range []grid.Coord{c(0, 1), c(0, 2), c(0, 3)} {
		tr.Move(m)
	}
	sel, ok := tr.Up()
	if !ok {
		t.Fatal("expected a selection")
	}
	if sel.Text != "DATA" || len(sel.Path) != 4 {
		t.Fatalf("selection = %+v", sel)
	}
	if tr.State() != Idle || tr.Path() != nil {
		t.Fatalf("tracker not reset: %s %v", tr.State(), tr.Path())
	}
}

func TestUpTooShortDiscards(t *testing.T) {
	tr := NewTracker(newBoard(t))
	tr.Down(c(0, 0))
	tr.Move(c(0, 1))
	if _, ok := tr.Up(); ok {
		t.Fatal("two-letter gesture should not produce a selection")
	}
	if tr.State() != Idle {
		t.Fatal("tracker should be idle after up")
	}
	if _, ok := tr.Up(); ok {
		t.Fatal("up while idle should do nothing")
	}
}

func TestDisableForcesIdle(t *testing.T) {
	tr := NewTracker(newBoard(t))
	tr.Down(c(0, 0))
	tr.Move(c(0, 1))
	tr.Disable()
	if tr.State() != Idle || len(tr.Path()) != 0 {
		t.Fatalf("disable should force idle, got %s %v", tr.State(), tr.Path())
	}
	if tr.Down(c(2, 2)) {
		t.Fatal("disabled tracker should refuse gestures")
	}
	tr.Enable()
	if !tr.Down(c(2, 2)) {
		t.Fatal("enabled tracker should accept gestures")
	}
}

func TestStateTransitions(t *testing.T) {
	if !Idle.CanTransitionTo(Tracking) || !Tracking.CanTransitionTo(Idle) {
		t.Fatal("Idle <-> Tracking must be allowed")
	}
	if Idle.CanTransitionTo(Idle) || Tracking.CanTransitionTo(Tracking) {
		t.Fatal("self transitions are not in the table")
	}
}
