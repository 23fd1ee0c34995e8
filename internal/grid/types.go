// internal/grid/types.go
//
// Grid model for the word-search board.
// Defines:
//   - Coord/Cell: a position and the letter written there.
//   - Direction: the three forward-only placement vectors.
//   - PlacedWord: a word written onto the grid with its recorded path.
//   - Grid: the N×N board plus the placed-word list (ground truth for
//     win checks, hints and stats).

package grid

import "strings"

// Scoring constants shared by the generator and the validator.
const (
	BasePrimaryScore = 10 // points per multiplier unit for Primary words
	SecondaryPoints  = 3  // flat value of every Secondary word
)

// Coord addresses a single grid cell.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add returns c shifted by d scaled by n.
func (c Coord) Add(d Direction, n int) Coord {
	return Coord{Row: c.Row + d.DRow*n, Col: c.Col + d.DCol*n}
}

// Adjacent reports whether c and o are 8-directional neighbours.
func (c Coord) Adjacent(o Coord) bool {
	dr, dc := o.Row-c.Row, o.Col-c.Col
	if dr < -1 || dr > 1 || dc < -1 || dc > 1 {
		return false
	}
	return dr != 0 || dc != 0
}

// Cell is one square of the board. Letter is 0 until placement or fill sets it.
type Cell struct {
	Row    int  `json:"row"`
	Col    int  `json:"col"`
	Letter byte `json:"letter"`
}

// Category tells Primary (themed, required) from Secondary (filler bonus) words.
type Category string

const (
	Primary   Category = "primary"
	Secondary Category = "secondary"
)

// Direction is a unit step between consecutive letters of a placed word.
type Direction struct {
	DRow int `json:"dRow"`
	DCol int `json:"dCol"`
}

var (
	Right     = Direction{DRow: 0, DCol: 1}
	Down      = Direction{DRow: 1, DCol: 0}
	DownRight = Direction{DRow: 1, DCol: 1}
)

// Directions lists the only vectors the generator places words along.
// Leftward and upward words never exist.
var Directions = [...]Direction{Right, Down, DownRight}

// PlacedWord is a word written onto the grid.
// Found flips once, false → true, through the validator.
type PlacedWord struct {
	Text       string   `json:"text"`
	Path       []Coord  `json:"path"`
	Found      bool     `json:"found"`
	Category   Category `json:"category"`
	Multiplier int      `json:"multiplier"`
	Points     int      `json:"points"`
}

// Grid owns the N×N cells and the list of words placed on them.
type Grid struct {
	Size  int
	Words []*PlacedWord

	cells [][]Cell
	owner [][]int // index into Words, -1 for empty/filler
}

// NewGrid allocates an empty size×size grid.
func NewGrid(size int) *Grid {
	g := &Grid{Size: size}
	g.cells = make([][]Cell, size)
	g.owner = make([][]int, size)
	for r := 0; r < size; r++ {
		g.cells[r] = make([]Cell, size)
		g.owner[r] = make([]int, size)
		for c := 0; c < size; c++ {
			g.cells[r][c] = Cell{Row: r, Col: c}
			g.owner[r][c] = -1
		}
	}
	return g
}

// InBounds reports whether c lies on the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.Size && c.Col >= 0 && c.Col < g.Size
}

// LetterAt returns the letter at c. ok is false off-grid.
func (g *Grid) LetterAt(c Coord) (letter byte, ok bool) {
	if !g.InBounds(c) {
		return 0, false
	}
	return g.cells[c.Row][c.Col].Letter, true
}

// Cell returns a copy of the cell at c.
func (g *Grid) Cell(c Coord) (Cell, bool) {
	if !g.InBounds(c) {
		return Cell{}, false
	}
	return g.cells[c.Row][c.Col], true
}

// WordAt returns the placed word occupying c, if any.
func (g *Grid) WordAt(c Coord) *PlacedWord {
	if !g.InBounds(c) {
		return nil
	}
	if i := g.owner[c.Row][c.Col]; i >= 0 {
		return g.Words[i]
	}
	return nil
}

// IsFound reports whether c belongs to a word that has been found.
// Found cells cannot start or extend a selection.
func (g *Grid) IsFound(c Coord) bool {
	w := g.WordAt(c)
	return w != nil && w.Found
}

// PlacementSpec carries the scoring metadata recorded with a placed word.
type PlacementSpec struct {
	Category   Category
	Multiplier int
	Points     int
}

// CanPlace reports whether text fits from start along d with every cell
// in bounds and still empty. Words never share letters.
func (g *Grid) CanPlace(text string, start Coord, d Direction) bool {
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		c := start.Add(d, i)
		if !g.InBounds(c) || g.cells[c.Row][c.Col].Letter != 0 {
			return false
		}
	}
	return true
}

// Place writes text along d from start and records it as a PlacedWord.
// It returns nil, false when the placement is illegal.
func (g *Grid) Place(text string, start Coord, d Direction, spec PlacementSpec) (*PlacedWord, bool) {
	if !g.CanPlace(text, start, d) {
		return nil, false
	}
	idx := len(g.Words)
	path := make([]Coord, len(text))
	for i := 0; i < len(text); i++ {
		c := start.Add(d, i)
		g.cells[c.Row][c.Col].Letter = text[i]
		g.owner[c.Row][c.Col] = idx
		path[i] = c
	}
	mult := spec.Multiplier
	if mult <= 0 {
		mult = 1
	}
	pw := &PlacedWord{
		Text:       text,
		Path:       path,
		Category:   spec.Category,
		Multiplier: mult,
		Points:     spec.Points,
	}
	g.Words = append(g.Words, pw)
	return pw, true
}

// Rows renders the grid as one string per row. Empty cells render as '.'.
func (g *Grid) Rows() []string {
	out := make([]string, g.Size)
	var b strings.Builder
	for r := 0; r < g.Size; r++ {
		b.Reset()
		for c := 0; c < g.Size; c++ {
			l := g.cells[r][c].Letter
			if l == 0 {
				l = '.'
			}
			b.WriteByte(l)
		}
		out[r] = b.String()
	}
	return out
}

// Stats summarises the placed words.
type Stats struct {
	TotalWords          int `json:"totalWords"`
	PrimaryWords        int `json:"primaryWords"`
	SecondaryWords      int `json:"secondaryWords"`
	TotalPossiblePoints int `json:"totalPossiblePoints"`
}

// Stats counts placed words per category and the points on offer.
func (g *Grid) Stats() Stats {
	s := Stats{TotalWords: len(g.Words)}
	for _, w := range g.Words {
		if w.Category == Primary {
			s.PrimaryWords++
		} else {
			s.SecondaryWords++
		}
		s.TotalPossiblePoints += w.Points
	}
	return s
}
