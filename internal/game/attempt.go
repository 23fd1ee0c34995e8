// internal/game/attempt.go
//
// One attempt at one level.
// Responsibilities:
//   - Route pointer events to the selection tracker and finished gestures
//     to the validator.
//   - Keep score, hints and the countdown; decide pass/fail.
//   - Pause the countdown while the dictionary is open.
//
// State transitions:
//   - playing → passed    when primaryFound ≥ MinWords and score ≥ TargetScore
//   - playing → failed    when the countdown reaches zero
//   - playing → abandoned on explicit Abandon
// Ending stops the countdown and disables the tracker in the same step.
//
// Attempt is not safe for concurrent use; Session serialises access.

package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/robalobadob/wordhunt/internal/grid"
	"github.com/robalobadob/wordhunt/internal/levels"
	"github.com/robalobadob/wordhunt/internal/selection"
	"github.com/robalobadob/wordhunt/internal/validator"
)

// Outcome is the coarse attempt state.
type Outcome string

const (
	Playing   Outcome = "playing"
	Passed    Outcome = "passed"
	Failed    Outcome = "failed"
	Abandoned Outcome = "abandoned"
)

// Ended reports whether o is terminal.
func (o Outcome) Ended() bool { return o != Playing }

// Intner is the randomness used for hints and flavor messages.
type Intner interface {
	Intn(n int) int
}

// Attempt holds the full state of a level attempt.
type Attempt struct {
	ID    string
	Level levels.Level
	Daily bool
	Seed  int64

	grid      *grid.Grid
	validator *validator.Validator
	tracker   *selection.Tracker
	clock     *Countdown
	rng       Intner

	score          int
	hintsLeft      int
	hintsUsed      int
	dictionaryOpen bool
	outcome        Outcome
	startedAt      time.Time
	endedAt        time.Time
	reported       bool
}

// NewAttempt starts the clock on a freshly generated grid.
func NewAttempt(lvl levels.Level, g *grid.Grid, rng Intner) *Attempt {
	return &Attempt{
		ID:        uuid.NewString(),
		Level:     lvl,
		grid:      g,
		validator: validator.New(g, rng),
		tracker:   selection.NewTracker(g),
		clock:     NewCountdown(lvl.TimeLimit),
		rng:       rng,
		hintsLeft: lvl.HintsAllowed,
		outcome:   Playing,
		startedAt: time.Now(),
	}
}

// Grid exposes the board.
func (a *Attempt) Grid() *grid.Grid { return a.grid }

// Score returns the points earned so far.
func (a *Attempt) Score() int { return a.score }

// Outcome returns the current outcome.
func (a *Attempt) Outcome() Outcome { return a.outcome }

// Remaining returns the seconds left on the clock.
func (a *Attempt) Remaining() int { return a.clock.Remaining() }

// Clock returns the countdown state.
func (a *Attempt) Clock() ClockState { return a.clock.State() }

// HintsLeft returns the unused hint allowance.
func (a *Attempt) HintsLeft() int { return a.hintsLeft }

// HintsUsed returns how many hints were spent.
func (a *Attempt) HintsUsed() int { return a.hintsUsed }

// Tracker exposes the gesture state machine (read-only use).
func (a *Attempt) Tracker() *selection.Tracker { return a.tracker }

// Stats returns the validator's progress counts.
func (a *Attempt) Stats() validator.Stats { return a.validator.Stats() }

// Elapsed is the number of countdown seconds consumed.
func (a *Attempt) Elapsed() int { return a.Level.TimeLimit - a.clock.Remaining() }

// UnderPlaced reports whether the generator placed fewer Primary words
// than the level requires, which makes the level unwinnable.
func (a *Attempt) UnderPlaced() bool {
	return a.grid.Stats().PrimaryWords < a.Level.MinWords
}

// PointerDown starts a gesture on c. It reports whether tracking began.
func (a *Attempt) PointerDown(c grid.Coord) (bool, error) {
	if a.outcome.Ended() {
		return false, ErrAttemptEnded
	}
	return a.tracker.Down(c), nil
}

// PointerMove extends or backtracks the gesture. It reports whether the path changed.
func (a *Attempt) PointerMove(c grid.Coord) (bool, error) {
	if a.outcome.Ended() {
		return false, ErrAttemptEnded
	}
	return a.tracker.Move(c), nil
}

// Play is the result of a finished gesture.
type Play struct {
	Selected  bool                `json:"selected"`
	Selection selection.Selection `json:"selection"`
	Result    validator.Result    `json:"result"`
	Score     int                 `json:"score"`
	Outcome   Outcome             `json:"outcome"`
}

// PointerUp ends the gesture and validates it. Gestures shorter than three
// letters return Selected=false. A gesture traced end-to-start spells the
// word backwards, so a NotInList or AlreadyFound result is retried with the
// reversed text over the same path (GOD traced backwards reads DOG).
func (a *Attempt) PointerUp() (Play, error) {
	if a.outcome.Ended() {
		return Play{Outcome: a.outcome}, ErrAttemptEnded
	}
	sel, ok := a.tracker.Up()
	if !ok {
		return Play{Score: a.score, Outcome: a.outcome}, nil
	}

	res := a.validator.Validate(sel.Text, sel.Path)
	if res.Reason == validator.NotInList || res.Reason == validator.AlreadyFound {
		if rev := reverse(sel.Text); rev != sel.Text {
			if r2 := a.validator.Validate(rev, sel.Path); r2.Valid || r2.Reason == validator.AlreadyFound {
				res = r2
			}
		}
	}

	if res.Valid {
		a.score += res.Word.Points
		if a.won() {
			a.end(Passed)
		}
	}
	return Play{Selected: true, Selection: sel, Result: res, Score: a.score, Outcome: a.outcome}, nil
}

// Trace feeds a whole gesture: down on the first cell, moves over the rest, up.
func (a *Attempt) Trace(path []grid.Coord) (Play, error) {
	if a.outcome.Ended() {
		return Play{Outcome: a.outcome}, ErrAttemptEnded
	}
	if len(path) == 0 {
		return Play{Score: a.score, Outcome: a.outcome}, nil
	}
	a.tracker.Cancel()
	if !a.tracker.Down(path[0]) {
		return Play{Score: a.score, Outcome: a.outcome}, nil
	}
	for _, c := range path[1:] {
		a.tracker.Move(c)
	}
	return a.PointerUp()
}

func (a *Attempt) won() bool {
	s := a.validator.Stats()
	return s.PrimaryFound >= a.Level.MinWords && a.score >= a.Level.TargetScore
}

// Tick advances the countdown one second. Ticks after the end are ignored.
// It reports whether this tick ended the attempt.
func (a *Attempt) Tick() bool {
	if a.outcome.Ended() {
		return false
	}
	if a.clock.Tick() {
		a.end(Failed)
		return true
	}
	return false
}

// Hint reveals the first cell of a random unfound Primary word.
type Hint struct {
	Start     grid.Coord `json:"start"`
	Letter    string     `json:"letter"`
	Length    int        `json:"length"`
	Remaining int        `json:"remaining"`
}

// Hint spends one hint.
func (a *Attempt) Hint() (Hint, error) {
	if a.outcome.Ended() {
		return Hint{}, ErrAttemptEnded
	}
	if a.hintsLeft <= 0 {
		return Hint{}, ErrNoHints
	}
	candidates := lo.Filter(a.validator.UnfoundPrimary(), func(w *grid.PlacedWord, _ int) bool {
		return len(w.Path) > 0 && lo.NoneBy(w.Path, a.grid.IsFound)
	})
	if len(candidates) == 0 {
		return Hint{}, ErrNothingToHint
	}
	w := candidates[a.rng.Intn(len(candidates))]
	a.hintsLeft--
	a.hintsUsed++
	return Hint{
		Start:     w.Path[0],
		Letter:    w.Text[:1],
		Length:    len(w.Text),
		Remaining: a.hintsLeft,
	}, nil
}

// OpenDictionary pauses the countdown and drops any gesture in progress.
func (a *Attempt) OpenDictionary() error {
	if a.outcome.Ended() {
		return ErrAttemptEnded
	}
	a.tracker.Cancel()
	a.clock.Pause()
	a.dictionaryOpen = true
	return nil
}

// CloseDictionary resumes the countdown.
func (a *Attempt) CloseDictionary() error {
	if a.outcome.Ended() {
		return ErrAttemptEnded
	}
	a.clock.Resume()
	a.dictionaryOpen = false
	return nil
}

// Abandon gives up the attempt.
func (a *Attempt) Abandon() error {
	if a.outcome.Ended() {
		return ErrAttemptEnded
	}
	a.end(Abandoned)
	return nil
}

func (a *Attempt) end(o Outcome) {
	a.outcome = o
	a.clock.Stop()
	a.tracker.Disable()
	a.dictionaryOpen = false
	a.endedAt = time.Now()
}

// WordView is a placed word as shown to the player. Path stays nil until
// the word is found or the attempt ends.
type WordView struct {
	Text     string        `json:"text"`
	Category grid.Category `json:"category"`
	Points   int           `json:"points"`
	Found    bool          `json:"found"`
	Path     []grid.Coord  `json:"path,omitempty"`
}

// Snapshot is the client projection of an attempt.
// Every placed word is listed; positions are revealed on find or at the end.
type Snapshot struct {
	ID             string          `json:"id"`
	Level          levels.Level    `json:"level"`
	Daily          bool            `json:"daily"`
	Rows           []string        `json:"rows"`
	Words          []WordView      `json:"words"`
	Stats          validator.Stats `json:"stats"`
	Score          int             `json:"score"`
	Remaining      int             `json:"remaining"`
	Clock          ClockState      `json:"clock"`
	HintsLeft      int             `json:"hintsLeft"`
	HintsUsed      int             `json:"hintsUsed"`
	DictionaryOpen bool            `json:"dictionaryOpen"`
	Selecting      []grid.Coord    `json:"selecting,omitempty"`
	Outcome        Outcome         `json:"outcome"`
	UnderPlaced    bool            `json:"underPlaced"`
	StartedAt      time.Time       `json:"startedAt"`
}

// Snapshot captures the attempt for clients.
func (a *Attempt) Snapshot() Snapshot {
	ended := a.outcome.Ended()
	views := lo.Map(a.grid.Words, func(w *grid.PlacedWord, _ int) WordView {
		v := WordView{
			Text:     w.Text,
			Category: w.Category,
			Points:   w.Points,
			Found:    w.Found,
		}
		if w.Found || ended {
			v.Path = append([]grid.Coord(nil), w.Path...)
		}
		return v
	})
	return Snapshot{
		ID:             a.ID,
		Level:          a.Level,
		Daily:          a.Daily,
		Rows:           a.grid.Rows(),
		Words:          views,
		Stats:          a.validator.Stats(),
		Score:          a.score,
		Remaining:      a.clock.Remaining(),
		Clock:          a.clock.State(),
		HintsLeft:      a.hintsLeft,
		HintsUsed:      a.hintsUsed,
		DictionaryOpen: a.dictionaryOpen,
		Selecting:      a.tracker.Path(),
		Outcome:        a.outcome,
		UnderPlaced:    a.UnderPlaced(),
		StartedAt:      a.startedAt,
	}
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
