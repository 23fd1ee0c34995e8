// internal/game/session.go
//
// Session wraps one player's visit: level progression, the current attempt
// and its tick loop, and event fan-out to subscribers.
//
// Every exported method takes the session mutex, so HTTP handlers, the
// WebSocket reader and the tick goroutine never interleave inside an
// Attempt. The tick goroutine belongs to a single attempt and exits when that
// attempt ends or is replaced; a late tick for a stale attempt is a no-op.

package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordhunt/internal/grid"
	"github.com/robalobadob/wordhunt/internal/levels"
	"github.com/robalobadob/wordhunt/internal/words"
)

const subscriberBuffer = 32

// Summary describes an ended attempt for the attempt log.
type Summary struct {
	SessionID    string
	AttemptID    string
	Level        int
	Daily        bool
	Outcome      Outcome
	Score        int
	PrimaryFound int
	PrimaryTotal int
	WordsFound   int
	HintsUsed    int
	Elapsed      int
	EndedAt      time.Time
}

// Recorder stores ended attempts.
type Recorder interface {
	RecordAttempt(ctx context.Context, s Summary) error
}

// Options configures a Session.
type Options struct {
	// TickInterval is the wall-clock length of one countdown second.
	// Zero disables the tick goroutine; callers then drive Tick themselves.
	TickInterval time.Duration
	Primary      []words.Entry
	Secondary    []string
	Recorder     Recorder
	// NewSeed picks seeds for non-daily grids. Defaults to the clock.
	NewSeed func() int64
}

// Totals are cumulative per-session counters.
type Totals struct {
	Attempts  int `json:"attempts"`
	Passed    int `json:"passed"`
	Failed    int `json:"failed"`
	Abandoned int `json:"abandoned"`
	Score     int `json:"score"`
	Words     int `json:"words"`
}

// Info is the session summary returned to clients.
type Info struct {
	ID            string    `json:"id"`
	HighestPassed int       `json:"highestPassed"`
	CurrentLevel  int       `json:"currentLevel"`
	Playing       bool      `json:"playing"`
	Totals        Totals    `json:"totals"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Session is safe for concurrent use.
type Session struct {
	ID string

	mu         sync.Mutex
	opts       Options
	passed     int // highest level passed
	current    *Attempt
	cancelTick context.CancelFunc
	subs       map[int]chan Event
	nextSub    int
	totals     Totals
	closed     bool
	createdAt  time.Time
	lastSeen   time.Time
	logger     zerolog.Logger
}

// NewSession creates a session. Every level is open from the start.
func NewSession(opts Options) *Session {
	if opts.NewSeed == nil {
		opts.NewSeed = func() int64 { return time.Now().UnixNano() }
	}
	id := uuid.NewString()
	now := time.Now()
	return &Session{
		ID:        id,
		opts:      opts,
		subs:      make(map[int]chan Event),
		createdAt: now,
		lastSeen:  now,
		logger:    log.With().Str("session", id).Logger(),
	}
}

// LastSeen returns the time of the last call into the session.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Info returns progression and totals.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	info := Info{
		ID:            s.ID,
		HighestPassed: s.passed,
		Totals:        s.totals,
		CreatedAt:     s.createdAt,
	}
	if s.current != nil {
		info.CurrentLevel = s.current.Level.Number
		info.Playing = !s.current.Outcome().Ended()
	}
	return info
}

// Start begins a fresh attempt at level using seed for the grid.
// Any attempt still in progress is abandoned first.
func (s *Session) Start(level int, seed int64) (Snapshot, error) {
	return s.start(level, seed, false)
}

// StartDaily is Start for the shared daily grid.
func (s *Session) StartDaily(level int, seed int64) (Snapshot, error) {
	return s.start(level, seed, true)
}

// Next starts the level after the current one.
func (s *Session) Next() (Snapshot, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return Snapshot{}, ErrNoAttempt
	}
	next := s.current.Level.Number + 1
	s.mu.Unlock()
	return s.start(next, s.opts.NewSeed(), false)
}

// Retry restarts the current level. Daily attempts keep their seed.
func (s *Session) Retry() (Snapshot, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return Snapshot{}, ErrNoAttempt
	}
	lvl, daily, seed := s.current.Level.Number, s.current.Daily, s.current.Seed
	s.mu.Unlock()
	if !daily {
		seed = s.opts.NewSeed()
	}
	return s.start(lvl, seed, daily)
}

func (s *Session) start(level int, seed int64, daily bool) (Snapshot, error) {
	lvl, err := levels.Get(level)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	snap, sum, err := s.startLocked(lvl, seed, daily)
	s.mu.Unlock()
	s.record(sum)
	return snap, err
}

// startLocked replaces the current attempt. It returns the summary of an
// attempt it abandoned, to be recorded once the lock is released.
func (s *Session) startLocked(lvl levels.Level, seed int64, daily bool) (Snapshot, *Summary, error) {
	if s.closed {
		return Snapshot{}, nil, ErrSessionClosed
	}
	s.touch()

	var abandoned *Summary
	if s.current != nil && !s.current.Outcome().Ended() {
		s.current.Abandon()
		abandoned = s.finish(s.current)
	}

	g := grid.NewGenerator(grid.NewRand(seed)).Generate(lvl.GridConfig(), s.opts.Primary, s.opts.Secondary)
	a := NewAttempt(lvl, g, rand.New(rand.NewSource(seed^0x5eed)))
	a.Daily, a.Seed = daily, seed
	s.current = a

	logger := s.logger.With().Int("level", lvl.Number).Str("attempt", a.ID).Logger()
	if a.UnderPlaced() {
		logger.Warn().
			Int("placed", g.Stats().PrimaryWords).
			Int("required", lvl.MinWords).
			Msg("fewer primary words placed than the level requires")
	}
	logger.Info().Bool("daily", daily).Int64("seed", seed).Msg("attempt started")

	if s.opts.TickInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancelTick = cancel
		go s.runTicker(ctx, a)
	}

	snap := a.Snapshot()
	s.emit(a, EventAttemptStarted, snap)
	return snap, abandoned, nil
}

// runTicker drives one attempt's countdown until it ends or ctx is cancelled.
func (s *Session) runTicker(ctx context.Context, a *Attempt) {
	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.tickAttempt(a) {
				return
			}
		}
	}
}

// Tick advances the current attempt one second.
// Used directly when TickInterval is zero.
func (s *Session) Tick() {
	s.mu.Lock()
	a := s.current
	s.mu.Unlock()
	if a != nil {
		s.tickAttempt(a)
	}
}

// tickAttempt reports whether the ticker for a should stop.
func (s *Session) tickAttempt(a *Attempt) bool {
	s.mu.Lock()
	if s.current != a || a.Outcome().Ended() {
		s.mu.Unlock()
		return true
	}
	ended := a.Tick()
	s.emit(a, EventTick, TickPayload{Remaining: a.Remaining(), Clock: a.Clock()})
	var sum *Summary
	if ended {
		sum = s.finish(a)
	}
	s.mu.Unlock()

	s.record(sum)
	return ended
}

// finish settles an ended attempt exactly once and returns its summary for
// the Recorder, or nil when there is nothing to settle. Caller holds s.mu.
func (s *Session) finish(a *Attempt) *Summary {
	if a.reported || !a.Outcome().Ended() {
		return nil
	}
	a.reported = true
	if s.current == a && s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}

	stats := a.Stats()
	s.totals.Attempts++
	s.totals.Score += a.Score()
	s.totals.Words += stats.FoundWords
	switch a.Outcome() {
	case Passed:
		s.totals.Passed++
		s.passed = max(s.passed, a.Level.Number)
	case Failed:
		s.totals.Failed++
	case Abandoned:
		s.totals.Abandoned++
	}

	sum := Summary{
		SessionID:    s.ID,
		AttemptID:    a.ID,
		Level:        a.Level.Number,
		Daily:        a.Daily,
		Outcome:      a.Outcome(),
		Score:        a.Score(),
		PrimaryFound: stats.PrimaryFound,
		PrimaryTotal: stats.PrimaryTotal,
		WordsFound:   stats.FoundWords,
		HintsUsed:    a.HintsUsed(),
		Elapsed:      a.Elapsed(),
		EndedAt:      a.endedAt,
	}

	s.logger.Info().
		Int("level", sum.Level).
		Str("attempt", a.ID).
		Str("outcome", string(sum.Outcome)).
		Int("score", sum.Score).
		Int("primaryFound", sum.PrimaryFound).
		Msg("attempt ended")

	s.emit(a, EventAttemptEnded, EndedPayload{
		Outcome:       sum.Outcome,
		Score:         sum.Score,
		PrimaryFound:  sum.PrimaryFound,
		MinWords:      a.Level.MinWords,
		TargetScore:   a.Level.TargetScore,
		Elapsed:       sum.Elapsed,
		HighestPassed: s.passed,
	})
	return &sum
}

// record hands sum to the Recorder. It must be called without s.mu held so
// a slow attempt log never stalls ticks or gestures.
func (s *Session) record(sum *Summary) {
	if sum == nil || s.opts.Recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.opts.Recorder.RecordAttempt(ctx, *sum); err != nil {
		s.logger.Error().Err(err).Str("attempt", sum.AttemptID).Msg("record attempt")
	}
}

// withAttempt runs fn on the current attempt under the lock and settles
// the attempt if fn ended it. The attempt is recorded after unlocking.
func (s *Session) withAttempt(fn func(a *Attempt) error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.touch()
	if s.current == nil {
		s.mu.Unlock()
		return ErrNoAttempt
	}
	err := fn(s.current)
	sum := s.finish(s.current)
	s.mu.Unlock()

	s.record(sum)
	return err
}

// PointerDown starts a gesture on the current attempt.
func (s *Session) PointerDown(c grid.Coord) (ok bool, err error) {
	err = s.withAttempt(func(a *Attempt) error {
		ok, err = a.PointerDown(c)
		return err
	})
	return ok, err
}

// PointerMove extends the current gesture.
func (s *Session) PointerMove(c grid.Coord) (ok bool, err error) {
	err = s.withAttempt(func(a *Attempt) error {
		ok, err = a.PointerMove(c)
		return err
	})
	return ok, err
}

// PointerUp finishes the current gesture.
func (s *Session) PointerUp() (p Play, err error) {
	err = s.withAttempt(func(a *Attempt) error {
		p, err = a.PointerUp()
		s.emitPlay(a, p)
		return err
	})
	return p, err
}

// Trace plays a whole gesture.
func (s *Session) Trace(path []grid.Coord) (p Play, err error) {
	err = s.withAttempt(func(a *Attempt) error {
		p, err = a.Trace(path)
		s.emitPlay(a, p)
		return err
	})
	return p, err
}

// Hint spends a hint on the current attempt.
func (s *Session) Hint() (h Hint, err error) {
	err = s.withAttempt(func(a *Attempt) error {
		h, err = a.Hint()
		return err
	})
	return h, err
}

// OpenDictionary pauses the current attempt's countdown.
func (s *Session) OpenDictionary() error {
	return s.withAttempt(func(a *Attempt) error { return a.OpenDictionary() })
}

// CloseDictionary resumes the current attempt's countdown.
func (s *Session) CloseDictionary() error {
	return s.withAttempt(func(a *Attempt) error { return a.CloseDictionary() })
}

// Abandon gives up the current attempt.
func (s *Session) Abandon() error {
	return s.withAttempt(func(a *Attempt) error { return a.Abandon() })
}

// Snapshot returns the current attempt's projection.
func (s *Session) Snapshot() (snap Snapshot, err error) {
	err = s.withAttempt(func(a *Attempt) error {
		snap = a.Snapshot()
		return nil
	})
	return snap, err
}

// Subscribe returns a channel of session events and a function that ends
// the subscription. Slow subscribers lose events rather than block play.
func (s *Session) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Event, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Close stops the tick loop, abandons a running attempt and closes all
// subscriptions. Calls after Close fail with ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	var sum *Summary
	defer func() {
		s.mu.Unlock()
		s.record(sum)
	}()
	if s.closed {
		return
	}
	if s.current != nil && !s.current.Outcome().Ended() {
		s.current.Abandon()
		sum = s.finish(s.current)
	}
	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.closed = true
}

func (s *Session) emitPlay(a *Attempt, p Play) {
	if !p.Result.Valid || p.Result.Word == nil {
		return
	}
	s.emit(a, EventWordFound, WordFoundPayload{
		Word:    p.Result.Word.Text,
		Points:  p.Result.Word.Points,
		Score:   p.Score,
		Message: p.Result.Message,
	})
}

// emit fans an event out without blocking. Caller holds s.mu.
func (s *Session) emit(a *Attempt, t EventType, payload any) {
	ev := Event{
		Type:      t,
		SessionID: s.ID,
		AttemptID: a.ID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.logger.Debug().Int("subscriber", id).Str("event", string(t)).Msg("subscriber full, dropping event")
		}
	}
}

func (s *Session) touch() { s.lastSeen = time.Now() }
