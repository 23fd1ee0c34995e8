package game

// ClockState is the countdown's run state.
type ClockState string

const (
	ClockRunning ClockState = "running"
	ClockPaused  ClockState = "paused"  // dictionary open
	ClockStopped ClockState = "stopped" // attempt ended, permanent
)

// CanTransitionTo checks if a transition from s to target is valid
func (s ClockState) CanTransitionTo(target ClockState) bool {
	validTransitions := map[ClockState][]ClockState{
		ClockRunning: {ClockPaused, ClockStopped},
		ClockPaused:  {ClockRunning, ClockStopped},
		ClockStopped: {},
	}
	for _, st := range validTransitions[s] {
		if st == target {
			return true
		}
	}
	return false
}

// Countdown counts whole seconds down to zero.
// Only Tick moves time; the caller decides how often to call it.
type Countdown struct {
	remaining int
	state     ClockState
}

// NewCountdown starts a running countdown of seconds.
func NewCountdown(seconds int) *Countdown {
	return &Countdown{remaining: max(seconds, 0), state: ClockRunning}
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int { return c.remaining }

// State returns the run state.
func (c *Countdown) State() ClockState { return c.state }

// Tick removes one second while running and reports whether time is up.
// Paused and stopped ticks change nothing.
func (c *Countdown) Tick() (expired bool) {
	if c.state != ClockRunning {
		return false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	return c.remaining == 0
}

// Pause freezes the countdown. No-op unless running.
func (c *Countdown) Pause() bool { return c.move(ClockPaused) }

// Resume restarts a paused countdown. No-op unless paused.
func (c *Countdown) Resume() bool { return c.move(ClockRunning) }

// Stop halts the countdown for good.
func (c *Countdown) Stop() { c.move(ClockStopped) }

func (c *Countdown) move(to ClockState) bool {
	if !c.state.CanTransitionTo(to) {
		return false
	}
	c.state = to
	return true
}
