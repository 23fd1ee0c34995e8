package selection

// State is the tracker's gesture state.
type State string

const (
	Idle     State = "IDLE"     // no gesture in progress
	Tracking State = "TRACKING" // pointer is down, path is being built
)

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from s to target is valid
func (s State) CanTransitionTo(target State) bool {
	validTransitions := map[State][]State{
		Idle:     {Tracking},
		Tracking: {Idle},
	}

	for _, st := range validTransitions[s] {
		if st == target {
			return true
		}
	}
	return false
}
