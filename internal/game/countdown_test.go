package game

import "testing"

func TestCountdownTicks(t *testing.T) {
	c := NewCountdown(3)
	if c.Tick() || c.Remaining() != 2 {
		t.Fatalf("after one tick remaining = %d", c.Remaining())
	}
	c.Tick()
	if !c.Tick() {
		t.Fatal("third tick should expire the countdown")
	}
	if c.Remaining() != 0 {
		t.Fatalf("remaining = %d", c.Remaining())
	}
}

func TestCountdownPauseResume(t *testing.T) {
	c := NewCountdown(5)
	if !c.Pause() || c.State() != ClockPaused {
		t.Fatalf("pause failed, state %s", c.State())
	}
	for i := 0; i < 10; i++ {
		if c.Tick() {
			t.Fatal("paused countdown must not expire")
		}
	}
	if c.Remaining() != 5 {
		t.Fatalf("paused ticks changed remaining to %d", c.Remaining())
	}
	if c.Pause() {
		t.Fatal("pausing twice should be a no-op")
	}
	if !c.Resume() || c.State() != ClockRunning {
		t.Fatal("resume failed")
	}
	c.Tick()
	if c.Remaining() != 4 {
		t.Fatalf("remaining = %d", c.Remaining())
	}
}

func TestCountdownStopIsPermanent(t *testing.T) {
	c := NewCountdown(5)
	c.Stop()
	if c.Resume() || c.Pause() {
		t.Fatal("stopped countdown cannot be resumed or paused")
	}
	c.Tick()
	if c.State() != ClockStopped || c.Remaining() != 5 {
		t.Fatalf("state %s remaining %d", c.State(), c.Remaining())
	}
}

func TestClockTransitions(t *testing.T) {
	tests := []struct {
		from, to ClockState
		want     bool
	}{
		{ClockRunning, ClockPaused, true},
		{ClockRunning, ClockStopped, true},
		{ClockPaused, ClockRunning, true},
		{ClockPaused, ClockStopped, true},
		{ClockStopped, ClockRunning, false},
		{ClockStopped, ClockPaused, false},
		{ClockRunning, ClockRunning, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
