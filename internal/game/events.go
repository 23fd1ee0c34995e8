package game

import "time"

// EventType names a session event.
type EventType string

const (
	EventAttemptStarted EventType = "attempt_started"
	EventTick           EventType = "tick"
	EventWordFound      EventType = "word_found"
	EventAttemptEnded   EventType = "attempt_ended"
)

// Event is pushed to session subscribers.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"sessionId"`
	AttemptID string    `json:"attemptId,omitempty"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TickPayload carries the countdown after each second.
type TickPayload struct {
	Remaining int        `json:"remaining"`
	Clock     ClockState `json:"clock"`
}

// WordFoundPayload is sent for every accepted word.
type WordFoundPayload struct {
	Word    string `json:"word"`
	Points  int    `json:"points"`
	Score   int    `json:"score"`
	Message string `json:"message"`
}

// EndedPayload summarises a finished attempt.
type EndedPayload struct {
	Outcome       Outcome `json:"outcome"`
	Score         int     `json:"score"`
	PrimaryFound  int     `json:"primaryFound"`
	MinWords      int     `json:"minWords"`
	TargetScore   int     `json:"targetScore"`
	Elapsed       int     `json:"elapsed"`
	HighestPassed int     `json:"highestPassed"`
}
