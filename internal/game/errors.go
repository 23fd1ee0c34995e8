package game

import "errors"

// Controller errors
var (
	ErrAttemptEnded  = errors.New("attempt has ended")
	ErrNoAttempt     = errors.New("no attempt in progress")
	ErrNoHints       = errors.New("no hints remaining")
	ErrNothingToHint = errors.New("all primary words found")
	ErrSessionClosed = errors.New("session closed")
)
