package game

import (
	"errors"
	"fmt"
)

// Sentinel errors for the submission pipeline. Handlers map these onto wire
// status codes; everything else is an internal failure.
var (
	// ErrNotFound means the match id is unknown. Fatal, never retried.
	ErrNotFound = errors.New("match not found")
	// ErrNotActive means the match is still waiting or already finished.
	ErrNotActive = errors.New("match is not active")
	// ErrWrongTurn is the anti-cheat rejection for out-of-turn submissions.
	ErrWrongTurn = errors.New("not your turn")
	// ErrNotParticipant means the caller is not a player in the match.
	ErrNotParticipant = errors.New("not a participant in this match")
	// ErrConcurrencyConflict means the optimistic write lost the race and the
	// whole submission may be retried from a fresh read.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
	// ErrVersionConflict is returned by stores when the expected row version
	// no longer matches. The engine retries and eventually surfaces
	// ErrConcurrencyConflict.
	ErrVersionConflict = errors.New("row version conflict")
)

// IllegalActionError is a rule violation with a human-readable reason. The
// proposed action is rejected and the state is left untouched.
type IllegalActionError struct {
	Reason string
}

func (e *IllegalActionError) Error() string {
	return "illegal action: " + e.Reason
}

func illegalf(format string, args ...any) error {
	return &IllegalActionError{Reason: fmt.Sprintf(format, args...)}
}

// IsIllegalAction reports whether err is a rule rejection.
func IsIllegalAction(err error) bool {
	var ia *IllegalActionError
	return errors.As(err, &ia)
}
