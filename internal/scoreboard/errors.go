package scoreboard

import (
	"errors"
	"fmt"
)

var (
	// ErrGameLocked is matched by every *LockedGameError.
	ErrGameLocked = errors.New("game is locked")
	// ErrPersistenceFailed is matched by every *PersistenceFailedError.
	ErrPersistenceFailed = errors.New("couldn't save, will retry")

	ErrInvalidClock    = errors.New("invalid clock value")
	ErrInvalidValue    = errors.New("invalid value")
	ErrClockExpired    = errors.New("clock has expired")
	ErrUnknownTeam     = errors.New("unknown team")
	ErrSessionClosed   = errors.New("scoreboard session closed")
	ErrSessionNotFound = errors.New("scoreboard session not found")
)

// LockedGameError is returned synchronously when a command targets a locked game.
// No state changes when it is returned.
type LockedGameError struct {
	GameID string
}

func (e *LockedGameError) Error() string {
	return fmt.Sprintf("game %s is locked", e.GameID)
}

func (e *LockedGameError) Unwrap() error { return ErrGameLocked }

// PersistenceFailedError reports a score snapshot the content store rejected.
// Local state is kept; the snapshot stays queued for Drain.
type PersistenceFailedError struct {
	GameID string
	Score  Score
	Err    error
}

func (e *PersistenceFailedError) Error() string {
	return fmt.Sprintf("persist score %d-%d for game %s: %v", e.Score.A, e.Score.B, e.GameID, e.Err)
}

func (e *PersistenceFailedError) Unwrap() []error {
	return []error{ErrPersistenceFailed, e.Err}
}

// IsLocked reports whether err is a locked-game rejection.
func IsLocked(err error) bool {
	return errors.Is(err, ErrGameLocked)
}

// AsPersistenceFailed extracts a *PersistenceFailedError from err.
func AsPersistenceFailed(err error) (*PersistenceFailedError, bool) {
	var pe *PersistenceFailedError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
