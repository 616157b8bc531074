package lock

import "io"

// Hint is the locked hint of a login session. It tells the rest of the desktop (power
// management, notification daemons, other lockers) that the session is currently locked.
//
// The hint is advisory only. Setting it never locks or unlocks anything by itself.
//
// It is safe to call Hint's methods concurrently.
type Hint interface {

	// GetLocked gets the current hint of the session; true=locked, false=unlocked.
	GetLocked() (bool, error)

	// SetLocked sets the hint of the session; true=locked, false=unlocked.
	SetLocked(locked bool) error

	io.Closer
}
