package screenlock

import (
	"github.com/MatthiasKunnen/slock/pkg/display"
)

// LockState is the lock of a single screen.
type LockState struct {
	Screen int
	Window display.Window
	Root   display.Window
	Width  int
	Height int

	Idle   *display.Image
	Typing *display.Image
	Error  *display.Image
}

// VisualState is what the status overlay shows.
type VisualState int

const (
	StateIdle VisualState = iota
	StateTyping
	StateFailed
)

func (v VisualState) String() string {
	switch v {
	case StateTyping:
		return "typing"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// visualStateFor derives the overlay state from the buffer length, the sticky failure flag and
// the fail-on-clear option.
func visualStateFor(length int, failed, failOnClear bool) VisualState {
	switch {
	case length > 0:
		return StateTyping
	case failed || failOnClear:
		return StateFailed
	default:
		return StateIdle
	}
}
