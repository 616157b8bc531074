package screenlock

import (
	"log"

	"github.com/MatthiasKunnen/slock/pkg/display"
)

// Reconfigure applies a screen change to the lock owning ev.Window and reports whether one did.
//
// For quarter-turn rotations the reported width becomes the window height and vice versa.
// The window is resized and cleared; the status overlay reappears on the next state change.
// The grab is not touched.
func (s *Session) Reconfigure(ev display.ScreenChange) bool {
	for i := range s.locks {
		l := &s.locks[i]
		if l.Window != ev.Window {
			continue
		}

		width, height := ev.Width, ev.Height
		if ev.Rotation.QuarterTurn() {
			width, height = height, width
		}

		if err := s.conn.Resize(l.Window, width, height); err != nil {
			log.Printf("Screen %d: %v", l.Screen, err)
		}
		l.Width, l.Height = width, height

		if err := s.conn.ClearWindow(l.Window); err != nil {
			log.Printf("Screen %d: failed to clear window: %v", l.Screen, err)
		}

		return true
	}

	return false
}
