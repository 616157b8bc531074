package screenlock

import (
	"fmt"
	"log"

	"github.com/MatthiasKunnen/slock/pkg/display"
)

// Session is the set of locks covering every screen of a display.
// All of its methods must be called from the goroutine that owns the display connection.
type Session struct {
	conn         display.Conn
	locks        []LockState
	screenChange bool
}

// Acquire locks every screen, in order, with g.
//
// Acquisition stops at the first screen that fails and that error is returned. Screens locked
// before it keep their windows and grabs; they are deliberately not released so the display is
// never briefly unlocked while the process exits.
func Acquire(conn display.Conn, g *Grabber) (*Session, error) {
	n := conn.ScreenCount()
	if n == 0 {
		return nil, fmt.Errorf("display has no screens")
	}

	locks := make([]LockState, n)
	var lockErr error
	for s := range locks {
		if locks[s], lockErr = g.Lock(s); lockErr != nil {
			break
		}
	}

	if err := conn.Sync(); err != nil && lockErr == nil {
		lockErr = err
	}
	if lockErr != nil {
		return nil, lockErr
	}

	return &Session{
		conn:         conn,
		locks:        locks,
		screenChange: conn.ScreenChangeSupported(),
	}, nil
}

// Len returns the number of locked screens.
func (s *Session) Len() int {
	return len(s.locks)
}

// Lock returns a copy of the lock of screen i.
func (s *Session) Lock(i int) LockState {
	return s.locks[i]
}

// raiseAll puts every lock window back on top of the stacking order.
func (s *Session) raiseAll() {
	for i := range s.locks {
		if err := s.conn.Raise(s.locks[i].Window); err != nil {
			log.Printf("Failed to raise screen %d: %v", s.locks[i].Screen, err)
		}
	}
}
