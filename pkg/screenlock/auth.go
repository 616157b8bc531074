package screenlock

import (
	"log"

	"github.com/MatthiasKunnen/slock/pkg/display"
	"github.com/MatthiasKunnen/slock/pkg/keysym"
	"github.com/MatthiasKunnen/slock/pkg/overlay"
	"github.com/MatthiasKunnen/slock/pkg/secret"
)

// failureBellPercent is the bell volume for a wrong password.
const failureBellPercent = 100

// Verifier checks a candidate password.
type Verifier interface {
	Match(password []byte) (bool, error)
}

// AuthOptions configures Session.Authenticate.
type AuthOptions struct {
	// FailOnClear shows the failed state whenever the input is cleared, even before any wrong
	// password was entered.
	FailOnClear bool

	// Buffer receives the typed password. When nil, a buffer of secret.DefaultCapacity is
	// allocated and destroyed by Authenticate.
	Buffer *secret.Buffer
}

// authLoop is the state owned by a single Authenticate call.
type authLoop struct {
	session     *Session
	verifier    Verifier
	buf         *secret.Buffer
	failOnClear bool

	// failed is set on the first wrong password and never cleared.
	failed bool
	drawn  VisualState
}

// Authenticate processes display events until a password matching v is entered, and then
// returns nil. It returns an error only when the display connection fails; there is no other
// way out.
func (s *Session) Authenticate(v Verifier, opts AuthOptions) error {
	buf := opts.Buffer
	if buf == nil {
		var err error
		if buf, err = secret.New(secret.DefaultCapacity); err != nil {
			log.Printf("Password buffer is not locked into memory: %v", err)
		}
		defer buf.Destroy()
	}

	loop := &authLoop{
		session:     s,
		verifier:    v,
		buf:         buf,
		failOnClear: opts.FailOnClear,
		drawn:       StateIdle,
	}

	for {
		ev, err := s.conn.NextEvent()
		if err != nil {
			buf.Wipe()
			return err
		}

		switch e := ev.(type) {
		case display.KeyPress:
			if loop.handleKey(e) {
				return nil
			}
		case display.KeyRelease:
		case display.ScreenChange:
			if s.screenChange {
				s.Reconfigure(e)
			} else {
				s.raiseAll()
			}
		default:
			s.raiseAll()
		}
	}
}

// handleKey applies a key press and reports whether it unlocked the session.
func (l *authLoop) handleKey(ev display.KeyPress) bool {
	sym := keysym.Normalize(ev.Keysym)
	if keysym.Ignored(sym) {
		return false
	}

	switch sym {
	case keysym.Return:
		if l.check() {
			return true
		}
		if err := l.session.conn.Bell(failureBellPercent); err != nil {
			log.Printf("Failed to ring bell: %v", err)
		}
		l.failed = true
	case keysym.Escape:
		l.buf.Wipe()
	case keysym.BackSpace:
		l.buf.Backspace()
	default:
		if len(ev.Text) > 0 && !keysym.IsControl(ev.Text) {
			l.buf.Append(ev.Text)
		}
	}

	next := visualStateFor(l.buf.Len(), l.failed, l.failOnClear)
	if next != l.drawn {
		l.session.redraw(next)
		l.drawn = next
	}

	return false
}

// check hashes the buffered password and compares it with the stored hash. The buffer is wiped
// whatever the outcome. A hashing error counts as a mismatch.
func (l *authLoop) check() bool {
	var matched bool
	err := l.buf.Consume(func(password []byte) error {
		ok, err := l.verifier.Match(password)
		matched = ok
		return err
	})
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return false
	}

	return matched
}

// redraw shows v on every screen.
func (s *Session) redraw(v VisualState) {
	for i := range s.locks {
		lock := &s.locks[i]
		x, y := overlay.InfoOrigin(lock.Width, lock.Height)

		var img *display.Image
		switch v {
		case StateTyping:
			img = lock.Typing
		case StateFailed:
			img = lock.Error
		}

		var err error
		if img == nil {
			err = s.conn.ClearArea(lock.Window, x, y, overlay.InfoSize, overlay.InfoSize)
		} else {
			err = s.conn.PutImage(lock.Screen, lock.Window, img, x, y)
		}
		if err != nil {
			log.Printf("Screen %d: failed to draw %s overlay: %v", lock.Screen, v, err)
		}
	}
}
