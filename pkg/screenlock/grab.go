package screenlock

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/MatthiasKunnen/slock/pkg/display"
	"github.com/MatthiasKunnen/slock/pkg/overlay"
)

const (
	DefaultGrabAttempts = 6
	DefaultGrabInterval = 100 * time.Millisecond
)

// grabNotAttempted marks a grab that has not been requested yet.
const grabNotAttempted display.GrabStatus = 0xff

// GrabError reports a screen whose input could not be grabbed.
type GrabError struct {
	Screen   int
	Pointer  display.GrabStatus
	Keyboard display.GrabStatus
}

// Failures returns one message per grab that did not succeed.
func (e *GrabError) Failures() []string {
	var msgs []string
	if e.Pointer != display.GrabSuccess {
		msgs = append(msgs, fmt.Sprintf("unable to grab mouse pointer for screen %d (%s)", e.Screen, e.Pointer))
	}
	if e.Keyboard != display.GrabSuccess {
		msgs = append(msgs, fmt.Sprintf("unable to grab keyboard for screen %d (%s)", e.Screen, e.Keyboard))
	}

	return msgs
}

func (e *GrabError) Error() string {
	return strings.Join(e.Failures(), "; ")
}

// GrabberConfig configures a Grabber.
type GrabberConfig struct {
	// Background is the 0xRRGGBB fill of the lock windows.
	Background uint32
	Overlays   *overlay.Set
	// Attempts defaults to DefaultGrabAttempts.
	Attempts int
	// Interval defaults to DefaultGrabInterval.
	Interval time.Duration
}

// Grabber locks individual screens.
type Grabber struct {
	conn  display.Conn
	cfg   GrabberConfig
	sleep func(time.Duration)
}

func NewGrabber(conn display.Conn, cfg GrabberConfig) *Grabber {
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultGrabAttempts
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultGrabInterval
	}
	if cfg.Overlays == nil {
		cfg.Overlays = &overlay.Set{}
	}

	return &Grabber{conn: conn, cfg: cfg, sleep: time.Sleep}
}

// Lock covers screen with a lock window and grabs the pointer and keyboard.
//
// Each grab is retried while the server reports it as held by another client, up to the
// configured number of attempts. Any other grab status aborts immediately. On failure a
// *GrabError is returned; the window stays unmapped and nothing is released.
func (g *Grabber) Lock(screen int) (LockState, error) {
	lw, err := g.conn.CreateLockWindow(screen, g.cfg.Background)
	if err != nil {
		return LockState{}, fmt.Errorf("screen %d: %w", screen, err)
	}

	pointer, keyboard := grabNotAttempted, grabNotAttempted
	for i := 0; i < g.cfg.Attempts; i++ {
		if pointer != display.GrabSuccess {
			if pointer, err = g.conn.GrabPointer(lw); err != nil {
				return LockState{}, fmt.Errorf("screen %d: %w", screen, err)
			}
		}
		if keyboard != display.GrabSuccess {
			if keyboard, err = g.conn.GrabKeyboard(lw); err != nil {
				return LockState{}, fmt.Errorf("screen %d: %w", screen, err)
			}
		}

		if pointer == display.GrabSuccess && keyboard == display.GrabSuccess {
			return g.activate(screen, lw)
		}

		if !retryable(pointer) || !retryable(keyboard) {
			break
		}

		g.sleep(g.cfg.Interval)
	}

	return LockState{}, &GrabError{Screen: screen, Pointer: pointer, Keyboard: keyboard}
}

func retryable(s display.GrabStatus) bool {
	return s == display.GrabSuccess || s == display.GrabAlreadyGrabbed
}

// activate shows the lock window of a fully grabbed screen.
func (g *Grabber) activate(screen int, lw display.LockWindow) (LockState, error) {
	if err := g.conn.MapRaised(lw.Window); err != nil {
		return LockState{}, fmt.Errorf("screen %d: %w", screen, err)
	}

	if g.conn.ScreenChangeSupported() {
		if err := g.conn.SelectScreenChange(lw.Window); err != nil {
			log.Printf("Screen %d will not follow resizes: %v", screen, err)
		}
	}
	if err := g.conn.WatchRoot(lw.Root); err != nil {
		log.Printf("Screen %d: %v", screen, err)
	}

	state := LockState{
		Screen: screen,
		Window: lw.Window,
		Root:   lw.Root,
		Width:  lw.Width,
		Height: lw.Height,
		Idle:   g.cfg.Overlays.Idle,
		Typing: g.cfg.Overlays.Typing,
		Error:  g.cfg.Overlays.Error,
	}

	if state.Idle != nil {
		x, y := overlay.LogoOrigin(state.Width, state.Height)
		if err := g.conn.PutImage(screen, state.Window, state.Idle, x, y); err != nil {
			log.Printf("Screen %d: failed to draw idle overlay: %v", screen, err)
		}
	}

	return state, nil
}
