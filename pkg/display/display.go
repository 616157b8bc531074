package display

import (
	"errors"
	"fmt"

	"github.com/MatthiasKunnen/slock/pkg/keysym"
)

// ErrClosed is returned by Conn.NextEvent once the connection to the display server is gone.
var ErrClosed = errors.New("display connection closed")

// Window identifies a window on the display server.
type Window uint32

// Cursor identifies a cursor on the display server.
type Cursor uint32

// GrabStatus is the outcome of a pointer or keyboard grab request.
type GrabStatus byte

const (
	GrabSuccess GrabStatus = iota
	GrabAlreadyGrabbed
	GrabInvalidTime
	GrabNotViewable
	GrabFrozen
)

func (s GrabStatus) String() string {
	switch s {
	case GrabSuccess:
		return "success"
	case GrabAlreadyGrabbed:
		return "already grabbed"
	case GrabInvalidTime:
		return "invalid time"
	case GrabNotViewable:
		return "not viewable"
	case GrabFrozen:
		return "frozen"
	}

	return fmt.Sprintf("status %d", byte(s))
}

// Rotation is a RandR rotation bit.
type Rotation uint16

const (
	Rotate0   Rotation = 1 << 0
	Rotate90  Rotation = 1 << 1
	Rotate180 Rotation = 1 << 2
	Rotate270 Rotation = 1 << 3
)

// QuarterTurn reports whether r swaps the horizontal and vertical axes.
func (r Rotation) QuarterTurn() bool {
	return r&(Rotate90|Rotate270) != 0
}

// Image is a ZPixmap image with 32 bits per pixel in BGRX byte order.
type Image struct {
	Width  int
	Height int
	Data   []byte
}

// LockWindow is a freshly created, not yet mapped, lock window.
type LockWindow struct {
	Window Window
	Root   Window
	// Cursor is the invisible cursor shown while the pointer is grabbed.
	Cursor Cursor
	Width  int
	Height int
}

// Event is one item of the display event stream.
type Event interface {
	event()
}

// KeyPress is a key press with its keysym already chosen for the modifier state.
type KeyPress struct {
	Keysym keysym.Keysym
	// State is the modifier state at the time of the press.
	State uint16
	// Text is what the key types, nil for keys that type nothing.
	Text []byte
}

// KeyRelease is a key release.
type KeyRelease struct{}

// ScreenChange reports new geometry for the screen of Window.
// Width and Height are given in the unrotated orientation.
type ScreenChange struct {
	Window   Window
	Rotation Rotation
	Width    int
	Height   int
}

// Other is any event the locker has no specific handling for. Name is for diagnostics only.
type Other struct {
	Name string
}

func (KeyPress) event()     {}
func (KeyRelease) event()   {}
func (ScreenChange) event() {}
func (Other) event()        {}

// Conn is a connection to a display server.
// Conn is used from a single goroutine.
type Conn interface {
	// ScreenCount returns the number of screens. Screens are numbered from 0.
	ScreenCount() int

	// ScreenChangeSupported reports whether screen-change notifications are available.
	ScreenChangeSupported() bool

	// CreateLockWindow creates an unmapped override-redirect window covering screen, filled
	// with background (0xRRGGBB) and showing an invisible cursor.
	CreateLockWindow(screen int, background uint32) (LockWindow, error)

	// GrabPointer tries to grab the pointer to the root of w.
	// The error is non-nil only if the request itself failed.
	GrabPointer(w LockWindow) (GrabStatus, error)

	// GrabKeyboard tries to grab the keyboard to the root of w.
	GrabKeyboard(w LockWindow) (GrabStatus, error)

	// MapRaised maps w on top of the stacking order.
	MapRaised(w Window) error

	// Raise moves w to the top of the stacking order.
	Raise(w Window) error

	// WatchRoot subscribes to structure changes of the children of root, so windows that map
	// above the lock produce events.
	WatchRoot(root Window) error

	// SelectScreenChange subscribes w to screen-change notifications.
	SelectScreenChange(w Window) error

	Resize(w Window, width, height int) error

	// ClearWindow repaints all of w with its background.
	ClearWindow(w Window) error

	// ClearArea repaints the given region of w with its background.
	ClearArea(w Window, x, y, width, height int) error

	// PutImage draws img onto w of screen at x, y.
	PutImage(screen int, w Window, img *Image, x, y int) error

	// Bell rings the bell at the given volume percentage.
	Bell(percent int) error

	// Sync flushes outstanding requests and waits until the server processed them.
	Sync() error

	// NextEvent blocks until the next event arrives. It returns ErrClosed once the connection
	// is lost.
	NextEvent() (Event, error)

	Close() error
}
