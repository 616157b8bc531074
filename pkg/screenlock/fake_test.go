package screenlock

import (
	"fmt"

	"github.com/MatthiasKunnen/slock/pkg/display"
)

type call struct {
	op     string
	window display.Window
	args   []int
	img    *display.Image
}

// fakeConn is an in-memory display.Conn. Grab results are scripted per screen; once a script
// runs out its last entry repeats.
type fakeConn struct {
	screens      int
	width        int
	height       int
	screenChange bool

	pointer  map[int][]display.GrabStatus
	keyboard map[int][]display.GrabStatus

	events []display.Event
	calls  []call

	pointerAttempts  map[int]int
	keyboardAttempts map[int]int
}

func newFakeConn(screens int) *fakeConn {
	return &fakeConn{
		screens:          screens,
		width:            1920,
		height:           1080,
		screenChange:     true,
		pointer:          map[int][]display.GrabStatus{},
		keyboard:         map[int][]display.GrabStatus{},
		pointerAttempts:  map[int]int{},
		keyboardAttempts: map[int]int{},
	}
}

func windowOf(screen int) display.Window { return display.Window(100 + screen) }
func rootOf(screen int) display.Window   { return display.Window(1 + screen) }
func screenOf(w display.Window) int {
	if w >= 100 {
		return int(w) - 100
	}
	return int(w) - 1
}

func (f *fakeConn) record(op string, w display.Window, args ...int) {
	f.calls = append(f.calls, call{op: op, window: w, args: args})
}

func (f *fakeConn) ops(op string) []call {
	var out []call
	for _, c := range f.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeConn) resetCalls() { f.calls = nil }

func (f *fakeConn) ScreenCount() int            { return f.screens }
func (f *fakeConn) ScreenChangeSupported() bool { return f.screenChange }

func (f *fakeConn) CreateLockWindow(screen int, background uint32) (display.LockWindow, error) {
	if screen >= f.screens {
		return display.LockWindow{}, fmt.Errorf("no screen %d", screen)
	}
	f.record("create", windowOf(screen), int(background))
	return display.LockWindow{
		Window: windowOf(screen),
		Root:   rootOf(screen),
		Cursor: 7,
		Width:  f.width,
		Height: f.height,
	}, nil
}

func next(script []display.GrabStatus, attempt int) display.GrabStatus {
	if len(script) == 0 {
		return display.GrabSuccess
	}
	if attempt >= len(script) {
		return script[len(script)-1]
	}
	return script[attempt]
}

func (f *fakeConn) GrabPointer(w display.LockWindow) (display.GrabStatus, error) {
	s := screenOf(w.Window)
	st := next(f.pointer[s], f.pointerAttempts[s])
	f.pointerAttempts[s]++
	f.record("grabPointer", w.Root)
	return st, nil
}

func (f *fakeConn) GrabKeyboard(w display.LockWindow) (display.GrabStatus, error) {
	s := screenOf(w.Window)
	st := next(f.keyboard[s], f.keyboardAttempts[s])
	f.keyboardAttempts[s]++
	f.record("grabKeyboard", w.Root)
	return st, nil
}

func (f *fakeConn) MapRaised(w display.Window) error { f.record("mapRaised", w); return nil }
func (f *fakeConn) Raise(w display.Window) error     { f.record("raise", w); return nil }
func (f *fakeConn) WatchRoot(w display.Window) error { f.record("watchRoot", w); return nil }
func (f *fakeConn) SelectScreenChange(w display.Window) error {
	f.record("selectScreenChange", w)
	return nil
}

func (f *fakeConn) Resize(w display.Window, width, height int) error {
	f.record("resize", w, width, height)
	return nil
}

func (f *fakeConn) ClearWindow(w display.Window) error { f.record("clearWindow", w); return nil }

func (f *fakeConn) ClearArea(w display.Window, x, y, width, height int) error {
	f.record("clearArea", w, x, y, width, height)
	return nil
}

func (f *fakeConn) PutImage(screen int, w display.Window, img *display.Image, x, y int) error {
	f.calls = append(f.calls, call{op: "putImage", window: w, args: []int{screen, x, y}, img: img})
	return nil
}

func (f *fakeConn) Bell(percent int) error { f.record("bell", 0, percent); return nil }
func (f *fakeConn) Sync() error            { f.record("sync", 0); return nil }

func (f *fakeConn) NextEvent() (display.Event, error) {
	if len(f.events) == 0 {
		return nil, display.ErrClosed
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, nil
}

func (f *fakeConn) Close() error { return nil }

// fakeVerifier accepts a single password and records every candidate.
type fakeVerifier struct {
	password string
	seen     []string
	err      error
}

func (v *fakeVerifier) Match(p []byte) (bool, error) {
	v.seen = append(v.seen, string(p))
	if v.err != nil {
		return false, v.err
	}
	return string(p) == v.password, nil
}
