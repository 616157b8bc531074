package display

import (
	"errors"
	"fmt"
	"log"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"

	"github.com/MatthiasKunnen/slock/pkg/keysym"
)

const pointerEventMask = xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion

// X11 implements Conn on top of an X11 connection.
type X11 struct {
	conn   *xgb.Conn
	setup  *xproto.SetupInfo
	randr  bool
	keymap keymap

	gcs     map[int]xproto.Gcontext
	swapped map[*Image][]byte
}

// OpenX11 connects to the X server name, or to $DISPLAY when name is empty.
// It loads the keyboard mapping and detects the RandR extension.
func OpenX11(name string) (*X11, error) {
	conn, err := xgb.NewConnDisplay(name)
	if err != nil {
		return nil, fmt.Errorf("cannot open display: %w", err)
	}

	x := &X11{
		conn:    conn,
		setup:   xproto.Setup(conn),
		gcs:     make(map[int]xproto.Gcontext),
		swapped: make(map[*Image][]byte),
	}

	if err := x.loadKeymap(); err != nil {
		conn.Close()
		return nil, err
	}

	x.randr = randr.Init(conn) == nil

	return x, nil
}

func (x *X11) ScreenCount() int {
	return len(x.setup.Roots)
}

func (x *X11) ScreenChangeSupported() bool {
	return x.randr
}

func (x *X11) screen(n int) (*xproto.ScreenInfo, error) {
	if n < 0 || n >= len(x.setup.Roots) {
		return nil, fmt.Errorf("screen %d does not exist", n)
	}

	return &x.setup.Roots[n], nil
}

func (x *X11) CreateLockWindow(screen int, background uint32) (LockWindow, error) {
	scr, err := x.screen(screen)
	if err != nil {
		return LockWindow{}, err
	}

	wid, err := xproto.NewWindowId(x.conn)
	if err != nil {
		return LockWindow{}, fmt.Errorf("failed to allocate window id: %w", err)
	}

	err = xproto.CreateWindowChecked(
		x.conn,
		scr.RootDepth,
		wid,
		scr.Root,
		0, 0,
		scr.WidthInPixels, scr.HeightInPixels,
		0,
		xproto.WindowClassInputOutput,
		scr.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect,
		[]uint32{background, 1},
	).Check()
	if err != nil {
		return LockWindow{}, fmt.Errorf("failed to create window: %w", err)
	}

	cursor, err := x.invisibleCursor(wid)
	if err != nil {
		return LockWindow{}, err
	}

	err = xproto.ChangeWindowAttributesChecked(x.conn, wid, xproto.CwCursor, []uint32{uint32(cursor)}).Check()
	if err != nil {
		return LockWindow{}, fmt.Errorf("failed to set cursor: %w", err)
	}

	geom, err := xproto.GetGeometry(x.conn, xproto.Drawable(wid)).Reply()
	if err != nil {
		return LockWindow{}, fmt.Errorf("failed to get window geometry: %w", err)
	}

	return LockWindow{
		Window: Window(wid),
		Root:   Window(scr.Root),
		Cursor: Cursor(cursor),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// invisibleCursor creates a cursor whose source and mask are an all-zero 8x8 bitmap.
func (x *X11) invisibleCursor(w xproto.Window) (xproto.Cursor, error) {
	pix, err := xproto.NewPixmapId(x.conn)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate pixmap id: %w", err)
	}
	if err := xproto.CreatePixmapChecked(x.conn, 1, pix, xproto.Drawable(w), 8, 8).Check(); err != nil {
		return 0, fmt.Errorf("failed to create cursor bitmap: %w", err)
	}
	defer xproto.FreePixmap(x.conn, pix)

	gc, err := xproto.NewGcontextId(x.conn)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate gc id: %w", err)
	}
	err = xproto.CreateGCChecked(x.conn, gc, xproto.Drawable(pix), xproto.GcForeground, []uint32{0}).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create cursor gc: %w", err)
	}
	xproto.PolyFillRectangle(x.conn, xproto.Drawable(pix), gc, []xproto.Rectangle{{Width: 8, Height: 8}})
	xproto.FreeGC(x.conn, gc)

	cursor, err := xproto.NewCursorId(x.conn)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate cursor id: %w", err)
	}
	err = xproto.CreateCursorChecked(x.conn, cursor, pix, pix, 0, 0, 0, 0, 0, 0, 0, 0).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create cursor: %w", err)
	}

	return cursor, nil
}

func (x *X11) GrabPointer(w LockWindow) (GrabStatus, error) {
	reply, err := xproto.GrabPointer(
		x.conn,
		false,
		xproto.Window(w.Root),
		pointerEventMask,
		xproto.GrabModeAsync,
		xproto.GrabModeAsync,
		xproto.WindowNone,
		xproto.Cursor(w.Cursor),
		xproto.TimeCurrentTime,
	).Reply()
	if err != nil {
		return 0, fmt.Errorf("GrabPointer: %w", err)
	}

	return GrabStatus(reply.Status), nil
}

func (x *X11) GrabKeyboard(w LockWindow) (GrabStatus, error) {
	reply, err := xproto.GrabKeyboard(
		x.conn,
		true,
		xproto.Window(w.Root),
		xproto.TimeCurrentTime,
		xproto.GrabModeAsync,
		xproto.GrabModeAsync,
	).Reply()
	if err != nil {
		return 0, fmt.Errorf("GrabKeyboard: %w", err)
	}

	return GrabStatus(reply.Status), nil
}

func (x *X11) MapRaised(w Window) error {
	err := xproto.ConfigureWindowChecked(
		x.conn,
		xproto.Window(w),
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove},
	).Check()
	if err != nil {
		return fmt.Errorf("failed to raise window: %w", err)
	}

	if err := xproto.MapWindowChecked(x.conn, xproto.Window(w)).Check(); err != nil {
		return fmt.Errorf("failed to map window: %w", err)
	}

	return nil
}

// Raise is sent unchecked; it runs for every foreign event and errors surface through
// NextEvent.
func (x *X11) Raise(w Window) error {
	xproto.ConfigureWindow(x.conn, xproto.Window(w), xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})

	return nil
}

func (x *X11) WatchRoot(root Window) error {
	err := xproto.ChangeWindowAttributesChecked(
		x.conn,
		xproto.Window(root),
		xproto.CwEventMask,
		[]uint32{xproto.EventMaskSubstructureNotify},
	).Check()
	if err != nil {
		return fmt.Errorf("failed to select root events: %w", err)
	}

	return nil
}

func (x *X11) SelectScreenChange(w Window) error {
	if !x.randr {
		return errors.New("RandR is not available")
	}

	err := randr.SelectInputChecked(x.conn, xproto.Window(w), randr.NotifyMaskScreenChange).Check()
	if err != nil {
		return fmt.Errorf("failed to select RandR events: %w", err)
	}

	return nil
}

func (x *X11) Resize(w Window, width, height int) error {
	err := xproto.ConfigureWindowChecked(
		x.conn,
		xproto.Window(w),
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(width), uint32(height)},
	).Check()
	if err != nil {
		return fmt.Errorf("failed to resize window: %w", err)
	}

	return nil
}

func (x *X11) ClearWindow(w Window) error {
	return x.ClearArea(w, 0, 0, 0, 0)
}

func (x *X11) ClearArea(w Window, posX, posY, width, height int) error {
	xproto.ClearArea(x.conn, false, xproto.Window(w), int16(posX), int16(posY), uint16(width), uint16(height))

	return nil
}

func (x *X11) PutImage(screen int, w Window, img *Image, posX, posY int) error {
	scr, err := x.screen(screen)
	if err != nil {
		return err
	}
	if scr.RootDepth != 24 && scr.RootDepth != 32 {
		return fmt.Errorf("unsupported depth %d", scr.RootDepth)
	}

	gc, err := x.gc(screen, scr)
	if err != nil {
		return err
	}

	xproto.PutImage(
		x.conn,
		xproto.ImageFormatZPixmap,
		xproto.Drawable(w),
		gc,
		uint16(img.Width), uint16(img.Height),
		int16(posX), int16(posY),
		0,
		scr.RootDepth,
		x.imageData(img),
	)

	return nil
}

// gc returns the graphics context for screen, creating it on first use.
func (x *X11) gc(n int, scr *xproto.ScreenInfo) (xproto.Gcontext, error) {
	if gc, ok := x.gcs[n]; ok {
		return gc, nil
	}

	gc, err := xproto.NewGcontextId(x.conn)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate gc id: %w", err)
	}
	if err := xproto.CreateGCChecked(x.conn, gc, xproto.Drawable(scr.Root), 0, nil).Check(); err != nil {
		return 0, fmt.Errorf("failed to create gc: %w", err)
	}
	x.gcs[n] = gc

	return gc, nil
}

// imageData returns img's pixels in the server's image byte order.
func (x *X11) imageData(img *Image) []byte {
	if x.setup.ImageByteOrder != xproto.ImageOrderMSBFirst {
		return img.Data
	}
	if data, ok := x.swapped[img]; ok {
		return data
	}

	data := make([]byte, len(img.Data))
	for i := 0; i+3 < len(img.Data); i += 4 {
		data[i], data[i+1], data[i+2], data[i+3] = img.Data[i+3], img.Data[i+2], img.Data[i+1], img.Data[i]
	}
	x.swapped[img] = data

	return data
}

func (x *X11) Bell(percent int) error {
	xproto.Bell(x.conn, int8(percent))

	return nil
}

func (x *X11) Sync() error {
	if _, err := xproto.GetInputFocus(x.conn).Reply(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	return nil
}

// NextEvent returns the next event. X protocol errors for earlier unchecked requests are logged
// and skipped; they never end the event stream.
func (x *X11) NextEvent() (Event, error) {
	for {
		ev, xerr := x.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			return nil, ErrClosed
		}
		if xerr != nil {
			log.Printf("X error: %v", xerr)
			continue
		}

		switch e := ev.(type) {
		case xproto.KeyPressEvent:
			sym := x.keymap.lookup(e.Detail, e.State)
			return KeyPress{Keysym: sym, State: e.State, Text: keysym.Text(sym, e.State)}, nil
		case xproto.KeyReleaseEvent:
			return KeyRelease{}, nil
		case randr.ScreenChangeNotifyEvent:
			return ScreenChange{
				Window:   Window(e.RequestWindow),
				Rotation: Rotation(e.Rotation),
				Width:    int(e.Width),
				Height:   int(e.Height),
			}, nil
		case xproto.MappingNotifyEvent:
			if err := x.loadKeymap(); err != nil {
				log.Printf("Failed to reload keyboard mapping: %v", err)
			}
			return Other{Name: "MappingNotify"}, nil
		default:
			return Other{Name: fmt.Sprintf("%T", ev)}, nil
		}
	}
}

func (x *X11) Close() error {
	x.conn.Close()

	return nil
}
