// Package display abstracts the window-system operations a screen locker needs: full-screen
// override-redirect windows, exclusive input grabs, image blits and the event stream.
//
// The default implementation, [X11], speaks the X11 protocol through [xgb] and uses the RandR
// extension, when the server offers it, for screen-change notifications.
//
// [xgb]: https://github.com/jezek/xgb
package display
