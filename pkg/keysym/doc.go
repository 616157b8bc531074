// Package keysym classifies X11 keysyms and turns them into text.
//
// It covers the subset of core-protocol keyboard semantics a password prompt needs: choosing
// the keysym for a modifier state, telling function and keypad keys apart from characters, and
// producing the UTF-8 text a key press types.
package keysym
