package keysym

import (
	"unicode"
	"unicode/utf8"
)

// Keysym is an X11 keysym value.
type Keysym uint32

const (
	NoSymbol Keysym = 0

	Space  Keysym = 0x0020
	Digit0 Keysym = 0x0030
	Digit9 Keysym = 0x0039

	BackSpace  Keysym = 0xff08
	Tab        Keysym = 0xff09
	Clear      Keysym = 0xff0b
	Return     Keysym = 0xff0d
	Escape     Keysym = 0xff1b
	SelectKey  Keysym = 0xff60
	Break      Keysym = 0xff6b
	ModeSwitch Keysym = 0xff7e
	NumLock    Keysym = 0xff7f
	Delete     Keysym = 0xffff

	KPSpace    Keysym = 0xff80
	KPTab      Keysym = 0xff89
	KPEnter    Keysym = 0xff8d
	KPF1       Keysym = 0xff91
	KPF4       Keysym = 0xff94
	KPMultiply Keysym = 0xffaa
	KP0        Keysym = 0xffb0
	KP9        Keysym = 0xffb9
	KPEqual    Keysym = 0xffbd

	F1  Keysym = 0xffbe
	F35 Keysym = 0xffe0

	unicodeOffset  Keysym = 0x01000000
	privateKPFirst Keysym = 0x11000000
	privateKPLast  Keysym = 0x1100ffff
)

// Core protocol modifier bits.
const (
	ShiftMask   uint16 = 1 << 0
	LockMask    uint16 = 1 << 1
	ControlMask uint16 = 1 << 2

	// groupMask holds the XKB keyboard group in a core event state.
	groupMask uint16 = 3 << 13
)

func (k Keysym) IsKeypad() bool {
	return k >= KPSpace && k <= KPEqual
}

func (k Keysym) IsPrivateKeypad() bool {
	return k >= privateKPFirst && k <= privateKPLast
}

func (k Keysym) IsFunction() bool {
	return k >= F1 && k <= F35
}

func (k Keysym) IsMiscFunction() bool {
	return k >= SelectKey && k <= Break
}

func (k Keysym) IsPF() bool {
	return k >= KPF1 && k <= KPF4
}

// Normalize maps keypad Enter to Return and keypad digits to regular digits.
// All other keysyms are returned unchanged.
func Normalize(k Keysym) Keysym {
	switch {
	case k == KPEnter:
		return Return
	case k >= KP0 && k <= KP9:
		return k - KP0 + Digit0
	}

	return k
}

// Ignored reports whether k belongs to a key class that never edits a password: function keys,
// keypad keys that survived Normalize, misc function keys, PF keys and vendor keypad keys.
func Ignored(k Keysym) bool {
	return k.IsFunction() || k.IsKeypad() || k.IsMiscFunction() || k.IsPF() || k.IsPrivateKeypad()
}

// Group returns the keyboard group XKB reports in bits 13 and 14 of state.
func Group(state uint16) int {
	return int(state&groupMask) >> 13
}

// WithGroup returns state with its keyboard group set to g.
func WithGroup(state uint16, g int) uint16 {
	return state&^groupMask | uint16(g&3)<<13
}

// Select picks the keysym for a key with the given keysym list and modifier state, following the
// core protocol rules for groups, Shift, CapsLock and NumLock. Group g lives in columns 2g and
// 2g+1; a key with nothing bound there falls back to the first group.
// numLockMask is the modifier bit NumLock is bound to, or 0.
func Select(syms []Keysym, state uint16, numLockMask uint16) Keysym {
	lower, upper := groupPair(syms, Group(state))
	if lower == NoSymbol && upper == NoSymbol {
		lower, upper = groupPair(syms, 0)
	}
	if upper == NoSymbol {
		lower, upper = convertCase(lower)
	}

	shift := state&ShiftMask != 0
	capsLock := state&LockMask != 0

	switch {
	case numLockMask != 0 && state&numLockMask != 0 && upper.IsKeypad():
		if shift {
			return lower
		}
		return upper
	case !shift && !capsLock:
		return lower
	case !shift && capsLock:
		_, u := convertCase(lower)
		return u
	case capsLock:
		_, u := convertCase(upper)
		return u
	default:
		return upper
	}
}

func groupPair(syms []Keysym, g int) (Keysym, Keysym) {
	var lower, upper Keysym
	if i := 2 * g; i < len(syms) {
		lower = syms[i]
	}
	if i := 2*g + 1; i < len(syms) {
		upper = syms[i]
	}

	return lower, upper
}

// convertCase returns the lowercase and uppercase forms of k. Keysyms without case return
// themselves twice.
func convertCase(k Keysym) (Keysym, Keysym) {
	r, ok := toRune(k)
	if !ok {
		return k, k
	}
	lr, ur := unicode.ToLower(r), unicode.ToUpper(r)
	if lr == ur {
		return k, k
	}

	return fromRune(lr), fromRune(ur)
}

func fromRune(r rune) Keysym {
	if (r >= 0x20 && r <= 0x7e) || (r >= 0xa0 && r <= 0xff) {
		return Keysym(r)
	}

	return unicodeOffset + Keysym(r)
}

// toRune converts the keysyms that produce a character.
func toRune(k Keysym) (rune, bool) {
	switch {
	case (k >= 0x20 && k <= 0x7e) || (k >= 0xa0 && k <= 0xff):
		return rune(k), true
	case k >= unicodeOffset+0x100 && k <= unicodeOffset+0x10ffff:
		return rune(k - unicodeOffset), true
	case k > 0xff && k <= 0x20ff:
		return legacyRune(k)
	case k == KPSpace:
		return ' ', true
	case k >= BackSpace && k <= Clear,
		k == Return,
		k == Escape,
		k == KPTab,
		k == KPEnter,
		k >= KPMultiply && k <= KP9,
		k == KPEqual,
		k == Delete:
		return rune(k & 0x7f), true
	}

	return 0, false
}

// Text returns the UTF-8 text typed by k under the given modifier state, or nil if k types
// nothing. Control folds characters into their control codes the way Xlib does.
func Text(k Keysym, state uint16) []byte {
	r, ok := toRune(k)
	if !ok {
		return nil
	}

	if state&ControlMask != 0 {
		switch {
		case (r >= '@' && r < 0x7f) || r == ' ':
			r &= 0x1f
		case r == '2':
			r = 0
		case r >= '3' && r <= '7':
			r -= '3' - 0x1b
		case r == '8':
			r = 0x7f
		case r == '/':
			r = '_' & 0x1f
		}
	}

	return utf8.AppendRune(nil, r)
}

// IsControl reports whether text starts with a control character.
func IsControl(text []byte) bool {
	r, size := utf8.DecodeRune(text)
	if r == utf8.RuneError && size <= 1 {
		return true
	}

	return unicode.IsControl(r)
}
