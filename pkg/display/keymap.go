package display

import (
	"fmt"

	"github.com/jezek/xgb/xproto"

	"github.com/MatthiasKunnen/slock/pkg/keysym"
)

// keymap is the server's keycode to keysym table.
type keymap struct {
	min        xproto.Keycode
	perKeycode int
	syms       []keysym.Keysym
	// numLock and modeSwitch are the modifier bits Num_Lock and Mode_switch are bound to, 0 if
	// none.
	numLock    uint16
	modeSwitch uint16
}

func (k *keymap) keysyms(code xproto.Keycode) []keysym.Keysym {
	if code < k.min || k.perKeycode == 0 {
		return nil
	}
	start := int(code-k.min) * k.perKeycode
	if start+k.perKeycode > len(k.syms) {
		return nil
	}

	return k.syms[start : start+k.perKeycode]
}

// lookup returns the keysym code produces under state. Without XKB the second group is selected
// by the Mode_switch modifier instead of the group bits.
func (k *keymap) lookup(code xproto.Keycode, state uint16) keysym.Keysym {
	if k.modeSwitch != 0 && state&k.modeSwitch != 0 && keysym.Group(state) == 0 {
		state = keysym.WithGroup(state, 1)
	}

	return keysym.Select(k.keysyms(code), state, k.numLock)
}

func (x *X11) loadKeymap() error {
	minCode, maxCode := x.setup.MinKeycode, x.setup.MaxKeycode

	mapping, err := xproto.GetKeyboardMapping(x.conn, minCode, byte(maxCode-minCode+1)).Reply()
	if err != nil {
		return fmt.Errorf("failed to get keyboard mapping: %w", err)
	}

	km := keymap{
		min:        minCode,
		perKeycode: int(mapping.KeysymsPerKeycode),
		syms:       make([]keysym.Keysym, len(mapping.Keysyms)),
	}
	for i, sym := range mapping.Keysyms {
		km.syms[i] = keysym.Keysym(sym)
	}

	mods, err := xproto.GetModifierMapping(x.conn).Reply()
	if err != nil {
		return fmt.Errorf("failed to get modifier mapping: %w", err)
	}
	km.numLock = modifierMask(&km, mods.Keycodes, int(mods.KeycodesPerModifier), keysym.NumLock)
	km.modeSwitch = modifierMask(&km, mods.Keycodes, int(mods.KeycodesPerModifier), keysym.ModeSwitch)

	x.keymap = km

	return nil
}

// modifierMask finds the modifier whose keycodes include target.
func modifierMask(km *keymap, codes []xproto.Keycode, perModifier int, target keysym.Keysym) uint16 {
	for mod := 0; mod < 8; mod++ {
		if (mod+1)*perModifier > len(codes) {
			break
		}
		for _, code := range codes[mod*perModifier : (mod+1)*perModifier] {
			for _, sym := range km.keysyms(code) {
				if sym == target {
					return 1 << mod
				}
			}
		}
	}

	return 0
}
