package keysym

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Legacy keysym sets whose low byte is the character's code in an ISO 8859 style charset.
var legacyCharsets = map[Keysym]*charmap.Charmap{
	0x100: charmap.ISO8859_2,
	0x200: charmap.ISO8859_3,
	0x300: charmap.ISO8859_4,
	0x500: charmap.ISO8859_6,
	0x600: charmap.KOI8U,
	0x700: charmap.ISO8859_7,
	0xc00: charmap.ISO8859_8,
	0xd00: charmap.Windows874,
}

// Cyrillic 0x6a1-0x6bf, where the keysyms stop following KOI8-U.
var cyrillicExtra = [...]rune{
	'ђ', 'ѓ', 'ё', 'є', 'ѕ', 'і', 'ї', 'ј', 'љ', 'њ', 'ћ', 'ќ', 'ґ', 'ў', 'џ',
	'№',
	'Ђ', 'Ѓ', 'Ё', 'Є', 'Ѕ', 'І', 'Ї', 'Ј', 'Љ', 'Њ', 'Ћ', 'Ќ', 'Ґ', 'Ў', 'Џ',
}

// Greek 0x7a1-0x7bb, the accented letters ISO 8859-7 places elsewhere.
var greekAccented = map[Keysym]rune{
	0x7a1: 'Ά', 0x7a2: 'Έ', 0x7a3: 'Ή', 0x7a4: 'Ί', 0x7a5: 'Ϊ', 0x7a7: 'Ό', 0x7a8: 'Ύ',
	0x7a9: 'Ϋ', 0x7ab: 'Ώ', 0x7ae: '΅', 0x7af: '―',
	0x7b1: 'ά', 0x7b2: 'έ', 0x7b3: 'ή', 0x7b4: 'ί', 0x7b5: 'ϊ', 0x7b6: 'ΐ', 0x7b7: 'ό',
	0x7b8: 'ύ', 0x7b9: 'ϋ', 0x7ba: 'ΰ', 0x7bb: 'ώ',
}

var latin9 = map[Keysym]rune{
	0x13bc: 'Œ', 0x13bd: 'œ', 0x13be: 'Ÿ',
}

// legacyRune converts keysyms from the pre-Unicode sets: Latin 2-4 and 9, Arabic, Cyrillic,
// Greek, Hebrew, Thai and the currency block.
func legacyRune(k Keysym) (rune, bool) {
	switch {
	case k == 0x6a0:
		return 0, false
	case k >= 0x6a1 && k <= 0x6bf:
		return cyrillicExtra[k-0x6a1], true
	case k >= 0x7a0 && k <= 0x7c0:
		r, ok := greekAccented[k]
		return r, ok
	case k >= 0x20a0 && k <= 0x20ac:
		return rune(k), true
	}
	if r, ok := latin9[k]; ok {
		return r, true
	}

	cm, ok := legacyCharsets[k&^0xff]
	if !ok || k&0xff < 0xa0 {
		return 0, false
	}
	r := cm.DecodeByte(byte(k))
	if r == utf8.RuneError {
		return 0, false
	}

	return r, true
}
