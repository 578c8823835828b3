package pattern

import "unicode/utf8"

// Offsets converts byte offsets of a string into rune offsets.
// Matchers built on byte-oriented engines (regexp, goldmark) use it to
// report ranges in the rune coordinates the rest of the engine works in.
type Offsets struct {
	// byteToRune[i] is the rune index of the rune containing byte i.
	// Nil when the text is pure ASCII and the mapping is the identity.
	byteToRune []int
	length     int
}

// NewOffsets indexes text for byte-to-rune conversion.
func NewOffsets(text string) *Offsets {
	offs := &Offsets{length: len(text)}
	if isASCII(text) {
		return offs
	}

	offs.byteToRune = make([]int, len(text)+1)
	runeIdx := 0
	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		for j := range size {
			offs.byteToRune[i+j] = runeIdx
		}
		i += size
		runeIdx++
	}
	offs.byteToRune[len(text)] = runeIdx

	return offs
}

// Rune returns the rune offset for a byte offset. Offsets in the middle of
// a multi-byte rune map to that rune's start. Out-of-range values are clamped.
func (o *Offsets) Rune(byteOff int) int {
	byteOff = ClampInt(byteOff, 0, o.length)
	if o.byteToRune == nil {
		return byteOff
	}
	return o.byteToRune[byteOff]
}

// Range converts a byte range into a rune range.
func (o *Offsets) Range(start, end int) Range {
	return Range{Start: o.Rune(start), End: o.Rune(end)}
}

func isASCII(text string) bool {
	for i := range len(text) {
		if text[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
