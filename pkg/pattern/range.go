// Package pattern defines matchers, pattern definitions, and the ordered
// pattern set that recognises tokens in a text buffer.
//
// All offsets are rune offsets into the text. Ranges are half-open: [Start, End).
package pattern

// Range is a half-open span of rune offsets: [Start, End).
type Range struct {
	// Start is the rune offset where the range begins (inclusive).
	Start int

	// End is the rune offset where the range ends (exclusive).
	End int
}

// Len returns the number of runes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range covers no runes.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether pos lies strictly inside the range,
// i.e. Start < pos < End. Positions on either boundary are outside.
func (r Range) Contains(pos int) bool {
	return r.Start < pos && pos < r.End
}

// Overlaps reports whether [start, end) shares at least one rune with r.
func (r Range) Overlaps(start, end int) bool {
	return start < r.End && end > r.Start
}

// Within reports whether r lies entirely inside [start, end).
func (r Range) Within(start, end int) bool {
	return r.Start >= start && r.End <= end
}

// Valid reports whether 0 <= Start <= End <= length.
func (r Range) Valid(length int) bool {
	return r.Start >= 0 && r.Start <= r.End && r.End <= length
}

// Clamp returns r with both ends clamped into [0, length].
func (r Range) Clamp(length int) Range {
	start := ClampInt(r.Start, 0, length)
	end := ClampInt(r.End, 0, length)
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}

// ClampInt clamps v into [lo, hi]. If hi < lo, lo is returned.
func ClampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
