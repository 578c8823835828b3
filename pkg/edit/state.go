// Package edit models the buffer states a host text field submits and
// classifies what changed between two of them.
package edit

import (
	"unicode/utf8"

	"github.com/yaklabco/tokenedit/pkg/pattern"
)

// Selection is a pair of rune offsets. Order does not matter: Base may be
// after Extent. A selection is collapsed (a plain caret) when both are equal.
type Selection struct {
	Base   int `json:"base"`
	Extent int `json:"extent"`
}

// Collapsed returns a caret at pos.
func Collapsed(pos int) Selection {
	return Selection{Base: pos, Extent: pos}
}

// Start returns the smaller offset.
func (s Selection) Start() int {
	return min(s.Base, s.Extent)
}

// End returns the larger offset.
func (s Selection) End() int {
	return max(s.Base, s.Extent)
}

// IsCollapsed reports whether the selection is a plain caret.
func (s Selection) IsCollapsed() bool {
	return s.Base == s.Extent
}

// Valid reports whether both offsets are non-negative. Hosts use negative
// offsets to signal "no selection".
func (s Selection) Valid() bool {
	return s.Base >= 0 && s.Extent >= 0
}

// Clamp returns the selection with both offsets clamped into [0, length].
func (s Selection) Clamp(length int) Selection {
	return Selection{
		Base:   pattern.ClampInt(s.Base, 0, length),
		Extent: pattern.ClampInt(s.Extent, 0, length),
	}
}

// State is the text of a buffer together with its selection.
type State struct {
	Text      string    `json:"text"`
	Selection Selection `json:"selection"`
}

// Len returns the length of the text in runes.
func (s State) Len() int {
	return utf8.RuneCountInString(s.Text)
}

// Caret returns the selection base clamped into the text.
func (s State) Caret() int {
	return pattern.ClampInt(s.Selection.Base, 0, s.Len())
}

// Splice replaces the runes in [start, end) of text with repl. The range is
// clamped to the text first.
func Splice(text string, start, end int, repl string) string {
	runes := []rune(text)
	rng := pattern.Range{Start: start, End: end}.Clamp(len(runes))

	out := make([]rune, 0, len(runes)-rng.Len()+utf8.RuneCountInString(repl))
	out = append(out, runes[:rng.Start]...)
	out = append(out, []rune(repl)...)
	out = append(out, runes[rng.End:]...)
	return string(out)
}
