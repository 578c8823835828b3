// Package span resolves the styled spans of a text for rendering.
//
// Rendering depends only on the current text and the pattern set: spans are
// re-matched from scratch on every call and ID-backed tokens play no part.
package span

import (
	"strings"

	"github.com/yaklabco/tokenedit/pkg/pattern"
	"github.com/yaklabco/tokenedit/pkg/token"
)

// Span is a styled, non-overlapping range of a text.
type Span struct {
	Start int
	End   int
	Key   string
	Style any
	Rank  int
}

// Segment is a piece of text ready to paint. Styled segments come from a
// span; unstyled ones fill the gaps between spans.
type Segment struct {
	Start  int
	End    int
	Text   string
	Key    string
	Style  any
	Styled bool
}

// Resolve returns the spans of text ordered by start. Overlaps are settled
// exactly as for token collection.
func Resolve(text string, set *pattern.Set) []Span {
	// Collection can only fail on ID-backed tokens, and none are passed.
	tokens, _ := token.Collect(text, set, nil)
	if len(tokens) == 0 {
		return nil
	}

	spans := make([]Span, 0, len(tokens))
	for _, tok := range tokens {
		def, _ := set.Get(tok.Key)
		spans = append(spans, Span{
			Start: tok.Start,
			End:   tok.End,
			Key:   tok.Key,
			Style: def.Style,
			Rank:  tok.Rank,
		})
	}
	return spans
}

// Segments resolves the spans of text and fills the gaps with unstyled
// segments. Joining the result reproduces text exactly.
func Segments(text string, set *pattern.Set) []Segment {
	return Fill(text, Resolve(text, set))
}

// Fill turns spans ordered by start into a gap-free segment list covering
// text. Spans overlapping an earlier one or falling outside the text are
// skipped.
func Fill(text string, spans []Span) []Segment {
	runes := []rune(text)
	segments := make([]Segment, 0, 2*len(spans)+1)
	pos := 0

	plain := func(end int) {
		if end > pos {
			segments = append(segments, Segment{Start: pos, End: end, Text: string(runes[pos:end])})
			pos = end
		}
	}

	for _, sp := range spans {
		if sp.Start < pos || sp.End > len(runes) || sp.Start >= sp.End {
			continue
		}
		plain(sp.Start)
		segments = append(segments, Segment{
			Start:  sp.Start,
			End:    sp.End,
			Text:   string(runes[sp.Start:sp.End]),
			Key:    sp.Key,
			Style:  sp.Style,
			Styled: true,
		})
		pos = sp.End
	}
	plain(len(runes))

	return segments
}

// Join concatenates the text of segments.
func Join(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}
