package edit

import "github.com/yaklabco/tokenedit/pkg/pattern"

// Kind classifies a change between two states.
type Kind uint8

const (
	// Neutral covers selection-only moves, same-length replacements, and
	// states with invalid selections. No token logic applies.
	Neutral Kind = iota

	// Insertion means the text grew.
	Insertion

	// Deletion means the text shrank.
	Deletion
)

func (k Kind) String() string {
	switch k {
	case Insertion:
		return "insertion"
	case Deletion:
		return "deletion"
	default:
		return "neutral"
	}
}

// Change is the result of Classify.
type Change struct {
	Kind Kind

	// Caret is the insertion point in the previous text (Insertion only).
	Caret int

	// Inserted is the inserted text (Insertion only).
	Inserted string

	// Start and End bound the deleted range in the previous text (Deletion only).
	Start int
	End   int
}

// Range returns the deleted range of a Deletion.
func (c Change) Range() pattern.Range {
	return pattern.Range{Start: c.Start, End: c.End}
}

// Classify compares the previous state to the next one, assuming the host
// made a single change. A text that only grew is an insertion at the
// previous caret; a text that only shrank is a deletion of the previous
// selection, or of the runes between the two carets.
//
// Same-length replacements are not diffed and come back Neutral.
func Classify(prev, next State) Change {
	if !prev.Selection.Valid() || !next.Selection.Valid() {
		return Change{Kind: Neutral}
	}

	oldLen, newLen := prev.Len(), next.Len()

	switch {
	case newLen > oldLen:
		caret := pattern.ClampInt(prev.Selection.Base, 0, oldLen)
		runes := []rune(next.Text)
		return Change{
			Kind:     Insertion,
			Caret:    caret,
			Inserted: string(runes[caret : caret+newLen-oldLen]),
		}

	case newLen < oldLen:
		return classifyDeletion(prev, next, oldLen, newLen)

	default:
		return Change{Kind: Neutral}
	}
}

func classifyDeletion(prev, next State, oldLen, newLen int) Change {
	if !prev.Selection.IsCollapsed() {
		rng := pattern.Range{Start: prev.Selection.Start(), End: prev.Selection.End()}.Clamp(oldLen)
		if !rng.IsEmpty() {
			return Change{Kind: Deletion, Start: rng.Start, End: rng.End}
		}
	}

	oldCaret := pattern.ClampInt(prev.Selection.Base, 0, oldLen)
	newCaret := pattern.ClampInt(next.Selection.Base, 0, newLen)

	// Backspace: the caret moved left over the removed runes.
	if newCaret < oldCaret {
		return Change{Kind: Deletion, Start: newCaret, End: oldCaret}
	}

	// Forward delete: the caret stayed and runes after it went away.
	end := min(oldCaret+oldLen-newLen, oldLen)
	return Change{Kind: Deletion, Start: oldCaret, End: end}
}
