// Package token resolves the tokens of a text buffer and tracks ID-backed
// tokens across edits.
//
// Pattern-derived tokens are recomputed from scratch by Collect on every
// call. ID-backed tokens are the only persistent state: they live in a
// Registry and are shifted incrementally as the text around them changes.
package token

import (
	"fmt"

	"github.com/yaklabco/tokenedit/pkg/pattern"
)

// IDRank is the precedence rank of ID-backed tokens. It is lower than any
// declaration index, so ID-backed tokens win ties against pattern matches.
const IDRank = -1

// Token is a resolved, non-overlapping token in a text.
type Token struct {
	// Start is the rune offset where the token begins (inclusive).
	Start int

	// End is the rune offset where the token ends (exclusive).
	End int

	// Key is the key of the owning pattern.
	Key string

	// Rank is the precedence rank: IDRank for ID-backed tokens,
	// otherwise the owning pattern's declaration index.
	Rank int

	// ID is the bound identifier of an ID-backed token; empty otherwise.
	ID string
}

// Range returns the token's range.
func (t Token) Range() pattern.Range {
	return pattern.Range{Start: t.Start, End: t.End}
}

// Len returns the length of the token in runes.
func (t Token) Len() int {
	return t.End - t.Start
}

// Bound reports whether the token is ID-backed.
func (t Token) Bound() bool {
	return t.Rank == IDRank
}

// Slice returns the token's text from runes.
func (t Token) Slice(runes []rune) string {
	r := t.Range().Clamp(len(runes))
	return string(runes[r.Start:r.End])
}

// ConsistencyError reports an ID-backed token whose pattern key is not in
// the pattern set. It means the registry and the pattern set have drifted
// apart; there is no style to fall back on, so collection fails.
type ConsistencyError struct {
	Key string
	ID  string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("id-backed token %q references unknown pattern %q", e.ID, e.Key)
}
