package token

import (
	"cmp"
	"slices"

	"github.com/yaklabco/tokenedit/pkg/pattern"
)

// IDToken is a token bound to an application-supplied identifier.
type IDToken struct {
	// Start is the rune offset where the token begins (inclusive).
	Start int `json:"start"`

	// End is the rune offset where the token ends (exclusive).
	End int `json:"end"`

	// Key is the key of the owning pattern.
	Key string `json:"key"`

	// ID is the stable identifier (e.g. a user ID for a mention).
	ID string `json:"id"`

	// Label is a display label; defaults to the token's visible text.
	Label string `json:"label,omitempty"`
}

// Range returns the token's range.
func (t IDToken) Range() pattern.Range {
	return pattern.Range{Start: t.Start, End: t.End}
}

// Registry owns the ID-backed tokens of one buffer. Every operation is
// linear in the number of tokens, which stays small next to the text.
// Registry is not safe for concurrent use.
type Registry struct {
	tokens []IDToken
}

// NewRegistry creates a registry holding tokens.
func NewRegistry(tokens ...IDToken) *Registry {
	return &Registry{tokens: slices.Clone(tokens)}
}

// Len returns the number of tokens.
func (r *Registry) Len() int {
	return len(r.tokens)
}

// Insert appends tok. Identifiers are not deduplicated.
func (r *Registry) Insert(tok IDToken) {
	r.tokens = append(r.tokens, tok)
}

// Shift moves every token starting at or after pivot by delta.
func (r *Registry) Shift(pivot, delta int) {
	if delta == 0 {
		return
	}
	for i := range r.tokens {
		if r.tokens[i].Start >= pivot {
			r.tokens[i].Start += delta
			r.tokens[i].End += delta
		}
	}
}

// RemoveInRange removes tokens fully contained in [start, end). Tokens that
// only straddle a boundary are kept. The removed tokens are returned.
func (r *Registry) RemoveInRange(start, end int) []IDToken {
	return r.removeIf(func(tok IDToken) bool {
		return tok.Range().Within(start, end)
	})
}

// RemoveOverlapping removes tokens whose text would be damaged by replacing
// [start, end): tokens inside the range or straddling either boundary. For
// an empty range this is any token whose interior contains start.
func (r *Registry) RemoveOverlapping(start, end int) []IDToken {
	if start == end {
		return r.removeIf(func(tok IDToken) bool {
			return tok.Range().Contains(start)
		})
	}
	return r.removeIf(func(tok IDToken) bool {
		rng := tok.Range()
		return rng.Overlaps(start, end) || rng.Within(start, end)
	})
}

// Remove deletes the first token spanning exactly [start, end) with the
// given identifier and reports whether one was found.
func (r *Registry) Remove(start, end int, id string) bool {
	for i, tok := range r.tokens {
		if tok.Start == start && tok.End == end && tok.ID == id {
			r.tokens = slices.Delete(r.tokens, i, i+1)
			return true
		}
	}
	return false
}

// Prune removes tokens that no longer fit in a text of the given length
// and returns them.
func (r *Registry) Prune(length int) []IDToken {
	return r.removeIf(func(tok IDToken) bool {
		return !tok.Range().Valid(length)
	})
}

// Snapshot returns a copy of the tokens ordered by start offset.
func (r *Registry) Snapshot() []IDToken {
	out := slices.Clone(r.tokens)
	slices.SortStableFunc(out, func(a, b IDToken) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return out
}

func (r *Registry) removeIf(pred func(IDToken) bool) []IDToken {
	var removed []IDToken
	kept := r.tokens[:0]
	for _, tok := range r.tokens {
		if pred(tok) {
			removed = append(removed, tok)
			continue
		}
		kept = append(kept, tok)
	}
	clear(r.tokens[len(kept):])
	r.tokens = kept
	return removed
}
