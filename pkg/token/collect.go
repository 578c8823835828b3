package token

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/yaklabco/tokenedit/pkg/pattern"
)

// Collect resolves the tokens of text: every pattern match plus every
// ID-backed token, reduced to a non-overlapping list sorted by start.
//
// Overlaps are resolved greedily after sorting by start, then rank, then
// length (longer first): a candidate is kept only if it starts at or after
// the end of the last kept token. Matches that are empty or fall outside
// the text are dropped.
//
// An ID-backed token whose key is not in set yields a *ConsistencyError.
func Collect(text string, set *pattern.Set, ids []IDToken) ([]Token, error) {
	length := utf8.RuneCountInString(text)
	var candidates []Token

	for i := range set.Len() {
		def := set.At(i)
		for _, rng := range def.Matcher.Match(text) {
			if rng.IsEmpty() || !rng.Valid(length) {
				continue
			}
			candidates = append(candidates, Token{
				Start: rng.Start,
				End:   rng.End,
				Key:   def.Key,
				Rank:  i,
			})
		}
	}

	for _, id := range ids {
		if _, ok := set.Index(id.Key); !ok {
			return nil, &ConsistencyError{Key: id.Key, ID: id.ID}
		}
		rng := id.Range()
		if rng.IsEmpty() || !rng.Valid(length) {
			continue
		}
		candidates = append(candidates, Token{
			Start: id.Start,
			End:   id.End,
			Key:   id.Key,
			Rank:  IDRank,
			ID:    id.ID,
		})
	}

	Sort(candidates)
	return Resolve(candidates), nil
}

// Sort orders tokens by start, then rank, then length (longer first).
// This is the precedence order Resolve expects.
func Sort(tokens []Token) {
	slices.SortStableFunc(tokens, func(a, b Token) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Rank, b.Rank); c != 0 {
			return c
		}
		return cmp.Compare(b.Len(), a.Len())
	})
}

// Resolve filters a sorted token slice down to non-overlapping tokens.
// The earliest, highest-precedence, longest candidate at each position wins.
// Tokens must be ordered by Sort before calling.
func Resolve(sorted []Token) []Token {
	if len(sorted) == 0 {
		return nil
	}

	kept := make([]Token, 0, len(sorted))
	lastEnd := 0
	for _, tok := range sorted {
		if tok.Start < lastEnd {
			continue
		}
		kept = append(kept, tok)
		lastEnd = tok.End
	}

	return kept
}
