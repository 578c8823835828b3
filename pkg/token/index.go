package token

import (
	"cmp"
	"slices"

	"github.com/rdleal/intervalst/interval"
)

// Index answers position and range queries over a resolved token list
// using an interval tree.
type Index struct {
	tree *interval.MultiValueSearchTree[Token, int]
}

// NewIndex indexes tokens. Empty tokens are ignored.
func NewIndex(tokens []Token) *Index {
	tree := interval.NewMultiValueSearchTree[Token](func(a, b int) int {
		return cmp.Compare(a, b)
	})

	for _, tok := range tokens {
		if tok.Len() > 0 {
			tree.Insert(tok.Start, tok.End, tok)
		}
	}

	return &Index{tree: tree}
}

// Containing returns the token whose interior strictly contains pos.
// A position on a token boundary is not inside that token.
func (ix *Index) Containing(pos int) (Token, bool) {
	// The tree reports intersections with closed bounds; widen the query
	// and apply the strict test here.
	found, ok := ix.tree.AllIntersections(pos-1, pos+1)
	if !ok {
		return Token{}, false
	}
	for _, tok := range found {
		if tok.Range().Contains(pos) {
			return tok, true
		}
	}
	return Token{}, false
}

// Overlapping returns the tokens sharing at least one rune with
// [start, end), ordered by start.
func (ix *Index) Overlapping(start, end int) []Token {
	if start >= end {
		return nil
	}

	found, ok := ix.tree.AllIntersections(start-1, end+1)
	if !ok {
		return nil
	}

	var out []Token
	for _, tok := range found {
		if tok.Range().Overlaps(start, end) {
			out = append(out, tok)
		}
	}
	slices.SortFunc(out, func(a, b Token) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return out
}
