package pattern

import (
	"fmt"
	"regexp"
)

// Matcher finds token candidates in a text.
//
// Implementations must return ranges in ascending order that do not overlap
// each other. Ranges are rune offsets into text. A matcher that finds nothing
// returns nil; matchers never fail at match time.
type Matcher interface {
	Match(text string) []Range
}

// MatcherFunc adapts an ordinary function to the Matcher interface.
type MatcherFunc func(text string) []Range

// Match implements Matcher.
func (f MatcherFunc) Match(text string) []Range {
	return f(text)
}

// RegexpMatcher matches a regular expression (RE2 syntax) against the text.
type RegexpMatcher struct {
	re *regexp.Regexp
}

// Regexp compiles expr into a matcher.
func Regexp(expr string) (*RegexpMatcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", expr, err)
	}
	return &RegexpMatcher{re: re}, nil
}

// MustRegexp is like Regexp but panics if expr does not compile.
func MustRegexp(expr string) *RegexpMatcher {
	m, err := Regexp(expr)
	if err != nil {
		panic(err)
	}
	return m
}

// String returns the source expression.
func (m *RegexpMatcher) String() string {
	return m.re.String()
}

// Match implements Matcher. Empty matches are skipped.
func (m *RegexpMatcher) Match(text string) []Range {
	locs := m.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	offs := NewOffsets(text)
	ranges := make([]Range, 0, len(locs))
	for _, loc := range locs {
		if loc[0] == loc[1] {
			continue
		}
		ranges = append(ranges, offs.Range(loc[0], loc[1]))
	}
	return ranges
}
