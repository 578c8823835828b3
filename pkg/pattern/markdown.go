package pattern

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownKind names an inline Markdown construct recognised by MarkdownMatcher.
type MarkdownKind string

const (
	MarkdownCodeSpan MarkdownKind = "code_span" // `code`
	MarkdownEmphasis MarkdownKind = "emphasis"  // *em* or _em_
	MarkdownStrong   MarkdownKind = "strong"    // **strong** or __strong__
)

// MarkdownMatcher parses the text as CommonMark with goldmark and reports
// the ranges of selected inline constructs, delimiters included.
type MarkdownMatcher struct {
	kinds map[MarkdownKind]bool
	md    goldmark.Markdown
}

// Markdown creates a matcher for the given kinds. With no kinds, every
// supported kind is matched.
func Markdown(kinds ...MarkdownKind) (*MarkdownMatcher, error) {
	if len(kinds) == 0 {
		kinds = []MarkdownKind{MarkdownCodeSpan, MarkdownEmphasis, MarkdownStrong}
	}

	set := make(map[MarkdownKind]bool, len(kinds))
	for _, kind := range kinds {
		switch kind {
		case MarkdownCodeSpan, MarkdownEmphasis, MarkdownStrong:
			set[kind] = true
		default:
			return nil, fmt.Errorf("unknown markdown kind %q", kind)
		}
	}

	return &MarkdownMatcher{kinds: set, md: goldmark.New()}, nil
}

// Match implements Matcher. A matched construct hides anything nested in it,
// so the returned ranges never overlap.
func (m *MarkdownMatcher) Match(src string) []Range {
	if src == "" {
		return nil
	}

	source := []byte(src)
	doc := m.md.Parser().Parse(text.NewReader(source))
	offs := NewOffsets(src)

	var ranges []Range
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		kind, ok := markdownKindOf(node)
		if !ok || !m.kinds[kind] {
			return ast.WalkContinue, nil
		}
		start, end, ok := nodeBounds(node, source)
		if ok && start < end {
			ranges = append(ranges, offs.Range(start, end))
		}
		return ast.WalkSkipChildren, nil
	})

	return ranges
}

func markdownKindOf(node ast.Node) (MarkdownKind, bool) {
	switch n := node.(type) {
	case *ast.CodeSpan:
		return MarkdownCodeSpan, true
	case *ast.Emphasis:
		if n.Level >= 2 {
			return MarkdownStrong, true
		}
		return MarkdownEmphasis, true
	default:
		return "", false
	}
}

// nodeBounds returns the byte range of an inline node including its
// delimiters. Inline goldmark nodes only carry positions on their Text
// descendants, so the range is built bottom-up and widened over delimiters.
func nodeBounds(node ast.Node, source []byte) (int, int, bool) {
	switch n := node.(type) {
	case *ast.Text:
		return n.Segment.Start, n.Segment.Stop, true
	case *ast.CodeSpan:
		start, end, ok := childBounds(n, source)
		if !ok {
			return 0, 0, false
		}
		start, end = widenCodeSpan(source, start, end)
		return start, end, true
	case *ast.Emphasis:
		start, end, ok := childBounds(n, source)
		if !ok {
			return 0, 0, false
		}
		for i := 0; i < n.Level && start > 0 && isEmphasisDelim(source[start-1]); i++ {
			start--
		}
		for i := 0; i < n.Level && end < len(source) && isEmphasisDelim(source[end]); i++ {
			end++
		}
		return start, end, true
	default:
		return childBounds(node, source)
	}
}

func childBounds(node ast.Node, source []byte) (int, int, bool) {
	start, end := -1, -1
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		s, e, ok := nodeBounds(child, source)
		if !ok {
			continue
		}
		if start == -1 || s < start {
			start = s
		}
		if e > end {
			end = e
		}
	}
	return start, end, start >= 0
}

// widenCodeSpan extends [start, end) over the single padding space goldmark
// strips and the backtick runs on both sides.
func widenCodeSpan(source []byte, start, end int) (int, int) {
	if start >= 2 && source[start-1] == ' ' && source[start-2] == '`' {
		start--
	}
	for start > 0 && source[start-1] == '`' {
		start--
	}
	if end+1 < len(source) && source[end] == ' ' && source[end+1] == '`' {
		end++
	}
	for end < len(source) && source[end] == '`' {
		end++
	}
	return start, end
}

func isEmphasisDelim(b byte) bool {
	return b == '*' || b == '_'
}
