package pattern_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tokenedit/pkg/pattern"
)

func TestMarkdownMatcher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		kinds []pattern.MarkdownKind
		text  string
		want  []pattern.Range
	}{
		{
			name:  "code span",
			kinds: []pattern.MarkdownKind{pattern.MarkdownCodeSpan},
			text:  "run `go build` now",
			want:  []pattern.Range{{Start: 4, End: 14}},
		},
		{
			name:  "strong",
			kinds: []pattern.MarkdownKind{pattern.MarkdownStrong},
			text:  "a **bold** move",
			want:  []pattern.Range{{Start: 2, End: 10}},
		},
		{
			name:  "emphasis",
			kinds: []pattern.MarkdownKind{pattern.MarkdownEmphasis},
			text:  "an *em* word",
			want:  []pattern.Range{{Start: 3, End: 7}},
		},
		{
			name:  "kind filter",
			kinds: []pattern.MarkdownKind{pattern.MarkdownCodeSpan},
			text:  "**bold** only",
			want:  nil,
		},
		{
			name: "all kinds by default",
			text: "`x` and *y*",
			want: []pattern.Range{{Start: 0, End: 3}, {Start: 8, End: 11}},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := pattern.Markdown(tt.kinds...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Match(tt.text))
		})
	}
}

func TestMarkdown_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := pattern.Markdown("table")
	require.Error(t, err)
}

func TestLexerMatcher(t *testing.T) {
	t.Parallel()

	m, err := pattern.Lexer("go", "comment")
	require.NoError(t, err)

	text := "x := 1 /* note */ + 2"
	got := m.Match(text)
	require.Len(t, got, 1)
	assert.Equal(t, "/* note */", string([]rune(text)[got[0].Start:got[0].End]))
}

func TestLexerMatcher_CRLF(t *testing.T) {
	t.Parallel()

	m, err := pattern.Lexer("go", "string")
	require.NoError(t, err)

	text := "a := 1\r\nb := 2\r\nc := \"str\"\r\n"
	got := m.Match(text)
	require.Len(t, got, 1)
	assert.Equal(t, pattern.Range{Start: 21, End: 26}, got[0])
	assert.Equal(t, `"str"`, string([]rune(text)[got[0].Start:got[0].End]))
}

func TestLexerMatcher_Auto(t *testing.T) {
	t.Parallel()

	m, err := pattern.Lexer(pattern.LanguageAuto, "comment")
	require.NoError(t, err)
	assert.Equal(t, pattern.LanguageAuto, m.Language())

	text := "package main\n\n/* doc */\nfunc main() {}\n"
	got := m.Match(text)
	require.NotEmpty(t, got)
	assert.Equal(t, "/* doc */", string([]rune(text)[got[0].Start:got[0].End]))
}

func TestLexer_Errors(t *testing.T) {
	t.Parallel()

	_, err := pattern.Lexer("go")
	require.Error(t, err, "categories are required")

	_, err = pattern.Lexer("go", "decorator")
	require.Error(t, err)

	_, err = pattern.Lexer("no-such-language-xyz", "comment")
	require.Error(t, err)
}
