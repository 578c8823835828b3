package pattern

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/yaklabco/tokenedit/pkg/langdetect"
)

// LanguageAuto asks LexerMatcher to detect the language from the text.
const LanguageAuto = "auto"

// lexerCategories maps category names to chroma token type predicates.
//
//nolint:gochecknoglobals // Read-only lookup table.
var lexerCategories = map[string]func(chroma.TokenType) bool{
	"comment":  func(t chroma.TokenType) bool { return t.InCategory(chroma.Comment) },
	"keyword":  func(t chroma.TokenType) bool { return t.InCategory(chroma.Keyword) },
	"name":     func(t chroma.TokenType) bool { return t.InCategory(chroma.Name) },
	"operator": func(t chroma.TokenType) bool { return t.InCategory(chroma.Operator) },
	"string":   func(t chroma.TokenType) bool { return t.InSubCategory(chroma.LiteralString) },
	"number":   func(t chroma.TokenType) bool { return t.InSubCategory(chroma.LiteralNumber) },
}

// LexerCategories returns the category names accepted by Lexer.
func LexerCategories() []string {
	return []string{"comment", "keyword", "name", "number", "operator", "string"}
}

// LexerMatcher tokenises the text with a chroma lexer and reports the ranges
// of tokens in the selected categories. Adjacent matching tokens merge.
type LexerMatcher struct {
	language string
	lexer    chroma.Lexer
	accept   []func(chroma.TokenType) bool
}

// Lexer creates a matcher for language (a chroma lexer name or alias, or
// LanguageAuto) reporting tokens in the given categories.
func Lexer(language string, categories ...string) (*LexerMatcher, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("lexer %q: no categories given", language)
	}

	m := &LexerMatcher{language: language}
	for _, name := range categories {
		accept, ok := lexerCategories[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("lexer %q: unknown category %q", language, name)
		}
		m.accept = append(m.accept, accept)
	}

	if language != LanguageAuto {
		lexer := lexers.Get(language)
		if lexer == nil {
			return nil, fmt.Errorf("lexer %q: no such language", language)
		}
		m.lexer = chroma.Coalesce(lexer)
	}

	return m, nil
}

// Language returns the configured language.
func (m *LexerMatcher) Language() string {
	return m.language
}

// Match implements Matcher.
func (m *LexerMatcher) Match(text string) []Range {
	if text == "" {
		return nil
	}

	lexer := m.lexer
	if lexer == nil {
		lexer = detectLexer(text)
	}

	// EnsureLF would fold \r\n into \n and shift every later offset.
	iter, err := lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, text)
	if err != nil {
		return nil
	}

	length := utf8.RuneCountInString(text)
	var ranges []Range
	pos := 0
	for _, tok := range iter.Tokens() {
		size := utf8.RuneCountInString(tok.Value)
		start, end := pos, min(pos+size, length)
		pos += size
		if start >= end || !m.accepts(tok.Type) {
			continue
		}
		if n := len(ranges); n > 0 && ranges[n-1].End == start {
			ranges[n-1].End = end
			continue
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}

	return ranges
}

func (m *LexerMatcher) accepts(t chroma.TokenType) bool {
	for _, accept := range m.accept {
		if accept(t) {
			return true
		}
	}
	return false
}

func detectLexer(text string) chroma.Lexer {
	lexer := lexers.Get(langdetect.Detect([]byte(text)))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}
