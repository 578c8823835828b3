package configloader

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/yaklabco/tokenedit/pkg/config"
	"github.com/yaklabco/tokenedit/pkg/pattern"
)

// Styler turns a named style into the opaque value carried by a pattern
// definition. A nil Styler keeps the style name.
type Styler func(name string, style config.StyleConfig) any

// BuildPatterns compiles the configured patterns into a pattern set, in
// declaration order.
func BuildPatterns(cfg *config.Config, styler Styler) (*pattern.Set, error) {
	if cfg == nil {
		return pattern.NewSet()
	}

	defs := make([]pattern.Definition, 0, len(cfg.Patterns))
	for i, p := range cfg.Patterns {
		matcher, err := buildMatcher(p)
		if err != nil {
			return nil, fmt.Errorf("patterns[%d] (%s): %w", i, p.Key, err)
		}

		trigger, err := parseTrigger(p.Trigger)
		if err != nil {
			return nil, fmt.Errorf("patterns[%d] (%s): %w", i, p.Key, err)
		}

		var style any
		if p.Style != "" {
			style = p.Style
			if styler != nil {
				style = styler(p.Style, cfg.Styles[p.Style])
			}
		}

		defs = append(defs, pattern.Definition{
			Key:     p.Key,
			Matcher: matcher,
			Trigger: trigger,
			Style:   style,
		})
	}

	set, err := pattern.NewSet(defs...)
	if err != nil {
		return nil, fmt.Errorf("build patterns: %w", err)
	}
	return set, nil
}

func buildMatcher(p config.PatternConfig) (pattern.Matcher, error) {
	switch p.Kind {
	case config.KindRegex, "":
		if p.Expr == "" {
			return nil, errors.New("regex pattern needs an expr")
		}
		return pattern.Regexp(p.Expr)

	case config.KindMarkdown:
		kinds := make([]pattern.MarkdownKind, len(p.Kinds))
		for i, k := range p.Kinds {
			kinds[i] = pattern.MarkdownKind(k)
		}
		return pattern.Markdown(kinds...)

	case config.KindLexer:
		language := p.Language
		if language == "" {
			language = pattern.LanguageAuto
		}
		return pattern.Lexer(language, p.Categories...)

	default:
		return nil, fmt.Errorf("unknown pattern kind %q; must be one of: regex, markdown, lexer", p.Kind)
	}
}

func parseTrigger(s string) (rune, error) {
	switch utf8.RuneCountInString(s) {
	case 0:
		return 0, nil
	case 1:
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil
	default:
		return 0, fmt.Errorf("trigger %q must be a single character", s)
	}
}
