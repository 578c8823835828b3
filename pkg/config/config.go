// Package config defines the configuration types for tokenedit.
// These types are plain data; loading and validation live in internal/configloader.
package config

// PatternKind selects the matching strategy of a configured pattern.
type PatternKind string

const (
	// KindRegex matches a regular expression (Go RE2 syntax).
	KindRegex PatternKind = "regex"

	// KindMarkdown matches inline Markdown constructs.
	KindMarkdown PatternKind = "markdown"

	// KindLexer matches tokens of a source-code lexer by category.
	KindLexer PatternKind = "lexer"
)

// OutputFormat specifies how CLI results are written.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid reports whether the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// PatternConfig declares one pattern. Declaration order in Config.Patterns
// is precedence order.
type PatternConfig struct {
	// Key uniquely identifies the pattern.
	Key string `yaml:"key"`

	// Kind is the matching strategy; defaults to regex.
	Kind PatternKind `yaml:"kind,omitempty"`

	// Expr is the regular expression (regex kind).
	Expr string `yaml:"expr,omitempty"`

	// Kinds lists the Markdown constructs to match (markdown kind).
	Kinds []string `yaml:"kinds,omitempty"`

	// Language is the lexer name or "auto" (lexer kind).
	Language string `yaml:"language,omitempty"`

	// Categories lists the lexer token categories to match (lexer kind).
	Categories []string `yaml:"categories,omitempty"`

	// Trigger is the single character that starts a handle, e.g. "@".
	Trigger string `yaml:"trigger,omitempty"`

	// Style names an entry of Config.Styles.
	Style string `yaml:"style,omitempty"`
}

// StyleConfig describes how a span is painted in the terminal.
type StyleConfig struct {
	Foreground string `yaml:"foreground,omitempty"`
	Background string `yaml:"background,omitempty"`
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
}

// Config is the root configuration structure for tokenedit.
type Config struct {
	// Patterns are the pattern declarations in precedence order.
	Patterns []PatternConfig `yaml:"patterns"`

	// Styles maps style names to terminal styles.
	Styles map[string]StyleConfig `yaml:"styles,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`
}

// NewConfig returns a Config with the default patterns: mentions,
// hashtags and URLs.
func NewConfig() *Config {
	return &Config{
		Patterns: []PatternConfig{
			{Key: "mention", Kind: KindRegex, Expr: `@\w+`, Trigger: "@", Style: "mention"},
			{Key: "hashtag", Kind: KindRegex, Expr: `#\w+`, Trigger: "#", Style: "hashtag"},
			{Key: "url", Kind: KindRegex, Expr: `https?://[^\s]+`, Style: "url"},
		},
		Styles: map[string]StyleConfig{
			"mention": {Foreground: "39", Bold: true},
			"hashtag": {Foreground: "42"},
			"url":     {Foreground: "111", Underline: true},
		},
		LogLevel: "info",
		Format:   FormatText,
	}
}

// Pattern returns the pattern declared under key.
func (c *Config) Pattern(key string) (PatternConfig, bool) {
	if c == nil {
		return PatternConfig{}, false
	}
	for _, p := range c.Patterns {
		if p.Key == key {
			return p, true
		}
	}
	return PatternConfig{}, false
}
