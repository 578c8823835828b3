package configloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tokenedit/pkg/config"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cfg       *config.Config
		wantField string
		warning   bool
	}{
		{name: "defaults", cfg: config.NewConfig()},
		{name: "nil", cfg: nil},
		{
			name:      "bad log level",
			cfg:       &config.Config{LogLevel: "loud"},
			wantField: "log_level",
		},
		{
			name:      "bad format",
			cfg:       &config.Config{Format: "xml"},
			wantField: "format",
		},
		{
			name:      "missing key",
			cfg:       &config.Config{Patterns: []config.PatternConfig{{Expr: "x"}}},
			wantField: "patterns[0].key",
		},
		{
			name: "duplicate key",
			cfg: &config.Config{Patterns: []config.PatternConfig{
				{Key: "a", Expr: "x"},
				{Key: "a", Expr: "y"},
			}},
			wantField: "patterns[1].key",
		},
		{
			name:      "long trigger",
			cfg:       &config.Config{Patterns: []config.PatternConfig{{Key: "a", Expr: "x", Trigger: "@@"}}},
			wantField: "patterns[0].trigger",
		},
		{
			name:      "regex without expr",
			cfg:       &config.Config{Patterns: []config.PatternConfig{{Key: "a"}}},
			wantField: "patterns[0]",
		},
		{
			name:      "unknown kind",
			cfg:       &config.Config{Patterns: []config.PatternConfig{{Key: "a", Kind: "glob"}}},
			wantField: "patterns[0]",
		},
		{
			name: "unknown markdown kind",
			cfg: &config.Config{Patterns: []config.PatternConfig{
				{Key: "a", Kind: config.KindMarkdown, Kinds: []string{"table"}},
			}},
			wantField: "patterns[0]",
		},
		{
			name: "lexer without categories",
			cfg: &config.Config{Patterns: []config.PatternConfig{
				{Key: "a", Kind: config.KindLexer, Language: "go"},
			}},
			wantField: "patterns[0]",
		},
		{
			name: "undefined style",
			cfg: &config.Config{Patterns: []config.PatternConfig{
				{Key: "a", Expr: "x", Style: "loud"},
			}},
			wantField: "patterns[0].style",
			warning:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := Validate(tt.cfg)

			switch {
			case tt.wantField == "":
				assert.True(t, result.Valid())
				assert.Empty(t, result.Warnings)
			case tt.warning:
				assert.True(t, result.Valid())
				require.Len(t, result.Warnings, 1)
				assert.Equal(t, tt.wantField, result.Warnings[0].Field)
			default:
				require.False(t, result.Valid())
				assert.Equal(t, tt.wantField, result.Errors[0].Field)
			}
		})
	}
}

func TestValidateWithFile(t *testing.T) {
	t.Parallel()

	result := ValidateWithFile(&config.Config{LogLevel: "loud"}, "x.yml")
	require.Len(t, result.Errors, 1)
	assert.Equal(t, `x.yml: log_level: invalid log level "loud"; must be one of: debug, info, warn, error`,
		result.Errors[0].Error())
	assert.Len(t, result.AllMessages(), 1)
}

func TestBuildPatterns(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Patterns = append(cfg.Patterns,
		config.PatternConfig{Key: "code", Kind: config.KindMarkdown, Kinds: []string{"code_span"}},
		config.PatternConfig{Key: "comment", Kind: config.KindLexer, Language: "go", Categories: []string{"comment"}},
	)

	set, err := BuildPatterns(cfg, func(name string, style config.StyleConfig) any {
		return name + ":" + style.Foreground
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"mention", "hashtag", "url", "code", "comment"}, set.Keys())

	mention, ok := set.Get("mention")
	require.True(t, ok)
	assert.Equal(t, '@', mention.Trigger)
	assert.Equal(t, "mention:39", mention.Style)

	code, _ := set.Get("code")
	assert.Nil(t, code.Style)
	assert.False(t, code.HasTrigger())
}

func TestBuildPatterns_NilStylerKeepsName(t *testing.T) {
	t.Parallel()

	set, err := BuildPatterns(config.NewConfig(), nil)
	require.NoError(t, err)

	hashtag, _ := set.Get("hashtag")
	assert.Equal(t, "hashtag", hashtag.Style)
}

func TestBuildPatterns_Errors(t *testing.T) {
	t.Parallel()

	_, err := BuildPatterns(&config.Config{Patterns: []config.PatternConfig{{Key: "x", Expr: "["}}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "patterns[0] (x)")

	_, err = BuildPatterns(&config.Config{Patterns: []config.PatternConfig{
		{Key: "x", Expr: "a"},
		{Key: "x", Expr: "b"},
	}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")

	set, err := BuildPatterns(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}
