package configloader

import (
	"maps"

	"github.com/yaklabco/tokenedit/pkg/config"
)

// merge combines two configurations, with override taking precedence:
//   - Scalars: override wins when non-zero
//   - Patterns: override replaces base entirely when non-nil, since their
//     order is their precedence
//   - Styles: merged per name
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Patterns != nil {
		result.Patterns = override.Patterns
	}

	if base.Styles != nil || override.Styles != nil {
		result.Styles = make(map[string]config.StyleConfig, len(base.Styles)+len(override.Styles))
		maps.Copy(result.Styles, base.Styles)
		maps.Copy(result.Styles, override.Styles)
	}

	return &result
}
