package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/tokenedit/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "patterns[0].expr").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., an undefined style).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownLogLevels lists valid log_level values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks a configuration for errors and warnings. Every pattern
// is compiled, so a valid configuration always builds.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.LogLevel != "" && !knownLogLevels[strings.ToLower(cfg.LogLevel)] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: fmt.Sprintf("invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel),
		})
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, json", cfg.Format),
		})
	}

	validatePatterns(cfg, result)

	return result
}

func validatePatterns(cfg *config.Config, result *ValidationResult) {
	seen := make(map[string]int, len(cfg.Patterns))

	for i, p := range cfg.Patterns {
		field := fmt.Sprintf("patterns[%d]", i)

		if p.Key == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field + ".key",
				Message: "key is required",
			})
		} else if prev, dup := seen[p.Key]; dup {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field + ".key",
				Value:   p.Key,
				Message: fmt.Sprintf("duplicate key %q (first declared at patterns[%d])", p.Key, prev),
			})
		} else {
			seen[p.Key] = i
		}

		if _, err := parseTrigger(p.Trigger); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field + ".trigger",
				Value:   p.Trigger,
				Message: err.Error(),
			})
		}

		if _, err := buildMatcher(p); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Value:   p.Key,
				Message: err.Error(),
			})
		}

		if p.Style != "" {
			if _, ok := cfg.Styles[p.Style]; !ok {
				result.Warnings = append(result.Warnings, ValidationError{
					Field:   field + ".style",
					Value:   p.Style,
					Message: fmt.Sprintf("style %q is not defined; spans will be unstyled", p.Style),
				})
			}
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
