// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldInput  = "input"
	FieldOutput = "output"
	FieldFormat = "format"

	// Configuration fields.
	FieldConfig   = "config"
	FieldPatterns = "patterns"
	FieldWarning  = "warning"

	// Edit fields.
	FieldKey   = "key"
	FieldID    = "id"
	FieldStart = "start"
	FieldEnd   = "end"
	FieldKind  = "kind"
	FieldStep  = "step"
	FieldCount = "count"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
