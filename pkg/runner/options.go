// Package runner replays edit scripts through the token engine.
//
// A script is a YAML file describing an initial buffer and a sequence of
// host-level edits (typing, backspacing, selecting, inserting tokens). Each
// step is turned into the state a text field would propose and submitted
// to an engine, exactly as a host application would.
package runner

import "github.com/charmbracelet/log"

// Options controls multi-script replay.
type Options struct {
	// Paths are script files or directories holding them.
	// If empty, defaults to the current working directory.
	Paths []string

	// Extensions is the set of script file extensions (lowercase, with
	// leading dot). Defaults to DefaultExtensions().
	Extensions []string

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Logger receives engine debug output. Nil discards it.
	Logger *log.Logger
}

// DefaultExtensions returns the default set of script file extensions.
func DefaultExtensions() []string {
	return []string{".yml", ".yaml"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
