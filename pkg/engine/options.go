package engine

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/tokenedit/pkg/edit"
	"github.com/yaklabco/tokenedit/pkg/pattern"
	"github.com/yaklabco/tokenedit/pkg/token"
)

// Option configures an Engine.
type Option func(*Engine)

// WithText sets the initial text with the caret at its end.
func WithText(text string) Option {
	return func(e *Engine) {
		e.state.Text = text
		e.state.Selection = edit.Collapsed(e.state.Len())
	}
}

// WithSelection sets the initial selection. Apply it after WithText.
func WithSelection(sel edit.Selection) Option {
	return func(e *Engine) {
		e.state.Selection = sel
	}
}

// WithIDTokens seeds the registry, for example when restoring a saved
// buffer. Tokens must fit the initial text.
func WithIDTokens(tokens ...token.IDToken) Option {
	return func(e *Engine) {
		for _, tok := range tokens {
			e.registry.Insert(tok)
		}
	}
}

// WithDeleteNotifier sets the fallback notifier for patterns that have none.
func WithDeleteNotifier(n pattern.DeleteNotifier) Option {
	return func(e *Engine) {
		e.fallback = n
	}
}

// WithStateListener registers fn to observe every committed state. The
// listener may push the state back into the host and through Submit.
func WithStateListener(fn func(edit.State)) Option {
	return func(e *Engine) {
		e.listener = fn
	}
}

// WithLogger sets the logger used for debug tracing. The default discards.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
