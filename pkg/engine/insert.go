package engine

import (
	"fmt"
	"unicode/utf8"

	"github.com/yaklabco/tokenedit/pkg/edit"
	"github.com/yaklabco/tokenedit/pkg/pattern"
	"github.com/yaklabco/tokenedit/pkg/token"
)

// InsertOption configures InsertToken.
type InsertOption func(*insertConfig)

type insertConfig struct {
	id    string
	label string
}

// WithTokenID binds the inserted text to id, creating an ID-backed token.
func WithTokenID(id string) InsertOption {
	return func(c *insertConfig) {
		c.id = id
	}
}

// WithTokenLabel sets the label of the ID-backed token. It defaults to the
// inserted text and is ignored without WithTokenID.
func WithTokenLabel(label string) InsertOption {
	return func(c *insertConfig) {
		c.label = label
	}
}

// InsertToken inserts visible at the caret on behalf of the application,
// typically when the user picks an autocomplete suggestion.
//
// For a pattern with a trigger, a partially typed handle around the caret
// (such as "@al" for '@') is replaced as a whole. The caret ends up after
// the inserted text. With WithTokenID the inserted text becomes an
// ID-backed token.
//
// An unknown key wraps ErrUnknownPattern and leaves the buffer unchanged.
func (e *Engine) InsertToken(key, visible string, opts ...InsertOption) (edit.State, error) {
	def, ok := e.set.Get(key)
	if !ok {
		return e.state, fmt.Errorf("insert token: %w: %q", ErrUnknownPattern, key)
	}

	var cfg insertConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	prev := e.state
	runes := []rune(prev.Text)
	caret := prev.Caret()

	target := pattern.Range{Start: caret, End: caret}
	if def.HasTrigger() {
		if handle, found := token.ActiveHandle(prev.Text, caret, def.Trigger); found {
			target = handle
		}
	}

	text := edit.Splice(prev.Text, target.Start, target.End, visible)
	length := utf8.RuneCountInString(visible)

	removed := e.registry.RemoveInRange(target.Start, target.End)
	removed = append(removed, e.registry.RemoveOverlapping(target.Start, target.End)...)
	e.registry.Shift(target.End, length-target.Len())

	if cfg.id != "" && length > 0 {
		label := cfg.label
		if label == "" {
			label = visible
		}
		e.registry.Insert(token.IDToken{
			Start: target.Start,
			End:   target.Start + length,
			Key:   key,
			ID:    cfg.id,
			Label: label,
		})
	}

	st := edit.State{Text: text, Selection: edit.Collapsed(target.Start + length)}

	e.logger.Debug("inserted token",
		"key", key,
		"start", target.Start,
		"end", target.End,
		"id", cfg.id,
	)

	e.commit(st)
	e.notify(e.deletions(nil, removed, runes))

	return st, nil
}
