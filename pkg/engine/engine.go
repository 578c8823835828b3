// Package engine keeps a text buffer consistent with its tokens while a
// host text field edits it.
//
// The host submits every state change it proposes. Edits that would leave a
// token half-typed or half-deleted are promoted to whole-token edits and the
// rewritten state is handed back; everything else is accepted as proposed.
// The host must treat the returned state as authoritative.
//
// An Engine is single-threaded. It must not be shared between goroutines.
package engine

import (
	"cmp"
	"io"
	"slices"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/tokenedit/pkg/edit"
	"github.com/yaklabco/tokenedit/pkg/pattern"
	"github.com/yaklabco/tokenedit/pkg/span"
	"github.com/yaklabco/tokenedit/pkg/token"
)

// Engine owns one buffer: its text, its selection, and its ID-backed tokens.
type Engine struct {
	set      *pattern.Set
	registry *token.Registry
	state    edit.State

	fallback pattern.DeleteNotifier
	listener func(edit.State)
	logger   *log.Logger

	// applying is set while the engine commits a state it produced itself.
	// Submits arriving then are accepted verbatim.
	applying bool
}

// Result is the outcome of Submit.
type Result struct {
	// State is the state the host must display.
	State edit.State

	// Rewritten reports whether State differs from the submitted state.
	Rewritten bool

	// Change is how the submission was classified.
	Change edit.Change
}

// New creates an engine for the given pattern set with an empty buffer.
func New(set *pattern.Set, opts ...Option) *Engine {
	eng := &Engine{
		set:      set,
		registry: token.NewRegistry(),
		logger:   log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(eng)
	}

	return eng
}

// Patterns returns the engine's pattern set.
func (e *Engine) Patterns() *pattern.Set {
	return e.set
}

// State returns the current buffer state.
func (e *Engine) State() edit.State {
	return e.state
}

// Text returns the current buffer text.
func (e *Engine) Text() string {
	return e.state.Text
}

// Selection returns the current selection.
func (e *Engine) Selection() edit.Selection {
	return e.state.Selection
}

// IDTokens returns the ID-backed tokens of the current state ordered by start.
func (e *Engine) IDTokens() []token.IDToken {
	return e.registry.Snapshot()
}

// Tokens collects the tokens of the current text.
func (e *Engine) Tokens() ([]token.Token, error) {
	return e.collect(e.state.Text)
}

// Segments returns the paint segments of the current text.
func (e *Engine) Segments() []span.Segment {
	return span.Segments(e.state.Text, e.set)
}

// SegmentsOf returns the paint segments of an arbitrary text.
func (e *Engine) SegmentsOf(text string) []span.Segment {
	return span.Segments(text, e.set)
}

func (e *Engine) collect(text string) ([]token.Token, error) {
	return token.Collect(text, e.set, e.registry.Snapshot())
}

// commit installs st as the current state. The state listener runs while
// the applying flag is set, so a host echoing st back through Submit does
// not get it classified a second time.
func (e *Engine) commit(st edit.State) {
	e.applying = true
	defer func() { e.applying = false }()

	e.state = st
	e.prune(st)

	if e.listener != nil {
		e.listener(st)
	}
}

// prune drops ID-backed tokens that no longer fit st and reports them as
// deleted. The removed text is the part of their range st still covers.
func (e *Engine) prune(st edit.State) {
	dropped := e.registry.Prune(utf8.RuneCountInString(st.Text))
	if len(dropped) == 0 {
		return
	}

	e.logger.Warn("dropped id-backed tokens beyond end of text", "count", len(dropped))
	e.notify(e.deletions(nil, dropped, []rune(st.Text)))
}

// notify dispatches deletions in order. A pattern's own notifier takes the
// call; the engine-wide fallback is used only when the pattern has none.
func (e *Engine) notify(deleted []pattern.DeletedToken) {
	for _, info := range deleted {
		def, _ := e.set.Get(info.Key)
		switch {
		case def.OnDeleted != nil:
			def.OnDeleted.TokenDeleted(info)
		case e.fallback != nil:
			e.fallback.TokenDeleted(info)
		default:
			e.logger.Debug("token deleted without notifier", "key", info.Key, "start", info.Start)
		}
	}
}

func (e *Engine) deletedToken(tok token.Token, runes []rune) pattern.DeletedToken {
	def, _ := e.set.Get(tok.Key)
	return pattern.DeletedToken{
		RemovedText: tok.Slice(runes),
		Key:         tok.Key,
		Matcher:     def.Matcher,
		Start:       tok.Start,
		End:         tok.End,
		ID:          tok.ID,
	}
}

// deletions builds the notifications for removed tokens plus any removed
// ID-backed tokens that were not among them, ordered by start.
func (e *Engine) deletions(removed []token.Token, ids []token.IDToken, runes []rune) []pattern.DeletedToken {
	out := make([]pattern.DeletedToken, 0, len(removed)+len(ids))
	for _, tok := range removed {
		out = append(out, e.deletedToken(tok, runes))
	}

	for _, id := range ids {
		if containsID(removed, id) {
			continue
		}
		out = append(out, e.deletedToken(token.Token{
			Start: id.Start,
			End:   id.End,
			Key:   id.Key,
			Rank:  token.IDRank,
			ID:    id.ID,
		}, runes))
	}

	sortDeleted(out)
	return out
}

func containsID(tokens []token.Token, id token.IDToken) bool {
	for _, tok := range tokens {
		if tok.Bound() && tok.ID == id.ID && tok.Start == id.Start && tok.End == id.End {
			return true
		}
	}
	return false
}

func sortDeleted(deleted []pattern.DeletedToken) {
	slices.SortStableFunc(deleted, func(a, b pattern.DeletedToken) int {
		return cmp.Compare(a.Start, b.Start)
	})
}
