package engine

import (
	"unicode/utf8"

	"github.com/yaklabco/tokenedit/pkg/edit"
	"github.com/yaklabco/tokenedit/pkg/pattern"
	"github.com/yaklabco/tokenedit/pkg/token"
)

// Submit intercepts a state proposed by the host and returns the state the
// host must display.
//
// An insertion strictly inside a token replaces the whole token with the
// inserted text. A deletion touching tokens removes every token it touches.
// Other changes pass through, with ID-backed tokens shifted to follow the
// text. Deletion notifications are sent after the new state is committed.
//
// If the ID-backed tokens reference a pattern the set does not have, Submit
// returns the error and leaves the state unchanged.
func (e *Engine) Submit(next edit.State) (Result, error) {
	if e.applying {
		e.state = next
		e.prune(next)
		return Result{State: next}, nil
	}

	prev := e.state
	change := edit.Classify(prev, next)

	e.logger.Debug("classified edit",
		"kind", change.Kind,
		"old_len", prev.Len(),
		"new_len", next.Len(),
	)

	switch change.Kind {
	case edit.Insertion:
		return e.submitInsertion(prev, next, change)
	case edit.Deletion:
		return e.submitDeletion(prev, next, change)
	default:
		e.commit(next)
		return Result{State: next, Change: change}, nil
	}
}

func (e *Engine) submitInsertion(prev, next edit.State, change edit.Change) (Result, error) {
	tokens, err := e.collect(prev.Text)
	if err != nil {
		return Result{State: prev, Change: change}, err
	}

	runes := []rune(prev.Text)
	inserted := utf8.RuneCountInString(change.Inserted)

	tok, inside := token.NewIndex(tokens).Containing(change.Caret)
	if !inside {
		damaged := e.registry.RemoveOverlapping(change.Caret, change.Caret)
		e.registry.Shift(change.Caret, inserted)
		e.commit(next)
		e.notify(e.deletions(nil, damaged, runes))
		return Result{State: next, Change: change}, nil
	}

	text := edit.Splice(prev.Text, tok.Start, tok.End, change.Inserted)
	removed := e.registry.RemoveOverlapping(tok.Start, tok.End)
	e.registry.Shift(tok.End, inserted-tok.Len())

	st := edit.State{Text: text, Selection: edit.Collapsed(tok.Start + inserted)}

	e.logger.Debug("replaced token",
		"key", tok.Key,
		"start", tok.Start,
		"end", tok.End,
		"id", tok.ID,
	)

	e.commit(st)
	e.notify(e.deletions([]token.Token{tok}, removed, runes))

	return Result{State: st, Rewritten: st != next, Change: change}, nil
}

func (e *Engine) submitDeletion(prev, next edit.State, change edit.Change) (Result, error) {
	tokens, err := e.collect(prev.Text)
	if err != nil {
		return Result{State: prev, Change: change}, err
	}

	runes := []rune(prev.Text)
	hits := token.NewIndex(tokens).Overlapping(change.Start, change.End)

	if len(hits) == 0 {
		damaged := e.registry.RemoveOverlapping(change.Start, change.End)
		e.registry.Shift(change.Start, next.Len()-prev.Len())
		e.commit(next)
		e.notify(e.deletions(nil, damaged, runes))
		return Result{State: next, Change: change}, nil
	}

	// Only the touched tokens go. Each cut is made in the text left by the
	// previous one, so later ranges move left by what was already removed.
	text := prev.Text
	var removed []token.IDToken
	offset := 0
	for _, hit := range hits {
		start, end := hit.Start-offset, hit.End-offset
		text = edit.Splice(text, start, end, "")
		removed = append(removed, e.registry.RemoveOverlapping(start, end)...)
		e.registry.Shift(end, -hit.Len())
		offset += hit.Len()
	}

	caret := pattern.ClampInt(hits[0].Start, 0, utf8.RuneCountInString(text))
	st := edit.State{Text: text, Selection: edit.Collapsed(caret)}

	e.logger.Debug("removed tokens",
		"count", len(hits),
		"start", hits[0].Start,
		"end", hits[len(hits)-1].End,
	)

	e.commit(st)
	e.notify(e.deletions(hits, removed, runes))

	return Result{State: st, Rewritten: st != next, Change: change}, nil
}
