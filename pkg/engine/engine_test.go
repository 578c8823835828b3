package engine_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tokenedit/pkg/edit"
	"github.com/yaklabco/tokenedit/pkg/engine"
	"github.com/yaklabco/tokenedit/pkg/pattern"
	"github.com/yaklabco/tokenedit/pkg/token"
)

type recorder struct {
	events []pattern.DeletedToken
}

func (r *recorder) TokenDeleted(info pattern.DeletedToken) {
	r.events = append(r.events, info)
}

func (r *recorder) removed() []string {
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.RemovedText
	}
	return out
}

func testSet(t testing.TB, mentionSink pattern.DeleteNotifier) *pattern.Set {
	t.Helper()

	set, err := pattern.NewSet(
		pattern.Definition{
			Key:       "mention",
			Matcher:   pattern.MustRegexp(`@\w+`),
			Trigger:   '@',
			Style:     "blue",
			OnDeleted: mentionSink,
		},
		pattern.Definition{
			Key:     "hashtag",
			Matcher: pattern.MustRegexp(`#\w+`),
			Trigger: '#',
			Style:   "green",
		},
	)
	require.NoError(t, err)
	return set
}

func newEngine(t testing.TB, text string, caret int, opts ...engine.Option) *engine.Engine {
	t.Helper()

	base := []engine.Option{
		engine.WithText(text),
		engine.WithSelection(edit.Collapsed(caret)),
	}
	return engine.New(testSet(t, nil), append(base, opts...)...)
}

func caretAt(text string, pos int) edit.State {
	return edit.State{Text: text, Selection: edit.Collapsed(pos)}
}

// idText returns the text covered by each ID-backed token, keyed by ID.
func idText(eng *engine.Engine) map[string]string {
	runes := []rune(eng.Text())
	out := make(map[string]string)
	for _, tok := range eng.IDTokens() {
		out[tok.ID] = string(runes[tok.Start:tok.End])
	}
	return out
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	eng := engine.New(testSet(t, nil))

	assert.Empty(t, eng.Text())
	assert.Equal(t, edit.Selection{}, eng.Selection())
	assert.Empty(t, eng.IDTokens())
	assert.Equal(t, 2, eng.Patterns().Len())
}

func TestInsertToken_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		caret     int
		key       string
		visible   string
		opts      []engine.InsertOption
		wantText  string
		wantCaret int
		wantIDs   []token.IDToken
	}{
		{
			name:      "append at caret",
			text:      "Hello ",
			caret:     6,
			key:       "mention",
			visible:   "@alice",
			wantText:  "Hello @alice",
			wantCaret: 12,
		},
		{
			name:      "replace partial handle",
			text:      "Hello @al",
			caret:     9,
			key:       "mention",
			visible:   "@alice",
			wantText:  "Hello @alice",
			wantCaret: 12,
		},
		{
			name:      "bind identifier",
			text:      "Hey ",
			caret:     4,
			key:       "mention",
			visible:   "@bob",
			opts:      []engine.InsertOption{engine.WithTokenID("user_123")},
			wantText:  "Hey @bob",
			wantCaret: 8,
			wantIDs: []token.IDToken{
				{Start: 4, End: 8, Key: "mention", ID: "user_123", Label: "@bob"},
			},
		},
		{
			name:      "explicit label",
			text:      "",
			caret:     0,
			key:       "mention",
			visible:   "@bob",
			opts:      []engine.InsertOption{engine.WithTokenID("u1"), engine.WithTokenLabel("Bob Smith")},
			wantText:  "@bob",
			wantCaret: 4,
			wantIDs: []token.IDToken{
				{Start: 0, End: 4, Key: "mention", ID: "u1", Label: "Bob Smith"},
			},
		},
		{
			name:      "caret in the middle of a handle",
			text:      "hi @sa there",
			caret:     5,
			key:       "mention",
			visible:   "@sam",
			wantText:  "hi @sam there",
			wantCaret: 7,
		},
		{
			name:      "trigger alone",
			text:      "ping @",
			caret:     6,
			key:       "mention",
			visible:   "@eve",
			wantText:  "ping @eve",
			wantCaret: 9,
		},
		{
			name:      "other trigger is not a handle",
			text:      "see #go",
			caret:     7,
			key:       "mention",
			visible:   " @ann",
			wantText:  "see #go @ann",
			wantCaret: 12,
		},
		{
			name:      "out of range caret is clamped",
			text:      "ab",
			caret:     40,
			key:       "hashtag",
			visible:   " #x",
			wantText:  "ab #x",
			wantCaret: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			eng := newEngine(t, tt.text, tt.caret)

			st, err := eng.InsertToken(tt.key, tt.visible, tt.opts...)
			require.NoError(t, err)

			assert.Equal(t, caretAt(tt.wantText, tt.wantCaret), st)
			assert.Equal(t, st, eng.State())
			assert.Equal(t, tt.wantIDs, eng.IDTokens())
		})
	}
}

func TestInsertToken_UnknownPattern(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, "Hello", 5)

	st, err := eng.InsertToken("emoji", ":)")
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrUnknownPattern)
	assert.Equal(t, caretAt("Hello", 5), st)
	assert.Equal(t, caretAt("Hello", 5), eng.State())
}

func TestInsertToken_ShiftsExistingTokens(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, "Hi @bob", 0,
		engine.WithIDTokens(token.IDToken{Start: 3, End: 7, Key: "mention", ID: "u1", Label: "@bob"}),
	)

	_, err := eng.InsertToken("hashtag", "#go ")
	require.NoError(t, err)

	assert.Equal(t, "#go Hi @bob", eng.Text())
	assert.Equal(t, map[string]string{"u1": "@bob"}, idText(eng))
}

func TestInsertToken_ReplacingBoundHandleNotifies(t *testing.T) {
	t.Parallel()

	sink := &recorder{}
	eng := engine.New(testSet(t, sink),
		engine.WithText("@bob"),
		engine.WithIDTokens(token.IDToken{Start: 0, End: 4, Key: "mention", ID: "u1"}),
	)

	_, err := eng.InsertToken("mention", "@bobby", engine.WithTokenID("u2"))
	require.NoError(t, err)

	assert.Equal(t, "@bobby", eng.Text())
	assert.Equal(t, map[string]string{"u2": "@bobby"}, idText(eng))
	require.Len(t, sink.events, 1)
	assert.Equal(t, "u1", sink.events[0].ID)
	assert.Equal(t, "@bob", sink.events[0].RemovedText)
}

func TestSubmit_InsertionInsideToken(t *testing.T) {
	t.Parallel()

	sink := &recorder{}
	eng := newEngine(t, "Hi @alice!", 5, engine.WithDeleteNotifier(sink))

	res, err := eng.Submit(caretAt("Hi @axlice!", 6))
	require.NoError(t, err)

	assert.True(t, res.Rewritten)
	assert.Equal(t, edit.Insertion, res.Change.Kind)
	assert.Equal(t, caretAt("Hi x!", 4), res.State)
	assert.Equal(t, res.State, eng.State())

	require.Len(t, sink.events, 1)
	assert.Equal(t, pattern.DeletedToken{
		RemovedText: "@alice",
		Key:         "mention",
		Matcher:     sink.events[0].Matcher,
		Start:       3,
		End:         9,
	}, sink.events[0])
	assert.NotNil(t, sink.events[0].Matcher)
}

func TestSubmit_InsertionAtTokenBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		caret int
		next  edit.State
	}{
		{name: "before token", caret: 3, next: caretAt("Hi x@alice!", 4)},
		{name: "after token extends it", caret: 9, next: caretAt("Hi @alicex!", 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sink := &recorder{}
			eng := newEngine(t, "Hi @alice!", tt.caret, engine.WithDeleteNotifier(sink))

			res, err := eng.Submit(tt.next)
			require.NoError(t, err)

			assert.False(t, res.Rewritten)
			assert.Equal(t, tt.next, res.State)
			assert.Empty(t, sink.events)
		})
	}
}

func TestSubmit_InsertionInsideBoundToken(t *testing.T) {
	t.Parallel()

	sink := &recorder{}
	eng := newEngine(t, "Hey @bob", 6,
		engine.WithDeleteNotifier(sink),
		engine.WithIDTokens(token.IDToken{Start: 4, End: 8, Key: "mention", ID: "user_123"}),
	)

	res, err := eng.Submit(caretAt("Hey @bxob", 7))
	require.NoError(t, err)

	assert.Equal(t, caretAt("Hey x", 5), res.State)
	assert.Empty(t, eng.IDTokens())
	require.Len(t, sink.events, 1)
	assert.Equal(t, "user_123", sink.events[0].ID)
	assert.Equal(t, "@bob", sink.events[0].RemovedText)
}

func TestSubmit_InsertionRelocatesLaterTokens(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, "#golang @bob", 2,
		engine.WithIDTokens(token.IDToken{Start: 8, End: 12, Key: "mention", ID: "u1"}),
	)

	res, err := eng.Submit(caretAt("#gzolang @bob", 3))
	require.NoError(t, err)

	assert.Equal(t, caretAt("z @bob", 1), res.State)
	assert.Equal(t, []token.IDToken{{Start: 2, End: 6, Key: "mention", ID: "u1"}}, eng.IDTokens())
}

func TestSubmit_InsertionOutsideShiftsTokens(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, "Hi @bob", 0,
		engine.WithIDTokens(token.IDToken{Start: 3, End: 7, Key: "mention", ID: "u1"}),
	)

	res, err := eng.Submit(caretAt("Oh, Hi @bob", 4))
	require.NoError(t, err)

	assert.False(t, res.Rewritten)
	assert.Equal(t, map[string]string{"u1": "@bob"}, idText(eng))
	assert.Equal(t, 7, eng.IDTokens()[0].Start)
}

func TestSubmit_DeletionInsideToken(t *testing.T) {
	t.Parallel()

	sink := &recorder{}
	eng := newEngine(t, "Hi @alice!", 6, engine.WithDeleteNotifier(sink))

	res, err := eng.Submit(caretAt("Hi @aice!", 5))
	require.NoError(t, err)

	assert.True(t, res.Rewritten)
	assert.Equal(t, edit.Deletion, res.Change.Kind)
	assert.Equal(t, caretAt("Hi !", 3), res.State)
	assert.Equal(t, len([]rune("Hi @alice!"))-len("@alice"), res.State.Len())
	assert.Equal(t, []string{"@alice"}, sink.removed())
	assert.Equal(t, 3, sink.events[0].Start)
	assert.Equal(t, 9, sink.events[0].End)
}

func TestSubmit_ForwardDeleteInsideToken(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, "go #tag now", 4)

	res, err := eng.Submit(caretAt("go #ag now", 4))
	require.NoError(t, err)

	assert.Equal(t, caretAt("go  now", 3), res.State)
}

func TestSubmit_DeletionBeforeToken(t *testing.T) {
	t.Parallel()

	sink := &recorder{}
	eng := newEngine(t, "Hello @alice!", 5,
		engine.WithDeleteNotifier(sink),
		engine.WithIDTokens(token.IDToken{Start: 6, End: 12, Key: "mention", ID: "u1"}),
	)

	res, err := eng.Submit(caretAt("Hell @alice!", 4))
	require.NoError(t, err)

	assert.False(t, res.Rewritten)
	assert.Equal(t, caretAt("Hell @alice!", 4), res.State)
	assert.Equal(t, []token.IDToken{{Start: 5, End: 11, Key: "mention", ID: "u1"}}, eng.IDTokens())
	assert.Empty(t, sink.events)
}

func TestSubmit_SelectionDeletionAcrossTokens(t *testing.T) {
	t.Parallel()

	sink := &recorder{}
	eng := newEngine(t, "a @b c #d e", 0,
		engine.WithSelection(edit.Selection{Base: 3, Extent: 8}),
		engine.WithDeleteNotifier(sink),
	)

	res, err := eng.Submit(caretAt("a @d e", 3))
	require.NoError(t, err)

	// Only the touched tokens are cut; " c " survives.
	assert.Equal(t, caretAt("a  c  e", 2), res.State)
	assert.Equal(t, []string{"@b", "#d"}, sink.removed())
	assert.Equal(t, 7, sink.events[1].Start)
}

func TestSubmit_SelectionDeletionStartingBeforeToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		sel     edit.Selection
		next    edit.State
		ids     []token.IDToken
		want    edit.State
		removed []string
		wantIDs []token.IDToken
	}{
		{
			name:    "selection ends inside token",
			text:    "hi @bob",
			sel:     edit.Selection{Base: 0, Extent: 5},
			next:    caretAt("ob", 0),
			want:    caretAt("hi ", 3),
			removed: []string{"@bob"},
		},
		{
			name: "later id token shifts by the token length only",
			text: "hi @bob and @ann",
			sel:  edit.Selection{Base: 1, Extent: 5},
			next: caretAt("hob and @ann", 1),
			ids: []token.IDToken{
				{Start: 3, End: 7, Key: "mention", ID: "b1"},
				{Start: 12, End: 16, Key: "mention", ID: "a1"},
			},
			want:    caretAt("hi  and @ann", 3),
			removed: []string{"@bob"},
			wantIDs: []token.IDToken{{Start: 8, End: 12, Key: "mention", ID: "a1"}},
		},
		{
			name:    "two tokens with text between",
			text:    "x @a y #b z",
			sel:     edit.Selection{Base: 1, Extent: 8},
			next:    caretAt("xb z", 1),
			want:    caretAt("x  y  z", 2),
			removed: []string{"@a", "#b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sink := &recorder{}
			eng := newEngine(t, tt.text, 0,
				engine.WithSelection(tt.sel),
				engine.WithDeleteNotifier(sink),
				engine.WithIDTokens(tt.ids...),
			)

			res, err := eng.Submit(tt.next)
			require.NoError(t, err)

			assert.True(t, res.Rewritten)
			assert.Equal(t, tt.want, res.State)
			assert.Equal(t, tt.removed, sink.removed())
			if tt.wantIDs == nil {
				assert.Empty(t, eng.IDTokens())
			} else {
				assert.Equal(t, tt.wantIDs, eng.IDTokens())
			}
		})
	}
}

func TestSubmit_DeletionCoveringTokenExactly(t *testing.T) {
	t.Parallel()

	sink := &recorder{}
	eng := newEngine(t, "x @b y", 0,
		engine.WithSelection(edit.Selection{Base: 2, Extent: 4}),
		engine.WithDeleteNotifier(sink),
	)

	res, err := eng.Submit(caretAt("x  y", 2))
	require.NoError(t, err)

	assert.False(t, res.Rewritten)
	assert.Equal(t, []string{"@b"}, sink.removed())
}

func TestSubmit_Neutral(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, "Hi @bob", 7,
		engine.WithIDTokens(token.IDToken{Start: 3, End: 7, Key: "mention", ID: "u1"}),
	)

	res, err := eng.Submit(caretAt("Hi @bob", 2))
	require.NoError(t, err)
	assert.Equal(t, edit.Neutral, res.Change.Kind)
	assert.Equal(t, caretAt("Hi @bob", 2), eng.State())

	res, err = eng.Submit(caretAt("Yo @bob", 2))
	require.NoError(t, err)
	assert.Equal(t, edit.Neutral, res.Change.Kind)
	assert.Equal(t, "Yo @bob", eng.Text())
	assert.Equal(t, map[string]string{"u1": "@bob"}, idText(eng))
}

func TestSubmit_NotifierDispatch(t *testing.T) {
	t.Parallel()

	own := &recorder{}
	fallback := &recorder{}
	eng := engine.New(testSet(t, own),
		engine.WithText("@ann #go"),
		engine.WithSelection(edit.Selection{Base: 0, Extent: 8}),
		engine.WithDeleteNotifier(fallback),
	)

	_, err := eng.Submit(caretAt("", 0))
	require.NoError(t, err)

	assert.Equal(t, []string{"@ann"}, own.removed())
	assert.Equal(t, []string{"#go"}, fallback.removed())
}

func TestSubmit_NoNotifier(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, "@ann", 2)

	res, err := eng.Submit(caretAt("@nn", 1))
	require.NoError(t, err)
	assert.Equal(t, caretAt("", 0), res.State)
}

func TestSubmit_ReentrantListener(t *testing.T) {
	t.Parallel()

	var (
		eng    *engine.Engine
		echoes int
	)
	listener := func(st edit.State) {
		echoes++
		res, err := eng.Submit(st)
		require.NoError(t, err)
		assert.Equal(t, st, res.State)
	}

	eng = newEngine(t, "Hi @alice!", 5, engine.WithStateListener(listener))

	res, err := eng.Submit(caretAt("Hi @axlice!", 6))
	require.NoError(t, err)

	assert.Equal(t, 1, echoes)
	assert.Equal(t, caretAt("Hi x!", 4), res.State)
	assert.Equal(t, res.State, eng.State())
}

func TestSubmit_ReentrantSubmitAcceptedVerbatim(t *testing.T) {
	t.Parallel()

	var eng *engine.Engine
	forced := caretAt("forced", 6)
	done := false
	listener := func(edit.State) {
		if done {
			return
		}
		done = true
		res, err := eng.Submit(forced)
		require.NoError(t, err)
		assert.Equal(t, edit.Neutral, res.Change.Kind)
	}

	eng = newEngine(t, "ab", 2, engine.WithStateListener(listener))

	_, err := eng.Submit(caretAt("abc", 3))
	require.NoError(t, err)
	assert.Equal(t, forced, eng.State())
}

func TestSubmit_ReentrantSubmitPrunesIDTokens(t *testing.T) {
	t.Parallel()

	var eng *engine.Engine
	sink := &recorder{}
	done := false
	listener := func(edit.State) {
		if done {
			return
		}
		done = true
		_, err := eng.Submit(caretAt("ab", 2))
		require.NoError(t, err)
	}

	eng = newEngine(t, "Hello @bob", 10,
		engine.WithStateListener(listener),
		engine.WithDeleteNotifier(sink),
		engine.WithIDTokens(token.IDToken{Start: 6, End: 10, Key: "mention", ID: "u1"}),
	)

	_, err := eng.Submit(caretAt("Hello @bob!", 11))
	require.NoError(t, err)

	assert.Equal(t, "ab", eng.Text())
	assert.Empty(t, eng.IDTokens())
	require.Len(t, sink.events, 1)
	assert.Equal(t, "u1", sink.events[0].ID)
}

func TestSubmit_PrunedIDTokensAreNotified(t *testing.T) {
	t.Parallel()

	sink := &recorder{}
	eng := newEngine(t, "Hi @bob", 7,
		engine.WithDeleteNotifier(sink),
		engine.WithIDTokens(token.IDToken{Start: 3, End: 7, Key: "mention", ID: "u1"}),
	)

	// An invalid selection is passed through untouched, so nothing shifts
	// the token and only the prune can drop it.
	res, err := eng.Submit(edit.State{Text: "Hi", Selection: edit.Selection{Base: -1, Extent: -1}})
	require.NoError(t, err)

	assert.Equal(t, edit.Neutral, res.Change.Kind)
	assert.Empty(t, eng.IDTokens())
	require.Len(t, sink.events, 1)
	assert.Equal(t, "u1", sink.events[0].ID)
	assert.Equal(t, "mention", sink.events[0].Key)
}

func TestSubmit_RegistryDrift(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, "@bob", 4,
		engine.WithIDTokens(token.IDToken{Start: 0, End: 4, Key: "ghost", ID: "g1"}),
	)

	_, err := eng.Submit(caretAt("@bob!", 5))
	require.Error(t, err)

	var drift *token.ConsistencyError
	require.True(t, errors.As(err, &drift))
	assert.Equal(t, "ghost", drift.Key)
	assert.Equal(t, caretAt("@bob", 4), eng.State())

	_, err = eng.Tokens()
	assert.Error(t, err)
}

func TestEngine_Queries(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, "hi @bob #go", 0)

	tokens, err := eng.Tokens()
	require.NoError(t, err)
	assert.Equal(t, []token.Token{
		{Start: 3, End: 7, Key: "mention", Rank: 0},
		{Start: 8, End: 11, Key: "hashtag", Rank: 1},
	}, tokens)

	segments := eng.Segments()
	require.Len(t, segments, 4)
	assert.Equal(t, "@bob", segments[1].Text)
	assert.Equal(t, "blue", segments[1].Style)

	other := eng.SegmentsOf("#x")
	require.Len(t, other, 1)
	assert.Equal(t, "hashtag", other[0].Key)
}

// FuzzSubmitPreservesIDTokenText drives the engine through random typing,
// backspacing, range deletion and token insertion, and checks that every
// ID-backed token still covers the text it covered before each edit.
func FuzzSubmitPreservesIDTokenText(f *testing.F) {
	f.Add([]byte{0, 4, 0, 1, 6, 0, 2, 2, 4, 3, 0, 0})
	f.Add([]byte{3, 9, 0, 0, 1, 0, 1, 13, 0})
	f.Add([]byte{2, 0, 30, 3, 3, 3})

	f.Fuzz(func(t *testing.T, ops []byte) {
		eng := newEngine(t, "Hi @bob and #go here", 0,
			engine.WithIDTokens(token.IDToken{Start: 3, End: 7, Key: "mention", ID: "seed"}),
		)

		for i := 0; i+2 < len(ops); i += 3 {
			before := idText(eng)
			text := eng.Text()
			length := len([]rune(text))
			pos := int(ops[i+1]) % (length + 1)

			var err error
			switch ops[i] % 4 {
			case 0:
				_, err = eng.Submit(caretAt(text, pos))
				require.NoError(t, err)
				_, err = eng.Submit(caretAt(edit.Splice(text, pos, pos, "z"), pos+1))
			case 1:
				if pos == 0 {
					continue
				}
				_, err = eng.Submit(caretAt(text, pos))
				require.NoError(t, err)
				_, err = eng.Submit(caretAt(edit.Splice(text, pos-1, pos, ""), pos-1))
			case 2:
				end := min(pos+int(ops[i+2])%5, length)
				if end == pos {
					continue
				}
				_, err = eng.Submit(edit.State{Text: text, Selection: edit.Selection{Base: pos, Extent: end}})
				require.NoError(t, err)
				_, err = eng.Submit(caretAt(edit.Splice(text, pos, end, ""), pos))
			case 3:
				_, err = eng.Submit(caretAt(text, pos))
				require.NoError(t, err)
				_, err = eng.InsertToken("mention", "@x", engine.WithTokenID(fmt.Sprintf("t%d", i)))
			}
			require.NoError(t, err)

			after := idText(eng)
			for id, got := range after {
				if want, ok := before[id]; ok {
					require.Equal(t, want, got, "token %s changed text", id)
				}
			}

			tokens, err := eng.Tokens()
			require.NoError(t, err)
			for j := 1; j < len(tokens); j++ {
				require.LessOrEqual(t, tokens[j-1].End, tokens[j].Start)
			}
		}
	})
}
