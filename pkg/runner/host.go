package runner

import (
	"github.com/yaklabco/tokenedit/pkg/edit"
	"github.com/yaklabco/tokenedit/pkg/pattern"
)

// propose returns the state a plain text field would produce for step,
// before the engine sees it. Ops that repeat (backspace, delete) are
// proposed one rune at a time by the caller.
func propose(cur edit.State, step Step) edit.State {
	length := cur.Len()
	sel := cur.Selection.Clamp(length)

	switch step.Op {
	case OpType:
		text := edit.Splice(cur.Text, sel.Start(), sel.End(), step.Text)
		caret := sel.Start() + len([]rune(step.Text))
		return edit.State{Text: text, Selection: edit.Collapsed(caret)}

	case OpBackspace, OpDelete:
		if !sel.IsCollapsed() {
			text := edit.Splice(cur.Text, sel.Start(), sel.End(), "")
			return edit.State{Text: text, Selection: edit.Collapsed(sel.Start())}
		}
		caret := sel.Base
		if step.Op == OpBackspace {
			if caret == 0 {
				return cur
			}
			return edit.State{
				Text:      edit.Splice(cur.Text, caret-1, caret, ""),
				Selection: edit.Collapsed(caret - 1),
			}
		}
		if caret == length {
			return cur
		}
		return edit.State{
			Text:      edit.Splice(cur.Text, caret, caret+1, ""),
			Selection: edit.Collapsed(caret),
		}

	case OpMove:
		return edit.State{Text: cur.Text, Selection: edit.Collapsed(pattern.ClampInt(step.Pos, 0, length))}

	case OpSelect:
		return edit.State{
			Text:      cur.Text,
			Selection: edit.Selection{Base: step.Base, Extent: step.Extent}.Clamp(length),
		}

	case OpSet:
		return edit.State{Text: step.Text, Selection: edit.Selection{Base: step.Base, Extent: step.Extent}}

	default:
		return cur
	}
}

// repeat returns how many times a step is proposed.
func repeat(step Step) int {
	switch step.Op {
	case OpBackspace, OpDelete:
		return max(step.Count, 1)
	default:
		return 1
	}
}
