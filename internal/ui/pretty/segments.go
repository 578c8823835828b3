package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/tokenedit/pkg/edit"
	"github.com/yaklabco/tokenedit/pkg/span"
)

const caretMarker = "|"

// RenderSegments paints styled segments with their lipgloss style. Segments
// whose style is not a lipgloss.Style, and every segment when color is
// disabled, are written as plain text.
func (s *Styles) RenderSegments(segments []span.Segment) string {
	var builder strings.Builder
	for _, seg := range segments {
		builder.WriteString(s.renderSegment(seg))
	}
	return builder.String()
}

// RenderState renders segments of state.Text with a caret marker at the
// collapsed selection, or brackets around a non-collapsed one.
func (s *Styles) RenderState(state edit.State, segments []span.Segment) string {
	sel := state.Selection.Clamp(state.Len())

	var builder strings.Builder
	for _, seg := range segments {
		if !within(sel, seg) {
			builder.WriteString(s.renderSegment(seg))
			continue
		}

		// Split the segment around the selection marks it holds.
		runes := []rune(seg.Text)
		last := 0
		for _, mark := range marks(sel) {
			if mark.pos < seg.Start || mark.pos >= seg.End {
				continue
			}
			cut := mark.pos - seg.Start
			builder.WriteString(s.renderText(seg, string(runes[last:cut])))
			builder.WriteString(s.Caret.Render(mark.text))
			last = cut
		}
		builder.WriteString(s.renderText(seg, string(runes[last:])))
	}

	for _, mark := range marks(sel) {
		if mark.pos == state.Len() {
			builder.WriteString(s.Caret.Render(mark.text))
		}
	}
	return builder.String()
}

type mark struct {
	pos  int
	text string
}

func marks(sel edit.Selection) []mark {
	if sel.IsCollapsed() {
		return []mark{{pos: sel.Base, text: caretMarker}}
	}
	return []mark{{pos: sel.Start(), text: "["}, {pos: sel.End(), text: "]"}}
}

func within(sel edit.Selection, seg span.Segment) bool {
	for _, m := range marks(sel) {
		if m.pos >= seg.Start && m.pos < seg.End {
			return true
		}
	}
	return false
}

func (s *Styles) renderSegment(seg span.Segment) string {
	return s.renderText(seg, seg.Text)
}

func (s *Styles) renderText(seg span.Segment, text string) string {
	if text == "" {
		return ""
	}
	style, ok := seg.Style.(lipgloss.Style)
	if !ok || !seg.Styled || !s.colorEnabled {
		return text
	}

	// Render line by line so lipgloss does not pad lines to a common width.
	style = style.TabWidth(lipgloss.NoTabConversion)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
