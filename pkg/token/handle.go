package token

import "github.com/yaklabco/tokenedit/pkg/pattern"

// ActiveHandle finds the partially typed handle around caret: a trigger
// character followed by a run of word characters ([A-Za-z0-9_]), where the
// trigger is not itself preceded by a word character.
//
// The leftward scan starts at caret; if that does not land on a trigger it
// is retried one position to the left. The handle extends right from caret
// over word characters. The returned range starts at the trigger.
func ActiveHandle(text string, caret int, trigger rune) (pattern.Range, bool) {
	if trigger == 0 {
		return pattern.Range{}, false
	}

	runes := []rune(text)
	caret = pattern.ClampInt(caret, 0, len(runes))

	end := caret
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}

	if start, ok := triggerBefore(runes, caret, trigger); ok {
		return pattern.Range{Start: start, End: end}, true
	}
	if caret > 0 {
		if start, ok := triggerBefore(runes, caret-1, trigger); ok {
			return pattern.Range{Start: start, End: end}, true
		}
	}

	return pattern.Range{}, false
}

// triggerBefore scans left from from over word characters and reports the
// offset of the trigger that precedes the run, if any.
func triggerBefore(runes []rune, from int, trigger rune) (int, bool) {
	i := from
	for i > 0 && isWordRune(runes[i-1]) {
		i--
	}
	if i == 0 || runes[i-1] != trigger {
		return 0, false
	}
	if i >= 2 && isWordRune(runes[i-2]) {
		return 0, false
	}
	return i - 1, true
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
