package pattern

import (
	"fmt"
	"slices"
)

// Definition binds a matcher to a key, an optional trigger character,
// an opaque style, and an optional deletion notifier.
type Definition struct {
	// Key uniquely identifies the pattern within a Set.
	Key string

	// Matcher recognises occurrences of the pattern.
	Matcher Matcher

	// Trigger is the character that starts a handle for this pattern
	// (e.g. '@' for mentions). Zero means the pattern has no trigger.
	Trigger rune

	// Style is passed through to rendering untouched.
	Style any

	// OnDeleted, if set, receives deletions of this pattern's tokens
	// instead of the engine-wide fallback.
	OnDeleted DeleteNotifier
}

// HasTrigger reports whether the pattern declares a trigger character.
func (d Definition) HasTrigger() bool {
	return d.Trigger != 0
}

// ConfigError describes an invalid pattern set.
type ConfigError struct {
	Key     string
	Index   int
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pattern %d (%q): %s", e.Index, e.Key, e.Message)
}

// Set is an ordered, keyed collection of pattern definitions.
// Declaration order is precedence: earlier definitions win ties.
type Set struct {
	defs  []Definition
	byKey map[string]int
}

// NewSet builds a Set from definitions in precedence order.
// Empty keys, nil matchers, and duplicate keys are configuration errors.
func NewSet(defs ...Definition) (*Set, error) {
	set := &Set{
		defs:  make([]Definition, 0, len(defs)),
		byKey: make(map[string]int, len(defs)),
	}

	for i, def := range defs {
		if def.Key == "" {
			return nil, &ConfigError{Key: def.Key, Index: i, Message: "key is empty"}
		}
		if def.Matcher == nil {
			return nil, &ConfigError{Key: def.Key, Index: i, Message: "matcher is nil"}
		}
		if prev, dup := set.byKey[def.Key]; dup {
			return nil, &ConfigError{
				Key:     def.Key,
				Index:   i,
				Message: fmt.Sprintf("duplicate key (first declared at %d)", prev),
			}
		}
		set.byKey[def.Key] = len(set.defs)
		set.defs = append(set.defs, def)
	}

	return set, nil
}

// MustSet is like NewSet but panics on a configuration error.
func MustSet(defs ...Definition) *Set {
	set, err := NewSet(defs...)
	if err != nil {
		panic(err)
	}
	return set
}

// Get returns the definition registered under key.
func (s *Set) Get(key string) (Definition, bool) {
	idx, ok := s.Index(key)
	if !ok {
		return Definition{}, false
	}
	return s.defs[idx], true
}

// Index returns the declaration index of key, which is its precedence rank.
func (s *Set) Index(key string) (int, bool) {
	if s == nil {
		return 0, false
	}
	idx, ok := s.byKey[key]
	return idx, ok
}

// At returns the definition at declaration index i.
func (s *Set) At(i int) Definition {
	return s.defs[i]
}

// Len returns the number of definitions.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.defs)
}

// All returns the definitions in declaration order.
func (s *Set) All() []Definition {
	if s == nil {
		return nil
	}
	return slices.Clone(s.defs)
}

// Keys returns the pattern keys in declaration order.
func (s *Set) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, len(s.defs))
	for i, def := range s.defs {
		keys[i] = def.Key
	}
	return keys
}
