package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/tokenedit/pkg/fsutil"
	"github.com/yaklabco/tokenedit/pkg/token"
)

// Op names a script step.
type Op string

const (
	// OpType types Text at the caret, replacing the selection if any.
	OpType Op = "type"

	// OpBackspace deletes the selection, or Count runes before the caret.
	OpBackspace Op = "backspace"

	// OpDelete deletes the selection, or Count runes after the caret.
	OpDelete Op = "delete"

	// OpMove collapses the selection to Pos.
	OpMove Op = "move"

	// OpSelect selects from Base to Extent.
	OpSelect Op = "select"

	// OpInsertToken inserts Text for pattern Key, optionally bound to ID.
	OpInsertToken Op = "insert_token"

	// OpSet submits Text with the selection Base..Extent verbatim, as a
	// host would after an edit the other ops cannot express.
	OpSet Op = "set"
)

// Step is one scripted host action.
type Step struct {
	Op     Op     `yaml:"op"`
	Text   string `yaml:"text,omitempty"`
	Count  int    `yaml:"count,omitempty"`
	Pos    int    `yaml:"pos,omitempty"`
	Base   int    `yaml:"base,omitempty"`
	Extent int    `yaml:"extent,omitempty"`
	Key    string `yaml:"key,omitempty"`
	ID     string `yaml:"id,omitempty"`
	Label  string `yaml:"label,omitempty"`
}

// ScriptToken seeds an ID-backed token.
type ScriptToken struct {
	Start int    `yaml:"start"`
	End   int    `yaml:"end"`
	Key   string `yaml:"key"`
	ID    string `yaml:"id"`
	Label string `yaml:"label,omitempty"`
}

// Script is an initial buffer plus the steps to replay on it.
type Script struct {
	// Name describes the script; defaults to the file name.
	Name string `yaml:"name,omitempty"`

	// Text is the initial buffer text.
	Text string `yaml:"text"`

	// Caret is the initial caret; nil means the end of Text.
	Caret *int `yaml:"caret,omitempty"`

	// Tokens are ID-backed tokens present in Text from the start.
	Tokens []ScriptToken `yaml:"tokens,omitempty"`

	// Steps are replayed in order.
	Steps []Step `yaml:"steps"`
}

// StepError reports an invalid or failing step.
type StepError struct {
	Index int
	Op    Op
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

var errUnknownOp = errors.New("unknown op")

// ParseScript decodes and validates a script.
func ParseScript(data []byte) (*Script, error) {
	script := &Script{}
	if err := yaml.Unmarshal(data, script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	if err := script.Validate(); err != nil {
		return nil, err
	}
	return script, nil
}

// LoadScript reads and parses the script at path. The name defaults to
// the file name without extension.
func LoadScript(ctx context.Context, path string) (*Script, error) {
	content, err := fsutil.ReadInput(ctx, path, strings.NewReader(""))
	if err != nil {
		return nil, err
	}

	script, err := ParseScript(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if script.Name == "" {
		script.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return script, nil
}

// Validate checks that every step names a known op with usable arguments.
func (s *Script) Validate() error {
	for i, step := range s.Steps {
		var err error
		switch step.Op {
		case OpType:
			if step.Text == "" {
				err = errors.New("text is required")
			}
		case OpInsertToken:
			if step.Key == "" {
				err = errors.New("key is required")
			}
		case OpBackspace, OpDelete, OpMove, OpSelect, OpSet:
			if step.Count < 0 {
				err = errors.New("count must be >= 0")
			}
		default:
			err = fmt.Errorf("%w %q", errUnknownOp, step.Op)
		}
		if err != nil {
			return &StepError{Index: i, Op: step.Op, Err: err}
		}
	}
	return nil
}

func (s *Script) idTokens() []token.IDToken {
	out := make([]token.IDToken, len(s.Tokens))
	for i, tok := range s.Tokens {
		out[i] = token.IDToken{Start: tok.Start, End: tok.End, Key: tok.Key, ID: tok.ID, Label: tok.Label}
	}
	return out
}
