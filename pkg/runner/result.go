package runner

import (
	"github.com/yaklabco/tokenedit/pkg/edit"
	"github.com/yaklabco/tokenedit/pkg/token"
)

// Event records a token deletion reported by the engine.
type Event struct {
	Step        int    `json:"step"`
	Key         string `json:"key"`
	ID          string `json:"id,omitempty"`
	RemovedText string `json:"removed_text"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
}

// StepResult is the buffer after one step.
type StepResult struct {
	Index     int            `json:"index"`
	Op        Op             `json:"op"`
	Kind      string         `json:"kind"`
	Rewritten bool           `json:"rewritten"`
	Text      string         `json:"text"`
	Selection edit.Selection `json:"selection"`
}

// Stats summarises a replay.
type Stats struct {
	Steps      int `json:"steps"`
	Submits    int `json:"submits"`
	Rewrites   int `json:"rewrites"`
	Insertions int `json:"insertions"`
	Deletions  int `json:"deletions"`
	Events     int `json:"events"`
}

func (s *Stats) add(other Stats) {
	s.Steps += other.Steps
	s.Submits += other.Submits
	s.Rewrites += other.Rewrites
	s.Insertions += other.Insertions
	s.Deletions += other.Deletions
	s.Events += other.Events
}

// Replay is the outcome of one script.
type Replay struct {
	Name     string          `json:"name"`
	Final    edit.State      `json:"final"`
	IDTokens []token.IDToken `json:"id_tokens"`
	Steps    []StepResult    `json:"steps"`
	Events   []Event         `json:"events"`
	Stats    Stats           `json:"stats"`
}

// ScriptOutcome pairs a script path with its replay.
type ScriptOutcome struct {
	// Path is the script file that was replayed.
	Path string

	// Replay is nil if the script could not be loaded or failed.
	Replay *Replay

	// Error is set if the script could not be loaded or failed.
	Error error
}

// Result is the overall runner result.
type Result struct {
	// Scripts are ordered deterministically (by discovery order).
	Scripts []ScriptOutcome

	// Stats aggregates every successful replay.
	Stats Stats

	// Failed counts scripts that errored.
	Failed int
}

// HasFailures reports whether any script failed.
func (r *Result) HasFailures() bool {
	return r != nil && r.Failed > 0
}

func (r *Result) accumulate(outcome ScriptOutcome) {
	r.Scripts = append(r.Scripts, outcome)

	if outcome.Error != nil {
		r.Failed++
		return
	}
	if outcome.Replay != nil {
		r.Stats.add(outcome.Replay.Stats)
	}
}
