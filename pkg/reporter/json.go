package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/tokenedit/pkg/runner"
	"github.com/yaklabco/tokenedit/pkg/token"
)

// jsonVersion is the schema version of JSON output.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure of a replay run.
type JSONOutput struct {
	Version string       `json:"version"`
	Scripts []JSONScript `json:"scripts"`
	Summary JSONSummary  `json:"summary"`
}

// JSONScript represents a single script's outcome.
type JSONScript struct {
	Path     string              `json:"path"`
	Name     string              `json:"name,omitempty"`
	Error    string              `json:"error,omitempty"`
	Final    *JSONState          `json:"final,omitempty"`
	IDTokens []token.IDToken     `json:"idTokens"`
	Events   []runner.Event      `json:"events"`
	Steps    []runner.StepResult `json:"steps,omitempty"`
	Stats    *runner.Stats       `json:"stats,omitempty"`
}

// JSONState is a buffer text and selection.
type JSONState struct {
	Text   string `json:"text"`
	Base   int    `json:"base"`
	Extent int    `json:"extent"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	Scripts int          `json:"scripts"`
	Failed  int          `json:"failed"`
	Stats   runner.Stats `json:"stats"`
}

// JSONSpans is the JSON structure of a spans report.
type JSONSpans struct {
	Version  string        `json:"version"`
	Path     string        `json:"path"`
	Text     string        `json:"text"`
	Segments []JSONSegment `json:"segments"`
}

// JSONSegment is one segment. Styles are not serialised.
type JSONSegment struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Text   string `json:"text"`
	Key    string `json:"key,omitempty"`
	Styled bool   `json:"styled"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	output := r.buildOutput(result)
	if err := r.encode(output); err != nil {
		return 0, err
	}
	return output.Summary.Failed, nil
}

// ReportSpans implements Reporter.
func (r *JSONReporter) ReportSpans(_ context.Context, input SpansInput) error {
	output := JSONSpans{
		Version:  jsonVersion,
		Path:     input.Path,
		Text:     input.Text,
		Segments: make([]JSONSegment, 0, len(input.Segments)),
	}
	for _, seg := range input.Segments {
		output.Segments = append(output.Segments, JSONSegment{
			Start:  seg.Start,
			End:    seg.End,
			Text:   seg.Text,
			Key:    seg.Key,
			Styled: seg.Styled,
		})
	}
	return r.encode(output)
}

func (r *JSONReporter) encode(v any) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Scripts: make([]JSONScript, 0),
	}

	if result == nil {
		return output
	}

	output.Summary = JSONSummary{
		Scripts: len(result.Scripts),
		Failed:  result.Failed,
		Stats:   result.Stats,
	}

	for _, outcome := range result.Scripts {
		script := JSONScript{
			Path:     outcome.Path,
			IDTokens: make([]token.IDToken, 0),
			Events:   make([]runner.Event, 0),
		}

		if outcome.Error != nil {
			script.Error = outcome.Error.Error()
		}

		if replay := outcome.Replay; replay != nil {
			script.Name = replay.Name
			script.Final = &JSONState{
				Text:   replay.Final.Text,
				Base:   replay.Final.Selection.Base,
				Extent: replay.Final.Selection.Extent,
			}
			script.IDTokens = append(script.IDTokens, replay.IDTokens...)
			script.Events = append(script.Events, replay.Events...)
			if r.opts.ShowSteps {
				script.Steps = replay.Steps
			}
			stats := replay.Stats
			script.Stats = &stats
		}

		output.Scripts = append(output.Scripts, script)
	}

	return output
}
