package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tokenedit/pkg/edit"
	"github.com/yaklabco/tokenedit/pkg/pattern"
	"github.com/yaklabco/tokenedit/pkg/reporter"
	"github.com/yaklabco/tokenedit/pkg/runner"
	"github.com/yaklabco/tokenedit/pkg/span"
	"github.com/yaklabco/tokenedit/pkg/token"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "unknown format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text reporter", format: reporter.FormatText},
		{name: "json reporter", format: reporter.FormatJSON},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rep, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: tt.format})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func sampleResult() *runner.Result {
	return &runner.Result{
		Scripts: []runner.ScriptOutcome{
			{
				Path: "scripts/mention.yml",
				Replay: &runner.Replay{
					Name:  "mention",
					Final: edit.State{Text: "hi @alice", Selection: edit.Collapsed(9)},
					IDTokens: []token.IDToken{
						{Start: 3, End: 9, Key: "mention", ID: "u1", Label: "Alice"},
					},
					Steps: []runner.StepResult{
						{Index: 0, Op: runner.OpInsertToken, Kind: "insertion", Text: "hi @alice", Selection: edit.Collapsed(9)},
					},
					Events: []runner.Event{
						{Step: 0, Key: "mention", ID: "u0", RemovedText: "@al", Start: 3, End: 6},
					},
					Stats: runner.Stats{Steps: 1, Insertions: 1, Events: 1},
				},
			},
			{Path: "scripts/broken.yml", Error: errors.New("step 0 (paste): unknown op")},
		},
		Stats:  runner.Stats{Steps: 1, Insertions: 1, Events: 1},
		Failed: 1,
	}
}

func TestTextReporter_Report(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{
		Writer:      &buf,
		Format:      reporter.FormatText,
		Color:       "never",
		ShowSteps:   true,
		ShowSummary: true,
	})
	require.NoError(t, err)

	failed, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	out := buf.String()
	assert.Contains(t, out, "scripts/mention.yml (mention)")
	assert.Contains(t, out, "insert_token")
	assert.Contains(t, out, "final: hi @alice|")
	assert.Contains(t, out, `mention  "@al"  id=u0`)
	assert.Contains(t, out, `token: mention id=u1 3:9 "Alice"`)
	assert.Contains(t, out, "scripts/broken.yml: error: step 0 (paste): unknown op")
	assert.True(t, strings.HasSuffix(out, "2 scripts replayed, 1 failed, 1 steps, 1 tokens deleted\n"))
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	failed, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, failed)
	assert.Equal(t, "No scripts to replay\n", buf.String())
}

func TestTextReporter_ReportSpans(t *testing.T) {
	t.Parallel()

	set := pattern.MustSet(pattern.Definition{Key: "mention", Matcher: pattern.MustRegexp(`@\w+`)})
	text := "ping @bob and @eve"

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	err := rep.ReportSpans(context.Background(), reporter.SpansInput{
		Path:     "-",
		Text:     text,
		Segments: span.Segments(text, set),
	})
	require.NoError(t, err)
	assert.Equal(t, "ping @bob and @eve\n2 spans in -\n", buf.String())
}

func TestJSONReporter_Report(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})

	failed, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	assert.Equal(t, "1.0.0", output.Version)
	assert.Equal(t, reporter.JSONSummary{Scripts: 2, Failed: 1, Stats: runner.Stats{Steps: 1, Insertions: 1, Events: 1}}, output.Summary)

	require.Len(t, output.Scripts, 2)
	first := output.Scripts[0]
	assert.Equal(t, "mention", first.Name)
	require.NotNil(t, first.Final)
	assert.Equal(t, reporter.JSONState{Text: "hi @alice", Base: 9, Extent: 9}, *first.Final)
	assert.Equal(t, "u1", first.IDTokens[0].ID)
	assert.Equal(t, "@al", first.Events[0].RemovedText)
	assert.Empty(t, first.Steps, "steps are omitted unless requested")

	second := output.Scripts[1]
	assert.Contains(t, second.Error, "unknown op")
	assert.Nil(t, second.Final)
	assert.NotNil(t, second.Events)
}

func TestJSONReporter_ReportSpans(t *testing.T) {
	t.Parallel()

	set := pattern.MustSet(pattern.Definition{Key: "hashtag", Matcher: pattern.MustRegexp(`#\w+`)})

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})
	require.NoError(t, rep.ReportSpans(context.Background(), reporter.SpansInput{
		Path:     "notes.txt",
		Text:     "a #b",
		Segments: span.Segments("a #b", set),
	}))

	var output reporter.JSONSpans
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, []reporter.JSONSegment{
		{Start: 0, End: 2, Text: "a "},
		{Start: 2, End: 4, Text: "#b", Key: "hashtag", Styled: true},
	}, output.Segments)
}
