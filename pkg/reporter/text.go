package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/tokenedit/internal/ui/pretty"
	"github.com/yaklabco/tokenedit/pkg/edit"
	"github.com/yaklabco/tokenedit/pkg/runner"
	"github.com/yaklabco/tokenedit/pkg/span"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Scripts) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result))
		}
		return 0, nil
	}

	for _, outcome := range result.Scripts {
		if err := ctx.Err(); err != nil {
			return result.Failed, fmt.Errorf("report: %w", err)
		}
		r.reportScript(outcome)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result))
	}

	return result.Failed, nil
}

func (r *TextReporter) reportScript(outcome runner.ScriptOutcome) {
	if outcome.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(outcome.Path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", outcome.Error)),
		)
		return
	}

	replay := outcome.Replay
	if replay == nil {
		return
	}

	fmt.Fprintln(r.bw, r.styles.FormatScriptHeader(outcome.Path, replay.Name))

	if r.opts.ShowSteps {
		for _, step := range replay.Steps {
			state := edit.State{Text: step.Text, Selection: step.Selection}
			marker := " "
			if step.Rewritten {
				marker = r.styles.Warning.Render("*")
			}
			fmt.Fprintf(r.bw, "  %s %s %-12s %s\n",
				r.styles.Location.Render(fmt.Sprintf("step %-3d", step.Index)),
				marker,
				string(step.Op),
				r.renderState(state),
			)
		}
	}

	for _, ev := range replay.Events {
		fmt.Fprint(r.bw, r.styles.FormatEvent(ev))
	}

	fmt.Fprintf(r.bw, "  %s %s\n", r.styles.Dim.Render("final:"), r.renderState(replay.Final))

	for _, tok := range replay.IDTokens {
		fmt.Fprintf(r.bw, "  %s %s %s %s %s\n",
			r.styles.Dim.Render("token:"),
			r.styles.Key.Render(tok.Key),
			r.styles.ID.Render("id="+tok.ID),
			r.styles.Location.Render(fmt.Sprintf("%d:%d", tok.Start, tok.End)),
			strconv.Quote(tok.Label),
		)
	}

	fmt.Fprintln(r.bw)
}

func (r *TextReporter) renderState(state edit.State) string {
	return r.styles.RenderState(state, r.segments(state.Text))
}

func (r *TextReporter) segments(text string) []span.Segment {
	if r.opts.Patterns == nil {
		return span.Fill(text, nil)
	}
	return span.Segments(text, r.opts.Patterns)
}

// ReportSpans implements Reporter.
func (r *TextReporter) ReportSpans(_ context.Context, input SpansInput) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	out := r.styles.RenderSegments(input.Segments)
	fmt.Fprint(r.bw, out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		var styled int
		for _, seg := range input.Segments {
			if seg.Styled {
				styled++
			}
		}
		fmt.Fprintln(r.bw, r.styles.Dim.Render(fmt.Sprintf("%d spans in %s", styled, input.Path)))
	}
	return nil
}
