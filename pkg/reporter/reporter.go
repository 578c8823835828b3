// Package reporter renders replay results and span segments.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/tokenedit/pkg/runner"
	"github.com/yaklabco/tokenedit/pkg/span"
)

// Reporter formats and writes engine output.
type Reporter interface {
	// Report writes formatted output for a replay run.
	// It returns the number of failed scripts and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)

	// ReportSpans writes the segments of one input.
	ReportSpans(ctx context.Context, input SpansInput) error
}

// SpansInput is one resolved input.
type SpansInput struct {
	// Path names the input; "-" for stdin.
	Path string

	// Text is the input text.
	Text string

	// Segments cover Text exactly.
	Segments []span.Segment
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	default:
		return NewTextReporter(opts), nil
	}
}
