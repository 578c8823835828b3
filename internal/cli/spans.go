package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tokenedit/internal/logging"
	"github.com/yaklabco/tokenedit/pkg/fsutil"
	"github.com/yaklabco/tokenedit/pkg/reporter"
	"github.com/yaklabco/tokenedit/pkg/span"
)

type spansFlags struct {
	format  string
	compact bool
	quiet   bool
}

func newSpansCommand() *cobra.Command {
	flags := &spansFlags{}

	cmd := &cobra.Command{
		Use:   "spans [file|-]",
		Short: "Render the token spans of a text",
		Long: `Match the configured patterns against a text and print it with every
span painted in its style, or as a JSON list of segments.

Reads standard input when no file is given or the file is "-".

Examples:
  tokenedit spans notes.txt
  echo "ping @bob about #release" | tokenedit spans
  tokenedit spans --format json notes.txt`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpans(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "omit the span count line")

	return cmd
}

func runSpans(cmd *cobra.Command, args []string, flags *spansFlags) error {
	logger := logging.Default()
	ctx := commandContext(cmd)

	cliCfg, err := formatOverride(cmd, flags.format)
	if err != nil {
		return err
	}
	st, err := loadSettings(cmd, cliCfg)
	if err != nil {
		return err
	}

	path := fsutil.StdinPath
	if len(args) == 1 {
		path = args[0]
	}

	content, err := fsutil.ReadInput(ctx, path, cmd.InOrStdin())
	if err != nil {
		return withExitCode(ExitIOError, err)
	}
	text := string(content)

	segments := span.Segments(text, st.patterns)
	logger.Debug("resolved spans", logging.FieldInput, path, logging.FieldCount, len(segments))

	format, err := reporter.ParseFormat(string(st.cfg.Format))
	if err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("invalid format: %w", err))
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       st.colorMode,
		Patterns:    st.patterns,
		ShowSummary: !flags.quiet,
		Compact:     flags.compact,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if err := rep.ReportSpans(ctx, reporter.SpansInput{Path: path, Text: text, Segments: segments}); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("report spans: %w", err))
	}
	return nil
}
