package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tokenedit/internal/logging"
	"github.com/yaklabco/tokenedit/pkg/reporter"
	"github.com/yaklabco/tokenedit/pkg/runner"
)

type replayFlags struct {
	format    string
	jobs      int
	steps     bool
	compact   bool
	noSummary bool
}

func newReplayCommand() *cobra.Command {
	flags := &replayFlags{}

	cmd := &cobra.Command{
		Use:   "replay [paths...]",
		Short: "Replay edit scripts through the engine",
		Long:  replayLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.steps, "steps", false, "show the buffer after every step")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "omit the summary line")

	return cmd
}

const replayLongDescription = `Replay scripted edit sessions through the token engine.

A script is a YAML file holding an initial buffer and the host edits to
apply to it: typing, backspacing, selecting and inserting tokens. Each
step is submitted to the engine as the state a text field would propose,
and the final buffer, its ID tokens and every token deletion are printed.

By default, replays all .yml and .yaml files under the current directory.

Example script:

  name: pick a mention
  text: "Hello "
  steps:
    - op: type
      text: "@al"
    - op: insert_token
      key: mention
      text: "@alice"
      id: u1
    - op: backspace

Examples:
  tokenedit replay scripts/
  tokenedit replay --steps session.yml
  tokenedit replay --format json scripts/`

func runReplay(cmd *cobra.Command, args []string, flags *replayFlags) error {
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

	runOpts := runner.Options{
		Paths:      args,
		Extensions: runner.DefaultExtensions(),
		Jobs:       flags.jobs,
		Logger:     logger,
	}

	logger.Debug("starting replay run",
		"paths", runOpts.Paths,
		"jobs", runOpts.Jobs,
	)

	result, err := runner.New(st.patterns).Run(ctx, runOpts)
	if err != nil {
		return withExitCode(ExitIOError, errors.Join(errors.New("replay run failed"), err))
	}

	format, err := reporter.ParseFormat(string(st.cfg.Format))
	if err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("invalid format: %w", err))
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       st.colorMode,
		Patterns:    st.patterns,
		ShowSteps:   flags.steps,
		ShowSummary: !flags.noSummary,
		Compact:     flags.compact,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return withExitCode(ExitIOError, fmt.Errorf("report results: %w", err))
	}

	if result.HasFailures() {
		return ErrReplayFailures
	}
	return nil
}
