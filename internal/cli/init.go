package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tokenedit/internal/configloader"
	"github.com/yaklabco/tokenedit/internal/logging"
	"github.com/yaklabco/tokenedit/pkg/config"
	"github.com/yaklabco/tokenedit/pkg/fsutil"
)

// defaultConfigFile is the file written by init when --output is not set.
const defaultConfigFile = ".tokenedit.yml"

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new tokenedit configuration file",
		Long: `Create a new .tokenedit.yml configuration file in the current directory
holding the default patterns (mentions, hashtags and URLs) and their styles.

When the file already exists, init asks before overwriting it if run from a
terminal, and refuses otherwise unless --force is given.

Examples:
  tokenedit init                        Create .tokenedit.yml
  tokenedit init --output custom.yml    Write to a custom file path
  tokenedit init --force                Overwrite an existing file`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .tokenedit.yml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewWithWriter(cmd.OutOrStdout(), "info")
	ctx := commandContext(cmd)

	outputPath := flags.output
	if outputPath == "" {
		outputPath = defaultConfigFile
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	overwrite := flags.force
	if !overwrite && fsutil.Exists(absPath) && configloader.IsInteractive(cmd.InOrStdin()) {
		ok, err := configloader.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(),
			fmt.Sprintf("%s already exists. Overwrite?", outputPath))
		if err != nil {
			return withExitCode(ExitIOError, err)
		}
		if !ok {
			logger.Info("left existing file unchanged", logging.FieldPath, outputPath)
			return nil
		}
		overwrite = true
	}

	content, err := config.GenerateTemplate()
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := configloader.WriteConfig(ctx, absPath, content, overwrite); err != nil {
		if errors.Is(err, configloader.ErrConfigExists) {
			return withExitCode(ExitInvalidUsage,
				fmt.Errorf("file %q already exists; use --force to overwrite", outputPath))
		}
		return withExitCode(ExitIOError, err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("customize your patterns by editing the file")
	logger.Info("run 'tokenedit patterns' to list the configured patterns")

	return nil
}
