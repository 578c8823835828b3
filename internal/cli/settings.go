package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tokenedit/internal/configloader"
	"github.com/yaklabco/tokenedit/internal/logging"
	"github.com/yaklabco/tokenedit/internal/ui/pretty"
	"github.com/yaklabco/tokenedit/pkg/config"
	"github.com/yaklabco/tokenedit/pkg/pattern"
)

// settings is the resolved configuration of one command invocation.
type settings struct {
	cfg          *config.Config
	patterns     *pattern.Set
	colorMode    string
	colorEnabled bool
}

// loadSettings loads and merges configuration, then compiles the pattern
// set with styles for the command's output.
func loadSettings(cmd *cobra.Command, cliCfg *config.Config) (*settings, error) {
	logger := logging.Default()
	ctx := commandContext(cmd)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}
	noConfig, _ := cmd.Flags().GetBool("no-config")

	workDir, err := os.Getwd()
	if err != nil {
		return nil, withExitCode(ExitIOError, fmt.Errorf("get working directory: %w", err))
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:          workDir,
		ExplicitPath:        configPath,
		IgnoreUserConfig:    noConfig,
		IgnoreProjectConfig: noConfig,
		CLIConfig:           cliCfg,
	})
	if err != nil {
		return nil, withExitCode(ExitConfigError, errors.Join(errors.New("failed to load configuration"), err))
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", "files", loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	if debug, _ := cmd.Flags().GetBool("debug"); !debug && cfg.LogLevel != "" {
		logging.SetLevel(cfg.LogLevel)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	colorEnabled := pretty.IsColorEnabled(colorMode, cmd.OutOrStdout())

	set, err := configloader.BuildPatterns(cfg, pretty.Styler(colorEnabled))
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}

	logger.Debug("configuration loaded",
		logging.FieldPatterns, set.Keys(),
		logging.FieldFormat, cfg.Format,
	)

	return &settings{
		cfg:          cfg,
		patterns:     set,
		colorMode:    colorMode,
		colorEnabled: colorEnabled,
	}, nil
}

// formatOverride returns a CLI config carrying the --format flag when the
// user set it explicitly.
func formatOverride(cmd *cobra.Command, format string) (*config.Config, error) {
	if !cmd.Flags().Changed("format") {
		return nil, nil
	}

	f := config.OutputFormat(format)
	if !f.IsValid() {
		return nil, withExitCode(ExitInvalidUsage, fmt.Errorf("invalid format %q: must be text or json", format))
	}
	return &config.Config{Format: f}, nil
}
