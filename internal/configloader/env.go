package configloader

import (
	"os"

	"github.com/yaklabco/tokenedit/pkg/config"
)

// envVarPrefix is the prefix for all tokenedit environment variables.
const envVarPrefix = "TOKENEDIT_"

const (
	// EnvLogLevel overrides log_level.
	EnvLogLevel = envVarPrefix + "LOG_LEVEL"

	// EnvFormat sets the output format.
	EnvFormat = envVarPrefix + "FORMAT"

	// EnvPatternsFile names a config file loaded as if passed with --config.
	EnvPatternsFile = envVarPrefix + "PATTERNS_FILE"
)

// LoadFromEnv applies environment variable overrides to the configuration.
func LoadFromEnv(cfg *config.Config) {
	if cfg == nil {
		return
	}

	if value := os.Getenv(EnvLogLevel); value != "" {
		cfg.LogLevel = value
	}
	if value := os.Getenv(EnvFormat); value != "" {
		cfg.Format = config.OutputFormat(value)
	}
}

// ListEnvVars returns the supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		EnvLogLevel:     "Log level: debug, info, warn, or error",
		EnvFormat:       "Output format: text or json",
		EnvPatternsFile: "Path to a config file used when --config is not given",
	}
}
