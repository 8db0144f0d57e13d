package main

import (
	"os"

	"github.com/spf13/cobra"

	"gosolc/internal/logging"
	"gosolc/internal/version"
)

var (
	// configFlag is the CLI --config flag value
	configFlag string
	// logFormatFlag is the CLI --log-format flag value
	logFormatFlag string
	// verboseFlag enables debug logging
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "gosolc",
	Short: "gosolc - Solidity compiler orchestrator",
	Long: `gosolc compiles Solidity projects without a pinned toolchain: it reads the
pragma constraints of every source file, picks a compiler version the whole
project agrees on, installs that exact solc binary on demand, and runs it
with the project's import remappings.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("gosolc version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"Path to config file (default: $GOSOLC_HOME/config.json)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json (default: from config)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false,
		"Enable debug logging")
}

// resolveLogFormat determines the effective log format from CLI flag, env
// var, and config. Precedence: CLI flag > GOSOLC_LOG_FORMAT env var >
// config.json logging.format > human
func resolveLogFormat(cfgFormat string) (logging.Format, error) {
	// 1. CLI flag (highest priority)
	if logFormatFlag != "" {
		return logging.ParseFormat(logFormatFlag)
	}

	// 2. Environment variable
	if env := os.Getenv("GOSOLC_LOG_FORMAT"); env != "" {
		return logging.ParseFormat(env)
	}

	// 3. Config file default
	if cfgFormat != "" {
		return logging.ParseFormat(cfgFormat)
	}

	return logging.HumanFormat, nil
}
