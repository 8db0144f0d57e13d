package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gosolc/internal/config"
	"gosolc/internal/paths"
)

var configShowJSON bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gosolc configuration",
	Long:  "View and manage gosolc configuration stored in $GOSOLC_HOME/config.json",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the current gosolc configuration.

Examples:
  gosolc config show           # Pretty-print current config
  gosolc config show --json    # Raw JSON output`,
	Run: runConfigShow,
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Rewrite the configuration file with defaults",
	Run:   runConfigReset,
}

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "Raw JSON output")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configResetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if configShowJSON {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	defaults := config.DefaultConfig()

	fmt.Println("gosolc Configuration")
	fmt.Println(strings.Repeat("─", 50))
	if home, err := paths.Home(); err == nil {
		fmt.Printf("Home: %s\n", home)
	}
	fmt.Println()

	printConfigValue("version", cfg.Version, defaults.Version)

	fmt.Println("\ncompilers:")
	printConfigValue("  installDir", cfg.Compilers.InstallDir, defaults.Compilers.InstallDir)
	printConfigValue("  downloadUrl", cfg.Compilers.DownloadURL, defaults.Compilers.DownloadURL)
	printConfigValue("  downloadTimeoutMs", cfg.Compilers.DownloadTimeoutMs, defaults.Compilers.DownloadTimeoutMs)

	fmt.Println("\ncatalog:")
	printConfigValue("  releasesUrl", cfg.Catalog.ReleasesURL, defaults.Catalog.ReleasesURL)
	printConfigValue("  cacheTtlSeconds", cfg.Catalog.CacheTtlSeconds, defaults.Catalog.CacheTtlSeconds)

	fmt.Println("\ncompile:")
	printConfigValue("  outputs", strings.Join(cfg.Compile.Outputs, ","), strings.Join(defaults.Compile.Outputs, ","))
	printConfigValue("  timeoutMs", cfg.Compile.TimeoutMs, defaults.Compile.TimeoutMs)

	fmt.Println("\nlogging:")
	printConfigValue("  format", cfg.Logging.Format, defaults.Logging.Format)
	printConfigValue("  level", cfg.Logging.Level, defaults.Logging.Level)

	fmt.Println()
	fmt.Println("Use 'gosolc config show --json' for machine-readable output")
}

func printConfigValue(name string, value, defaultValue interface{}) {
	modified := ""
	if fmt.Sprintf("%v", value) != fmt.Sprintf("%v", defaultValue) {
		modified = fmt.Sprintf(" (default: %v)", defaultValue)
	}
	fmt.Printf("%s: %v%s\n", name, value, modified)
}

func runConfigReset(cmd *cobra.Command, args []string) {
	cfg := config.DefaultConfig()
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
		os.Exit(1)
	}

	home, err := paths.Home()
	if err == nil {
		fmt.Printf("Configuration reset to defaults in %s\n", home)
	} else {
		fmt.Println("Configuration reset to defaults")
	}
}
