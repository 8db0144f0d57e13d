package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"gosolc/internal/semver"
)

var installCmd = &cobra.Command{
	Use:   "install <version>",
	Short: "Install a compiler version",
	Long: `Download and install a specific solc release ahead of time.

Compilation installs compilers on demand, so this exists for warming caches
and air-gap preparation. Installing an already present version verifies it
against the recorded digest instead of downloading again.

Examples:
  gosolc install 0.8.24
  gosolc install 0.4.25`,
	Args: cobra.ExactArgs(1),
	Run:  runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) {
	start := time.Now()
	cfg := mustLoadConfig()
	logger := newLogger(cfg)

	v, err := semver.Parse(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid version %q: %v\n", args[0], err)
		os.Exit(1)
	}

	installer := mustNewInstaller(cfg, logger)
	path, err := installer.Ensure(newContext(), v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error installing solc %s: %v\n", v, err)
		os.Exit(1)
	}

	fmt.Printf("solc %s installed at %s\n", v, path)

	logger.Debug("Install completed", map[string]interface{}{
		"version":  v.String(),
		"path":     path,
		"duration": time.Since(start).Milliseconds(),
	})
}
