package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"gosolc/internal/project"
	"gosolc/internal/resolver"
)

var (
	resolveRefresh bool
	resolveFormat  string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <project_dir>",
	Short: "Show which compiler version a project resolves to",
	Long: `Resolve the compiler version for a project without compiling it.

The output lists, per source file, the pragma constraint that was honored and
the oldest release satisfying it, followed by the version the whole project
settles on (the newest of the per-file choices).

Examples:
  gosolc resolve ./contracts
  gosolc resolve ./contracts --refresh
  gosolc resolve ./contracts --format=json`,
	Args: cobra.ExactArgs(1),
	Run:  runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveRefresh, "refresh", false, "Bypass the release catalog cache")
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(resolveCmd)
}

// ResolveResponseCLI contains the resolution outcome for CLI output
type ResolveResponseCLI struct {
	ProjectRoot string                `json:"projectRoot"`
	Version     string                `json:"version"`
	Files       []resolver.FileChoice `json:"files"`
}

func runResolve(cmd *cobra.Command, args []string) {
	start := time.Now()
	cfg := mustLoadConfig()
	logger := newLogger(cfg)

	projectDir := args[0]

	installer := mustNewInstaller(cfg, logger)
	source := newCatalogSource(cfg, installer, logger, resolveRefresh)
	ctx := newContext()

	root, err := filepath.Abs(projectDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	files, err := project.Sources(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	snap, err := source.Refresh(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error refreshing catalog: %v\n", err)
		os.Exit(1)
	}

	choices, version, err := resolver.Explain(snap, files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	response := &ResolveResponseCLI{
		ProjectRoot: root,
		Version:     version.String(),
		Files:       choices,
	}

	output, err := FormatResponse(response, OutputFormat(resolveFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	logger.Debug("Resolution completed", map[string]interface{}{
		"project":  projectDir,
		"version":  version.String(),
		"files":    len(choices),
		"duration": time.Since(start).Milliseconds(),
	})
}
