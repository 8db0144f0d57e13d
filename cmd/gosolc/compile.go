package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"gosolc/internal/compile"
	"gosolc/internal/config"
	"gosolc/internal/errors"
	"gosolc/internal/semver"
	"gosolc/internal/solc"
	"gosolc/internal/update"
)

var (
	compileSolcFlag    string
	compileOutputFlags []string
	compileRemapFlags  []string
	compileRefresh     bool
)

var compileCmd = &cobra.Command{
	Use:   "compile <project_dir> <output_path>",
	Short: "Compile a Solidity project",
	Long: `Compile every Solidity source under a project directory with an
automatically selected compiler version.

The version is chosen from the pragma constraints of the sources: each file
gets the oldest release it accepts, and the project compiles with the newest
of those per-file choices. The selected solc binary is downloaded on first
use. An <output_path> of "-" prints the combined result to standard output.

Exit status is 2 when the compiler itself rejects the sources, so scripts can
tell bad input from tool failure.

Examples:
  gosolc compile ./contracts out.json
  gosolc compile ./contracts -
  gosolc compile ./contracts out.json --solc 0.4.25
  gosolc compile ./contracts out.json --output abi --output ast
  gosolc compile ./contracts out.json --remap @oz=node_modules/@openzeppelin`,
	Args: cobra.ExactArgs(2),
	Run:  runCompile,
}

func init() {
	compileCmd.Flags().StringVar(&compileSolcFlag, "solc", "", "Pin the compiler version instead of resolving from pragmas")
	compileCmd.Flags().StringSliceVar(&compileOutputFlags, "output", nil, "Output kinds to request (abi, ast, bin-runtime, srcmap-runtime)")
	compileCmd.Flags().StringSliceVar(&compileRemapFlags, "remap", nil, "Import remapping (name=path, repeatable)")
	compileCmd.Flags().BoolVar(&compileRefresh, "refresh", false, "Bypass the release catalog cache")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) {
	start := time.Now()
	cfg := mustLoadConfig()
	logger := newLogger(cfg)

	projectDir := args[0]
	outputPath := args[1]

	opts, err := compileOptions(cfg, projectDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	installer := mustNewInstaller(cfg, logger)
	source := newCatalogSource(cfg, installer, logger, compileRefresh)
	invoker := newInvoker(cfg, installer, logger)
	compiler := compile.New(source, invoker, logger)

	result, err := compiler.Run(newContext(), opts)
	if err != nil {
		exitCompileError(err)
	}

	if err := writeResult(outputPath, result); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}

	// Cache-only update notice: compiles never pay for a network check.
	if info := update.NewChecker().CheckCached(); info != nil {
		fmt.Fprint(os.Stderr, info.Message())
	}

	logger.Debug("Compilation completed", map[string]interface{}{
		"project":   projectDir,
		"contracts": result.ContractCount(),
		"duration":  time.Since(start).Milliseconds(),
	})
}

// compileOptions translates the CLI flags into compiler options. Flag values
// are validated here so a typo fails before any network or process work.
func compileOptions(cfg *config.Config, projectDir string) (compile.Options, error) {
	opts := compile.Options{
		ProjectRoot: projectDir,
		Remappings:  compileRemapFlags,
	}

	if compileSolcFlag != "" {
		v, err := semver.Parse(compileSolcFlag)
		if err != nil {
			return opts, fmt.Errorf("invalid --solc version %q: %w", compileSolcFlag, err)
		}
		opts.Version = &v
	}

	if len(compileOutputFlags) > 0 {
		outputs, err := solc.ParseOutputs(compileOutputFlags)
		if err != nil {
			return opts, fmt.Errorf("invalid --output: %w", err)
		}
		opts.Outputs = outputs
	}

	defaults, err := cfg.Outputs()
	if err != nil {
		return opts, err
	}
	opts.DefaultOutputs = defaults

	return opts, nil
}

// writeResult serializes the compilation result, either to a file or, for
// the conventional "-" path, to standard output.
func writeResult(outputPath string, result *solc.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if outputPath == "-" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(outputPath, data, 0644)
}

// exitCompileError reports a compilation pipeline failure and exits. The
// compiler's own diagnostics, when present, are surfaced verbatim ahead of
// the error summary since they are what the user has to act on.
func exitCompileError(err error) {
	code := 1
	if solcErr, ok := errors.As(err); ok && solcErr.Code == errors.CompilationFailed {
		code = 2
		if cause, ok := solcErr.Unwrap().(*solc.CompilationError); ok && cause.Stderr != "" {
			fmt.Fprintln(os.Stderr, cause.Stderr)
		}
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(code)
}
