// Package solc runs installed Solidity compiler binaries and decodes their
// combined JSON output.
package solc

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"gosolc/internal/errors"
	"gosolc/internal/logging"
	"gosolc/internal/semver"
)

// Output identifies one section of solc's --combined-json output.
type Output string

// The output kinds gosolc requests. Names are solc's own.
const (
	OutputABI              Output = "abi"
	OutputAST              Output = "ast"
	OutputRuntimeBytecode  Output = "bin-runtime"
	OutputRuntimeSourceMap Output = "srcmap-runtime"
)

// DefaultOutputs is the standard request set.
var DefaultOutputs = []Output{OutputABI, OutputAST, OutputRuntimeBytecode, OutputRuntimeSourceMap}

// ParseOutputs validates user-supplied output kind names.
func ParseOutputs(names []string) ([]Output, error) {
	valid := map[Output]bool{
		OutputABI:              true,
		OutputAST:              true,
		OutputRuntimeBytecode:  true,
		OutputRuntimeSourceMap: true,
	}

	outputs := make([]Output, 0, len(names))
	for _, name := range names {
		o := Output(strings.TrimSpace(name))
		if !valid[o] {
			return nil, fmt.Errorf("unknown compiler output kind %q", name)
		}
		outputs = append(outputs, o)
	}
	return outputs, nil
}

// Installer yields an executable path for a compiler version, installing it
// first if needed.
type Installer interface {
	Ensure(ctx context.Context, v semver.Version) (string, error)
}

// Request describes one compiler invocation.
type Request struct {
	// ID correlates log lines for this invocation.
	ID          string
	ProjectRoot string
	Files       []string
	Version     semver.Version
	Remappings  []string
	Outputs     []Output
}

// CompilationError carries everything needed to reproduce a failed run.
type CompilationError struct {
	Command  []string
	ExitCode int
	Stdout   string
	Stderr   string
	Files    []string
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("compiler exited with status %d", e.ExitCode)
}

// Invoker runs solc binaries through an ExecRunner.
type Invoker struct {
	installer Installer
	runner    ExecRunner
	log       *logging.Logger
}

// NewInvoker creates an Invoker.
func NewInvoker(installer Installer, runner ExecRunner, log *logging.Logger) *Invoker {
	return &Invoker{installer: installer, runner: runner, log: log}
}

// Compile ensures the requested compiler is installed, runs it over the
// request's files, and decodes the combined JSON output.
func (i *Invoker) Compile(ctx context.Context, req Request) (*Result, error) {
	binary, err := i.installer.Ensure(ctx, req.Version)
	if err != nil {
		return nil, errors.New(errors.CompilerVersionNotSupported,
			fmt.Sprintf("solc %s is not available", req.Version), err)
	}

	// Ensure just guaranteed this file. Its absence means the install tree
	// broke underneath us, which no retry will fix.
	if _, err := os.Stat(binary); err != nil {
		return nil, errors.New(errors.InternalError,
			fmt.Sprintf("compiler binary missing after install: %s", binary), err)
	}

	args := buildArgs(req)
	i.log.Debug("Running compiler", map[string]interface{}{
		"request": req.ID,
		"version": req.Version.String(),
		"binary":  binary,
		"files":   len(req.Files),
	})

	stdout, stderr, err := i.runner.Run(ctx, binary, args...)
	if err != nil {
		cause := &CompilationError{
			Command:  append([]string{binary}, args...),
			ExitCode: runExitCode(err),
			Stdout:   stdout,
			Stderr:   stderr,
			Files:    req.Files,
		}
		i.log.Debug("Compiler run failed", map[string]interface{}{
			"request": req.ID,
			"exit":    cause.ExitCode,
		})
		return nil, errors.New(errors.CompilationFailed,
			fmt.Sprintf("solc %s failed", req.Version), cause)
	}

	result, err := parseCombined(stdout)
	if err != nil {
		return nil, errors.New(errors.InternalError,
			fmt.Sprintf("solc %s produced unreadable output", req.Version), err)
	}

	i.log.Debug("Compiler run finished", map[string]interface{}{
		"request":   req.ID,
		"contracts": result.ContractCount(),
	})
	return result, nil
}

// buildArgs assembles the solc command line: requested outputs first, then
// remappings, then the allow-paths grant, then the files.
func buildArgs(req Request) []string {
	outputs := req.Outputs
	if len(outputs) == 0 {
		outputs = DefaultOutputs
	}
	kinds := make([]string, len(outputs))
	for i, o := range outputs {
		kinds[i] = string(o)
	}

	args := []string{"--combined-json", strings.Join(kinds, ",")}
	args = append(args, req.Remappings...)
	if req.ProjectRoot != "" {
		args = append(args, "--allow-paths", req.ProjectRoot)
	}
	return append(args, req.Files...)
}

func runExitCode(err error) int {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}
