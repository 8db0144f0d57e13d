// Package compile orchestrates one project compilation: discover sources,
// merge project manifest and caller options, assemble remappings, resolve
// (or accept a pinned) compiler version, and invoke the compiler.
package compile

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"

	"gosolc/internal/catalog"
	"gosolc/internal/errors"
	"gosolc/internal/logging"
	"gosolc/internal/project"
	"gosolc/internal/remap"
	"gosolc/internal/resolver"
	"gosolc/internal/semver"
	"gosolc/internal/solc"
)

// CatalogSource yields the set of installable compiler versions.
type CatalogSource interface {
	Refresh(ctx context.Context) (*catalog.Snapshot, error)
}

// Invoker runs the compiler over an assembled request.
type Invoker interface {
	Compile(ctx context.Context, req solc.Request) (*solc.Result, error)
}

// Options carries the caller's compilation settings. Anything left zero
// falls back to the project manifest, then to defaults.
type Options struct {
	ProjectRoot string

	// Version pins the compiler, skipping catalog refresh and resolution.
	Version *semver.Version

	// Outputs overrides both the manifest and DefaultOutputs when set.
	Outputs []solc.Output

	// DefaultOutputs applies when neither Outputs nor the manifest name any.
	DefaultOutputs []solc.Output

	Remappings []string
}

// Compiler wires the collaborators for repeated Run calls.
type Compiler struct {
	source  CatalogSource
	invoker Invoker
	log     *logging.Logger
}

// New creates a Compiler.
func New(source CatalogSource, invoker Invoker, log *logging.Logger) *Compiler {
	return &Compiler{source: source, invoker: invoker, log: log}
}

// Run compiles the project and returns the decoded result.
func (c *Compiler) Run(ctx context.Context, opts Options) (*solc.Result, error) {
	root, err := filepath.Abs(opts.ProjectRoot)
	if err != nil {
		return nil, err
	}

	files, err := project.Sources(root)
	if err != nil {
		return nil, err
	}

	manifest, err := project.LoadManifest(root)
	if err != nil {
		return nil, err
	}

	pin, err := mergePin(opts.Version, manifest)
	if err != nil {
		return nil, err
	}
	outputs, err := mergeOutputs(opts.Outputs, opts.DefaultOutputs, manifest)
	if err != nil {
		return nil, err
	}
	entries, err := mergeRemappings(root, opts.Remappings, manifest)
	if err != nil {
		return nil, err
	}

	var chosen semver.Version
	if pin != nil {
		chosen = *pin
		c.log.Debug("Compiler version pinned", map[string]interface{}{
			"version": chosen.String(),
		})
	} else {
		snap, err := c.source.Refresh(ctx)
		if err != nil {
			return nil, err
		}
		chosen, err = resolver.Resolve(snap, files)
		if err != nil {
			return nil, err
		}
	}

	req := solc.Request{
		ID:          uuid.New().String(),
		ProjectRoot: root,
		Files:       files,
		Version:     chosen,
		Remappings:  remap.Strings(entries),
		Outputs:     outputs,
	}

	c.log.Info("Compiling project", map[string]interface{}{
		"request": req.ID,
		"root":    root,
		"version": chosen.String(),
		"files":   len(files),
	})
	return c.invoker.Compile(ctx, req)
}

// mergePin prefers the caller's pin over the manifest's.
func mergePin(flag *semver.Version, manifest *project.Manifest) (*semver.Version, error) {
	if flag != nil {
		return flag, nil
	}
	if manifest.Compiler.Version == "" {
		return nil, nil
	}

	v, err := semver.Parse(manifest.Compiler.Version)
	if err != nil {
		return nil, errors.New(errors.ConfigInvalid,
			"invalid compiler.version in project manifest", err)
	}
	return &v, nil
}

func mergeOutputs(flag, fallback []solc.Output, manifest *project.Manifest) ([]solc.Output, error) {
	if len(flag) > 0 {
		return flag, nil
	}
	if len(manifest.Outputs) == 0 {
		return fallback, nil
	}

	outputs, err := solc.ParseOutputs(manifest.Outputs)
	if err != nil {
		return nil, errors.New(errors.ConfigInvalid,
			"invalid outputs in project manifest", err)
	}
	return outputs, nil
}

// mergeRemappings layers flag entries over manifest entries over whatever
// the remapper discovers in the project itself.
func mergeRemappings(root string, flags []string, manifest *project.Manifest) ([]remap.Entry, error) {
	flagEntries, err := remap.ParseAll(flags)
	if err != nil {
		return nil, err
	}
	manifestEntries, err := remap.ParseAll(manifest.Remappings)
	if err != nil {
		return nil, errors.New(errors.ConfigInvalid,
			"invalid remappings in project manifest", err)
	}
	return remap.Build(root, flagEntries, manifestEntries)
}
