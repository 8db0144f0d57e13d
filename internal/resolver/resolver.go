// Package resolver selects the single compiler version a project compiles
// with. Per file it prefers the OLDEST catalog version satisfying the file's
// pragma constraints (maximizing backward compatibility), or the newest
// known version when a file declares none; across files it takes the NEWEST
// of those per-file choices, so one compiler satisfies every file's minimum.
package resolver

import (
	"fmt"

	"gosolc/internal/catalog"
	"gosolc/internal/errors"
	"gosolc/internal/pragma"
	"gosolc/internal/semver"
)

// FileChoice pairs a source file with its preferred compiler version.
type FileChoice struct {
	File       string         `json:"file"`
	Constraint string         `json:"constraint,omitempty"`
	Version    semver.Version `json:"version"`
}

// Resolve computes the project-wide compiler version for the given source
// files against one catalog snapshot.
func Resolve(snap *catalog.Snapshot, files []string) (semver.Version, error) {
	_, project, err := Explain(snap, files)
	return project, err
}

// Explain resolves like Resolve but also reports each file's preferred
// version, for diagnostic output. A per-file conflict aborts the whole
// resolution before any project-wide choice is made.
func Explain(snap *catalog.Snapshot, files []string) ([]FileChoice, semver.Version, error) {
	if snap.Empty() {
		return nil, semver.Version{}, errNoVersions()
	}
	if len(files) == 0 {
		return nil, semver.Version{}, fmt.Errorf("no source files to resolve")
	}

	known := snap.Versions()
	choices := make([]FileChoice, 0, len(files))
	var project semver.Version

	for i, file := range files {
		set, err := pragma.ParseFile(file)
		if err != nil {
			return nil, semver.Version{}, err
		}
		preferred, err := preferredVersion(known, file, set)
		if err != nil {
			return nil, semver.Version{}, err
		}

		choices = append(choices, FileChoice{
			File:       file,
			Constraint: set.String(),
			Version:    preferred,
		})
		if i == 0 || project.Less(preferred) {
			project = preferred
		}
	}

	return choices, project, nil
}

// ResolveFile computes a single file's preferred version.
func ResolveFile(snap *catalog.Snapshot, file string) (semver.Version, error) {
	if snap.Empty() {
		return semver.Version{}, errNoVersions()
	}
	set, err := pragma.ParseFile(file)
	if err != nil {
		return semver.Version{}, err
	}
	return preferredVersion(snap.Versions(), file, set)
}

// preferredVersion walks the ascending catalog, so the first satisfying
// version is the oldest one. Unconstrained files take the newest version
// the catalog knows.
func preferredVersion(known []semver.Version, file string, set semver.ConstraintSet) (semver.Version, error) {
	if set.Empty() {
		return known[len(known)-1], nil
	}

	for _, v := range known {
		if set.SatisfiedBy(v) {
			return v, nil
		}
	}

	return semver.Version{}, errors.New(errors.CompilerVersionNotSupported,
		fmt.Sprintf("conflicting compiler requirements in %s", file), nil).
		WithDetails(map[string]string{
			"file":        file,
			"constraints": set.String(),
		})
}

func errNoVersions() error {
	return errors.New(errors.CompilerVersionNotSupported,
		"no compiler versions available", nil)
}
