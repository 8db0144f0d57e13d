// Package pragma extracts compiler version constraints from Solidity source
// files. Parsing is line oriented: the first pragma line that is not an
// experimental-feature marker decides the file's constraint set, and files
// with no such line yield an empty set.
package pragma

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gosolc/internal/semver"
)

const (
	versionKeyword     = "pragma"
	experimentalMarker = "experimental"
)

// constraintPattern matches a single constraint inside a pragma line: an
// optional comparison symbol immediately followed by a three-part version.
var constraintPattern = regexp.MustCompile(`(\^|>=|<=|>|<)?(\d+\.\d+\.\d+)`)

// ParseFile reads the file at path and returns the constraint set declared
// by its first version pragma. A file without one yields an empty set and
// no error.
func ParseFile(path string) (semver.ConstraintSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading source file: %w", err)
	}
	defer f.Close()

	set, err := Scan(f)
	if err != nil {
		return nil, fmt.Errorf("parsing pragma in %s: %w", path, err)
	}
	return set, nil
}

// Scan reads Solidity source line by line and returns the constraints found
// on the first eligible pragma line. Experimental-feature pragmas are
// skipped entirely: they enable compiler extensions and say nothing about
// versions. Scanning stops after the first eligible line; a source file is
// assumed to declare its version requirement once.
func Scan(r io.Reader) (semver.ConstraintSet, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, versionKeyword) || strings.Contains(line, experimentalMarker) {
			continue
		}
		return parseLine(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

// parseLine turns every operator+version match on an eligible line into one
// constraint; the matches combine by logical AND. A pragma line with no
// version at all (e.g. "pragma abicoder v2;") produces an empty set.
func parseLine(line string) (semver.ConstraintSet, error) {
	matches := constraintPattern.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	set := make(semver.ConstraintSet, 0, len(matches))
	for _, m := range matches {
		op, err := semver.ParseOp(m[1])
		if err != nil {
			return nil, err
		}
		v, err := semver.Parse(m[2])
		if err != nil {
			return nil, err
		}
		set = append(set, semver.Constraint{Op: op, Version: v})
	}
	return set, nil
}
