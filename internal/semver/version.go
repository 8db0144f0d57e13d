// Package semver implements the version arithmetic used to choose a
// Solidity compiler: three-part numeric versions, pragma-style comparison
// constraints, and the caret compatibility relation.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// versionPattern accepts "major.minor.patch" and "major.minor"; a missing
// patch component reads as zero, so "0.5" and "0.5.0" are the same version.
var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?$`)

// Version is a three-part compiler version. It is a comparable value type:
// construct it with Parse (or MustParse in tests) and treat it as immutable.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse converts a numeric version string into a Version.
func Parse(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Version{}, fmt.Errorf("invalid compiler version %q", s)
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Version{}, fmt.Errorf("invalid major component in %q: %w", s, err)
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Version{}, fmt.Errorf("invalid minor component in %q: %w", s, err)
	}
	patch := 0
	if m[3] != "" {
		patch, err = strconv.Atoi(m[3])
		if err != nil {
			return Version{}, fmt.Errorf("invalid patch component in %q: %w", s, err)
		}
	}

	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// MustParse is Parse for statically known inputs; it panics on error.
// Intended for tests and package-level defaults.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the version with all three components, regardless of how
// many the original input carried.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1 if v is older than o, 0 if equal, and 1 if newer.
func (v Version) Compare(o Version) int {
	if c := intCompare(v.Major, o.Major); c != 0 {
		return c
	}
	if c := intCompare(v.Minor, o.Minor); c != 0 {
		return c
	}
	return intCompare(v.Patch, o.Patch)
}

// Less reports whether v is older than o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// MarshalText implements encoding.TextMarshaler so versions serialize as
// plain "major.minor.patch" strings in JSON output.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// CompatibleWith reports whether v can stand in for the caret requirement
// req: the majors must match and v's (minor, patch) must be at least req's.
// This is the relation a "^x.y.z" pragma expresses.
func (v Version) CompatibleWith(req Version) bool {
	if v.Major != req.Major {
		return false
	}
	if v.Minor != req.Minor {
		return v.Minor > req.Minor
	}
	return v.Patch >= req.Patch
}

func intCompare(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Versions is an ascending-sortable collection of Version.
type Versions []Version

func (vs Versions) Len() int           { return len(vs) }
func (vs Versions) Swap(i, j int)      { vs[i], vs[j] = vs[j], vs[i] }
func (vs Versions) Less(i, j int) bool { return vs[i].Less(vs[j]) }
