// Package catalog maintains the set of compiler versions gosolc can
// install and run. A catalog snapshot is built per resolution session from
// the GitHub release listing, or from the locally installed compilers when
// the listing is unreachable; it is never merged with earlier state.
package catalog

import (
	"sort"
	"strings"

	"gosolc/internal/semver"
)

const (
	// DefaultReleasesURL lists the Solidity compiler releases.
	DefaultReleasesURL = "https://api.github.com/repos/ethereum/solidity/releases"

	// StaticLinuxAsset is the release asset name that marks a version as
	// installable on this platform.
	StaticLinuxAsset = "solc-static-linux"
)

// MinimumSupported is the oldest compiler version gosolc will offer.
// Earlier releases predate the static Linux builds.
var MinimumSupported = semver.MustParse("0.4.11")

// Release mirrors the fields gosolc reads from the release listing.
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// Asset is one downloadable artifact attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

func (r Release) hasAsset(name string) bool {
	for _, a := range r.Assets {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Snapshot is one immutable view of the installable compiler versions,
// sorted ascending. Build it with NewSnapshot or Source.Refresh; never
// insert versions by hand.
type Snapshot struct {
	versions semver.Versions
}

// NewSnapshot copies and sorts the given versions into a snapshot.
func NewSnapshot(versions []semver.Version) *Snapshot {
	vs := make(semver.Versions, len(versions))
	copy(vs, versions)
	sort.Sort(vs)
	return &Snapshot{versions: vs}
}

// Len returns the number of versions in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.versions)
}

// Empty reports whether the snapshot holds no versions at all.
func (s *Snapshot) Empty() bool {
	return len(s.versions) == 0
}

// Versions returns the versions in ascending order. The slice is a copy;
// the snapshot itself never changes.
func (s *Snapshot) Versions() []semver.Version {
	out := make([]semver.Version, len(s.versions))
	copy(out, s.versions)
	return out
}

// Latest returns the newest version in the snapshot, or false if empty.
func (s *Snapshot) Latest() (semver.Version, bool) {
	if len(s.versions) == 0 {
		return semver.Version{}, false
	}
	return s.versions[len(s.versions)-1], true
}

// filterReleases keeps the versions the catalog may offer: parseable tag,
// at or above the minimum supported version, and carrying the static Linux
// binary asset.
func filterReleases(releases []Release) []semver.Version {
	kept := make([]semver.Version, 0, len(releases))
	for _, rel := range releases {
		v, err := semver.Parse(strings.TrimPrefix(rel.TagName, "v"))
		if err != nil {
			continue // nightly and oddly tagged entries
		}
		if v.Less(MinimumSupported) || !rel.hasAsset(StaticLinuxAsset) {
			continue
		}
		kept = append(kept, v)
	}
	return kept
}
