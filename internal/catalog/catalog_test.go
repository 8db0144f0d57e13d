package catalog

import (
	"testing"

	"gosolc/internal/semver"
)

func TestSnapshotOrdering(t *testing.T) {
	snap := NewSnapshot([]semver.Version{
		semver.MustParse("0.6.0"),
		semver.MustParse("0.4.11"),
		semver.MustParse("0.4.25"),
	})

	if snap.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", snap.Len())
	}

	vs := snap.Versions()
	want := []string{"0.4.11", "0.4.25", "0.6.0"}
	for i, w := range want {
		if vs[i].String() != w {
			t.Errorf("Versions()[%d] = %s, want %s", i, vs[i], w)
		}
	}

	latest, ok := snap.Latest()
	if !ok || latest.String() != "0.6.0" {
		t.Errorf("Latest() = %v, %v", latest, ok)
	}
}

func TestSnapshotVersionsIsACopy(t *testing.T) {
	snap := NewSnapshot([]semver.Version{semver.MustParse("0.4.24")})

	vs := snap.Versions()
	vs[0] = semver.MustParse("9.9.9")

	if got := snap.Versions()[0]; got.String() != "0.4.24" {
		t.Errorf("snapshot mutated through Versions(): %s", got)
	}
}

func TestEmptySnapshot(t *testing.T) {
	snap := NewSnapshot(nil)
	if !snap.Empty() {
		t.Error("Empty() = false for empty snapshot")
	}
	if _, ok := snap.Latest(); ok {
		t.Error("Latest() should report false on empty snapshot")
	}
}

func TestFilterReleases(t *testing.T) {
	staticLinux := []Asset{{Name: StaticLinuxAsset, BrowserDownloadURL: "https://example.com/solc"}}

	releases := []Release{
		{TagName: "v0.6.1", Assets: staticLinux},
		{TagName: "v0.4.10", Assets: staticLinux},                            // below minimum
		{TagName: "v0.5.0", Assets: []Asset{{Name: "solc-windows.exe"}}},     // no static linux build
		{TagName: "v0.4.25", Assets: staticLinux},
		{TagName: "nightly-2018.5.2", Assets: staticLinux},                   // unparseable tag
		{TagName: "v0.4.11", Assets: staticLinux},
	}

	got := filterReleases(releases)

	want := []string{"0.6.1", "0.4.25", "0.4.11"}
	if len(got) != len(want) {
		t.Fatalf("kept %d versions, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].String() != w {
			t.Errorf("kept[%d] = %s, want %s", i, got[i], w)
		}
	}
}
