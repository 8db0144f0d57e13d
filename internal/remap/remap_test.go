package remap

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeProjectFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Entry
		wantErr bool
	}{
		{"foo=lib/foo", Entry{"foo", "lib/foo"}, false},
		{"@oz/=lib/oz/", Entry{"@oz/", "lib/oz/"}, false},
		{"a=b=c", Entry{"a", "b=c"}, false},
		{"noequals", Entry{}, true},
		{"=path", Entry{}, true},
		{"name=", Entry{}, true},
		{"", Entry{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEntryString(t *testing.T) {
	e := Entry{Name: "foo", Path: "/proj/lib/foo"}
	if got := e.String(); got != "foo=/proj/lib/foo" {
		t.Errorf("String() = %q", got)
	}
}

func TestBuildCompletesRelativeTargets(t *testing.T) {
	root := t.TempDir()

	entries, err := Build(root, []Entry{{Name: "foo", Path: "lib/foo"}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []Entry{{Name: "foo", Path: filepath.Join(root, "lib", "foo")}}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("Build = %v, want %v", entries, want)
	}
}

func TestBuildKeepsAbsoluteTargets(t *testing.T) {
	root := t.TempDir()

	entries, err := Build(root, []Entry{{Name: "foo", Path: "/elsewhere/foo"}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if entries[0].Path != "/elsewhere/foo" {
		t.Errorf("absolute target rewritten to %q", entries[0].Path)
	}
}

func TestBuildPrecedence(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "remappings.txt", "a=from-txt\nshared=from-txt\n")
	writeProjectFile(t, root, "foundry.toml", `
[profile.default]
remappings = ["a=from-foundry", "b=from-foundry", "shared=from-foundry"]
`)

	entries, err := Build(root, []Entry{{Name: "shared", Path: "from-override"}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	byName := make(map[string]string, len(entries))
	for _, e := range entries {
		byName[e.Name] = e.Path
	}
	if got := byName["shared"]; got != filepath.Join(root, "from-override") {
		t.Errorf("shared = %q, want the override target", got)
	}
	if got := byName["a"]; got != filepath.Join(root, "from-txt") {
		t.Errorf("a = %q, want the remappings.txt target", got)
	}
	if got := byName["b"]; got != filepath.Join(root, "from-foundry") {
		t.Errorf("b = %q, want the foundry.toml target", got)
	}
}

func TestBuildEarlierOverrideLayersWin(t *testing.T) {
	root := t.TempDir()

	flags := []Entry{{Name: "pkg", Path: "from-flags"}}
	manifest := []Entry{{Name: "pkg", Path: "from-manifest"}, {Name: "other", Path: "from-manifest"}}

	entries, err := Build(root, flags, manifest)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Path != filepath.Join(root, "from-flags") {
		t.Errorf("pkg = %q, want the flag target", entries[0].Path)
	}
}

func TestBuildFoundryProfileSelection(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "foundry.toml", `
[profile.default]
remappings = ["pkg=default-target"]

[profile.ci]
remappings = ["pkg=ci-target"]
`)

	t.Setenv("FOUNDRY_PROFILE", "ci")
	entries, err := Build(root)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != filepath.Join(root, "ci-target") {
		t.Errorf("entries = %v, want the ci profile target", entries)
	}
}

func TestBuildPreservesTrailingSeparator(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "foundry.toml", `
[profile.default]
remappings = ["@oz/=lib/oz/"]
`)

	entries, err := Build(root)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	want := filepath.Join(root, "lib", "oz") + "/"
	if len(entries) != 1 || entries[0].Path != want {
		t.Errorf("entries = %v, want target %q", entries, want)
	}
}

func TestBuildSkipsCommentsAndBlanks(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "remappings.txt", "# comment\n\nfoo=lib/foo\n")

	entries, err := Build(root)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "foo" {
		t.Errorf("entries = %v, want only foo", entries)
	}
}

func TestBuildMalformedRemappingsFile(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "remappings.txt", "not-a-remapping\n")

	if _, err := Build(root); err == nil {
		t.Fatal("expected an error for a malformed remappings.txt")
	}
}

func TestBuildAutoDetectsNodeModulesPackages(t *testing.T) {
	root := t.TempDir()
	for _, pkg := range []string{"zeppelin-solidity", "openzeppelin-solidity", "unrelated"} {
		if err := os.MkdirAll(filepath.Join(root, "node_modules", pkg), 0755); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := Build(root)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []Entry{
		{Name: "zeppelin-solidity", Path: filepath.Join(root, "node_modules", "zeppelin-solidity")},
		{Name: "openzeppelin-solidity", Path: filepath.Join(root, "node_modules", "openzeppelin-solidity")},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("Build = %v, want %v", entries, want)
	}
}

func TestBuildFindsNestedNodeModules(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "app", "node_modules", "openzeppelin-solidity")
	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		t.Fatal(err)
	}

	entries, err := Build(root)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != pkgDir {
		t.Errorf("entries = %v, want %q", entries, pkgDir)
	}
}

func TestBuildOverrideBeatsAutoDetection(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "node_modules", "zeppelin-solidity"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, err := Build(root, []Entry{{Name: "zeppelin-solidity", Path: "/pinned/zeppelin"}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "/pinned/zeppelin" {
		t.Errorf("entries = %v, want the pinned target", entries)
	}
}

func TestBuildEmptyProject(t *testing.T) {
	entries, err := Build(t.TempDir())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %v, want none", entries)
	}
}
