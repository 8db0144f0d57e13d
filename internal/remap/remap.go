// Package remap assembles Solidity import remappings for a project. Entries
// come from explicit settings, from the files build tools leave in the
// project root (remappings.txt, foundry.toml), and from well-known packages
// found under node_modules.
package remap

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"gosolc/internal/paths"
)

const (
	remappingsFileName = "remappings.txt"
	foundryFileName    = "foundry.toml"
	nodeModulesDirName = "node_modules"

	// foundryProfileEnvVar selects the foundry.toml profile to read, the
	// same way forge itself picks one.
	foundryProfileEnvVar  = "FOUNDRY_PROFILE"
	defaultFoundryProfile = "default"
)

// autoPackages are npm packages Solidity sources commonly import by bare
// name. When one exists under node_modules it is remapped automatically.
var autoPackages = []string{"zeppelin-solidity", "openzeppelin-solidity"}

// Entry is a single import remapping.
type Entry struct {
	Name string
	Path string
}

func (e Entry) String() string {
	return e.Name + "=" + e.Path
}

// Parse splits a "name=path" remapping string.
func Parse(s string) (Entry, error) {
	name, path, ok := strings.Cut(s, "=")
	if !ok || name == "" || path == "" {
		return Entry{}, fmt.Errorf("invalid remapping %q, want name=path", s)
	}
	return Entry{Name: name, Path: path}, nil
}

// ParseAll parses a list of "name=path" remapping strings.
func ParseAll(raw []string) ([]Entry, error) {
	entries := make([]Entry, 0, len(raw))
	for _, s := range raw {
		e, err := Parse(s)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Strings renders entries back to the "name=path" form solc accepts.
func Strings(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.String()
	}
	return out
}

// Build assembles the remapping set for projectRoot. Override layers win
// over same-named entries discovered on disk, and earlier layers win over
// later ones; among the discovered sources, remappings.txt ranks above
// foundry.toml, which ranks above the auto-detected node_modules packages.
// Relative targets are completed against projectRoot so solc sees only
// absolute paths.
func Build(projectRoot string, overrides ...[]Entry) ([]Entry, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, err
	}

	layers := make([][]Entry, 0, len(overrides)+3)
	layers = append(layers, overrides...)

	fromTxt, err := readRemappingsFile(filepath.Join(root, remappingsFileName))
	if err != nil {
		return nil, err
	}
	layers = append(layers, fromTxt)

	fromFoundry, err := readFoundryFile(filepath.Join(root, foundryFileName))
	if err != nil {
		return nil, err
	}
	layers = append(layers, fromFoundry)
	layers = append(layers, autoDetected(root))

	seen := make(map[string]bool)
	var merged []Entry
	for _, layer := range layers {
		for _, e := range layer {
			if e.Name == "" || seen[e.Name] {
				continue
			}
			seen[e.Name] = true
			e.Path = completeTarget(root, e.Path)
			merged = append(merged, e)
		}
	}
	return merged, nil
}

// completeTarget makes a remapping target absolute while preserving a
// trailing separator. solc substitutes the target for the name textually,
// so "lib/oz/" must stay "/root/lib/oz/" or remapped imports would
// concatenate without a separator.
func completeTarget(root, target string) string {
	resolved := paths.ResolveUnder(root, target)
	if strings.HasSuffix(target, "/") && !strings.HasSuffix(resolved, "/") {
		resolved += "/"
	}
	return resolved
}

// readRemappingsFile parses a forge-style remappings.txt: one entry per
// line, blank lines and #-comments ignored. A missing file is not an error.
func readRemappingsFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		e, err := Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return entries, nil
}

type foundryFile struct {
	Profile map[string]foundryProfile `toml:"profile"`
}

type foundryProfile struct {
	Remappings []string `toml:"remappings"`
}

// readFoundryFile pulls remappings from the active profile of a
// foundry.toml. A missing file is not an error; a malformed one is.
func readFoundryFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var parsed foundryFile
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	profile := os.Getenv(foundryProfileEnvVar)
	if profile == "" {
		profile = defaultFoundryProfile
	}
	entries, err := ParseAll(parsed.Profile[profile].Remappings)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return entries, nil
}

// autoDetected probes the first node_modules directory below root for the
// packages in autoPackages. Best effort: unreadable directories are simply
// not probed.
func autoDetected(root string) []Entry {
	nodeModules, ok := findNodeModules(root)
	if !ok {
		return nil
	}

	var entries []Entry
	for _, pkg := range autoPackages {
		dir := filepath.Join(nodeModules, pkg)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			entries = append(entries, Entry{Name: pkg, Path: dir})
		}
	}
	return entries
}

func findNodeModules(root string) (string, bool) {
	var found string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && d.Name() == nodeModulesDirName {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	return found, found != ""
}
