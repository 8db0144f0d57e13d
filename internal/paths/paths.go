// Package paths centralizes filesystem conventions for gosolc: the tool
// home directory and path resolution rules shared by config, catalog cache,
// and the compiler install tree.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeEnvVar overrides the gosolc home directory, mainly for tests and
// sandboxed environments.
const HomeEnvVar = "GOSOLC_HOME"

// homeDirName is the directory created under the user's home when no
// override is set.
const homeDirName = ".gosolc"

// Home returns the gosolc home directory (~/.gosolc by default). The
// directory is not created here; callers create what they need.
func Home() (string, error) {
	if override := os.Getenv(HomeEnvVar); override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeDirName), nil
}

// Expand resolves a leading "~/" against the user's home directory. Config
// values like "~/.gosolc/compilers" pass through here before use.
func Expand(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// ResolveUnder makes path absolute by joining it to root unless it already
// is absolute. Remapping targets and manifest paths resolve this way.
func ResolveUnder(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
