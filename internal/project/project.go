// Package project discovers the Solidity sources of a project directory and
// reads its optional .gosolc.yaml manifest.
package project

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"gosolc/internal/errors"
)

const (
	sourceExt        = ".sol"
	manifestFileName = ".gosolc.yaml"

	nodeModulesDirName = "node_modules"
	testDirName        = "test"
)

// Sources lists a project's Solidity files in walk order. Anything under
// node_modules never counts as project source. Files under a test directory
// are held back and returned only when nothing else exists, so repositories
// that consist solely of test contracts still compile.
func Sources(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var primary, testOnly []string
	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == nodeModulesDirName {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), sourceExt) {
			return nil
		}

		rel, err := filepath.Rel(absRoot, p)
		if err != nil {
			return err
		}
		if underTestDir(rel) {
			testOnly = append(testOnly, p)
		} else {
			primary = append(primary, p)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, noProject(absRoot)
		}
		return nil, err
	}

	files := primary
	if len(files) == 0 {
		files = testOnly
	}
	if len(files) == 0 {
		return nil, noProject(absRoot)
	}
	return files, nil
}

func noProject(dir string) error {
	return errors.New(errors.NoSolidityProject,
		fmt.Sprintf("no Solidity sources under %s", dir), nil).
		WithDetails(map[string]string{"dir": dir})
}

// underTestDir reports whether any directory component of the root-relative
// path is named "test". The file name itself does not count, so test.sol at
// the project root is a normal source.
func underTestDir(rel string) bool {
	dir := path.Dir(filepath.ToSlash(rel))
	if dir == "." {
		return false
	}
	for _, seg := range strings.Split(dir, "/") {
		if seg == testDirName {
			return true
		}
	}
	return false
}

// Manifest is the optional per-project .gosolc.yaml. A version pin skips
// resolution entirely; outputs and remappings merge below command-line
// flags.
type Manifest struct {
	Compiler struct {
		Version string `yaml:"version"`
	} `yaml:"compiler"`
	Outputs    []string `yaml:"outputs"`
	Remappings []string `yaml:"remappings"`
}

// LoadManifest reads root/.gosolc.yaml. A missing file is a zero manifest,
// not an error.
func LoadManifest(root string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(root, manifestFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", manifestFileName, err)
	}
	return &m, nil
}
