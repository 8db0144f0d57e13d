// Package install manages the local tree of solc binaries: one statically
// linked executable per version, named solc-v<version>, plus a TOML ledger
// recording where each binary came from and its keccak256 digest.
package install

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"

	"gosolc/internal/logging"
	"gosolc/internal/paths"
	"gosolc/internal/semver"
	"gosolc/internal/version"
)

// DefaultDownloadURLTemplate locates a release binary. The single %s verb
// takes the bare version, e.g. "0.8.24".
const DefaultDownloadURLTemplate = "https://github.com/ethereum/solidity/releases/download/v%s/solc-static-linux"

const (
	binaryPrefix           = "solc-"
	installDirName         = "compilers"
	defaultDownloadTimeout = 10 * time.Minute
)

// Manager owns one install directory.
type Manager struct {
	dir         string
	urlTemplate string
	client      *http.Client
	log         *logging.Logger
}

// Option customizes a Manager.
type Option func(*Manager)

// WithURLTemplate replaces the release binary URL template.
func WithURLTemplate(template string) Option {
	return func(m *Manager) { m.urlTemplate = template }
}

// WithHTTPClient replaces the default download client.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) { m.client = client }
}

// NewManager creates a Manager over dir. The directory is created lazily on
// first install.
func NewManager(dir string, log *logging.Logger, opts ...Option) *Manager {
	m := &Manager{
		dir:         dir,
		urlTemplate: DefaultDownloadURLTemplate,
		client:      &http.Client{Timeout: defaultDownloadTimeout},
		log:         log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DefaultDir returns the standard install directory, ~/.gosolc/compilers.
func DefaultDir() (string, error) {
	home, err := paths.Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, installDirName), nil
}

// Dir returns the install directory.
func (m *Manager) Dir() string {
	return m.dir
}

// BinaryPath returns where the binary for v lives, whether or not it is
// installed.
func (m *Manager) BinaryPath(v semver.Version) string {
	return filepath.Join(m.dir, binaryPrefix+"v"+v.String())
}

// Installed lists installed compiler identifiers ("v0.4.25") straight from
// the directory listing. The ledger is provenance metadata, never the
// source of truth for what is installed.
func (m *Manager) Installed() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), binaryPrefix) {
			continue
		}
		ids = append(ids, strings.TrimPrefix(entry.Name(), binaryPrefix))
	}
	return ids, nil
}

// Versions lists installed compilers as parsed versions, ascending. Files
// whose names do not parse are skipped.
func (m *Manager) Versions() ([]semver.Version, error) {
	ids, err := m.Installed()
	if err != nil {
		return nil, err
	}

	versions := make([]semver.Version, 0, len(ids))
	for _, id := range ids {
		v, err := semver.Parse(strings.TrimPrefix(id, "v"))
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}
	sort.Sort(semver.Versions(versions))
	return versions, nil
}

// Ensure returns the binary path for v, downloading the release binary on
// first use. An already installed binary is checked against the digest the
// ledger recorded for it; a mismatch is reported as an error rather than
// silently redownloaded.
func (m *Manager) Ensure(ctx context.Context, v semver.Version) (string, error) {
	path := m.BinaryPath(v)

	if _, err := os.Stat(path); err == nil {
		if err := m.verify(v, path); err != nil {
			return "", err
		}
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", err
	}

	return m.download(ctx, v, path)
}

func (m *Manager) download(ctx context.Context, v semver.Version, dest string) (string, error) {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return "", err
	}

	url := fmt.Sprintf(m.urlTemplate, v)
	m.log.Info("Downloading compiler", map[string]interface{}{
		"version": v.String(),
		"url":     url,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "gosolc/"+version.Version)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading compiler %s: %w", v, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("compiler download for %s returned status %d", v, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(m.dir, ".download-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	// Digest while streaming so the binary is hashed exactly as written.
	hasher := sha3.NewLegacyKeccak256()
	size, err := io.Copy(tmp, io.TeeReader(resp.Body, hasher))
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("downloading compiler %s: %w", v, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmpName, 0755); err != nil {
		return "", err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return "", err
	}

	digest := hex.EncodeToString(hasher.Sum(nil))
	if err := m.record(v, dest, digest); err != nil {
		// The binary is installed and usable; a ledger write failure only
		// loses provenance.
		m.log.Warn("Could not update install ledger", map[string]interface{}{
			"version": v.String(),
			"error":   err.Error(),
		})
	}

	m.log.Info("Compiler installed", map[string]interface{}{
		"version":   v.String(),
		"path":      dest,
		"bytes":     size,
		"keccak256": digest,
	})
	return dest, nil
}

// verify checks an installed binary against its ledger digest. Binaries
// with no ledger entry (installed by hand, or before the ledger existed)
// pass unchecked.
func (m *Manager) verify(v semver.Version, path string) error {
	led, err := m.readLedger()
	if err != nil {
		m.log.Warn("Install ledger unreadable, skipping binary verification", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	entry, ok := led.find(v.String())
	if !ok {
		return nil
	}

	digest, err := keccakFile(path)
	if err != nil {
		return err
	}
	if digest != entry.Keccak256 {
		return fmt.Errorf("compiler %s at %s does not match its recorded keccak256 digest; remove the file to reinstall", v, path)
	}
	return nil
}

func keccakFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := sha3.NewLegacyKeccak256()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
