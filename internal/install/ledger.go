package install

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"gosolc/internal/semver"
)

// ledgerFileName sits next to the binaries in the install directory.
const ledgerFileName = "manifest.toml"

// ledger records what was installed, from where, and with which digest.
type ledger struct {
	Compilers []ledgerEntry `toml:"compilers"`
}

type ledgerEntry struct {
	Version     string    `toml:"version"`
	Path        string    `toml:"path"`
	Keccak256   string    `toml:"keccak256"`
	InstalledAt time.Time `toml:"installed_at"`
}

func (l *ledger) find(version string) (ledgerEntry, bool) {
	for _, entry := range l.Compilers {
		if entry.Version == version {
			return entry, true
		}
	}
	return ledgerEntry{}, false
}

// upsert replaces the entry for the same version or appends a new one.
func (l *ledger) upsert(entry ledgerEntry) {
	for i := range l.Compilers {
		if l.Compilers[i].Version == entry.Version {
			l.Compilers[i] = entry
			return
		}
	}
	l.Compilers = append(l.Compilers, entry)
}

func (m *Manager) ledgerPath() string {
	return filepath.Join(m.dir, ledgerFileName)
}

func (m *Manager) readLedger() (*ledger, error) {
	data, err := os.ReadFile(m.ledgerPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &ledger{}, nil
		}
		return nil, err
	}

	var led ledger
	if err := toml.Unmarshal(data, &led); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", m.ledgerPath(), err)
	}
	return &led, nil
}

func (m *Manager) writeLedger(led *ledger) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(led); err != nil {
		return err
	}

	// Write-then-rename keeps a crashed update from truncating the ledger.
	tmp, err := os.CreateTemp(m.dir, ".manifest-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, m.ledgerPath())
}

func (m *Manager) record(v semver.Version, path, digest string) error {
	led, err := m.readLedger()
	if err != nil {
		// A corrupt ledger is rebuilt rather than blocking installs.
		led = &ledger{}
	}

	led.upsert(ledgerEntry{
		Version:     v.String(),
		Path:        path,
		Keccak256:   digest,
		InstalledAt: time.Now().UTC(),
	})
	return m.writeLedger(led)
}
