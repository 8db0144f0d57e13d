package install

import (
	"context"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/sha3"

	"gosolc/internal/logging"
	"gosolc/internal/semver"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Level: logging.ErrorLevel, Output: io.Discard})
}

func keccakOf(t *testing.T, data []byte) string {
	t.Helper()
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// binaryServer serves the same body for every release binary URL and counts
// the requests it sees.
func binaryServer(t *testing.T, body *[]byte, hits *int) *Manager {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		w.Write(*body)
	}))
	t.Cleanup(server.Close)

	return NewManager(filepath.Join(t.TempDir(), "compilers"), testLogger(),
		WithURLTemplate(server.URL+"/v%s/solc-static-linux"))
}

func TestBinaryPath(t *testing.T) {
	m := NewManager("/opt/gosolc/compilers", testLogger())
	want := "/opt/gosolc/compilers/solc-v0.4.25"
	if got := m.BinaryPath(semver.MustParse("0.4.25")); got != want {
		t.Errorf("BinaryPath = %q, want %q", got, want)
	}
}

func TestInstalledMissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "nope"), testLogger())
	ids, err := m.Installed()
	if err != nil {
		t.Fatalf("Installed failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v, want none", ids)
	}
}

func TestInstalledListsBinaries(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"solc-v0.4.25", "solc-v0.8.0", "solc-broken", "manifest.toml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "solc-v0.5.0"), 0755); err != nil {
		t.Fatal(err)
	}

	m := NewManager(dir, testLogger())
	ids, err := m.Installed()
	if err != nil {
		t.Fatalf("Installed failed: %v", err)
	}
	// Raw directory-listing view: anything named solc-* that is a file.
	want := []string{"broken", "v0.4.25", "v0.8.0"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}

	versions, err := m.Versions()
	if err != nil {
		t.Fatalf("Versions failed: %v", err)
	}
	if len(versions) != 2 || versions[0] != semver.MustParse("0.4.25") || versions[1] != semver.MustParse("0.8.0") {
		t.Errorf("Versions = %v, want [0.4.25 0.8.0]", versions)
	}
}

func TestEnsureDownloadsOnce(t *testing.T) {
	body := []byte("fake solc binary")
	hits := 0
	m := binaryServer(t, &body, &hits)
	v := semver.MustParse("0.4.25")

	path, err := m.Ensure(context.Background(), v)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if path != m.BinaryPath(v) {
		t.Errorf("Ensure = %q, want %q", path, m.BinaryPath(v))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(body) {
		t.Errorf("binary content = %q, want %q", data, body)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&0111 == 0 {
		t.Errorf("binary mode = %v, want executable", info.Mode())
	}

	if _, err := m.Ensure(context.Background(), v); err != nil {
		t.Fatalf("second Ensure failed: %v", err)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
}

func TestEnsureRecordsLedger(t *testing.T) {
	body := []byte("ledger me")
	hits := 0
	m := binaryServer(t, &body, &hits)
	v := semver.MustParse("0.8.0")

	path, err := m.Ensure(context.Background(), v)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	var led ledger
	if _, err := toml.DecodeFile(m.ledgerPath(), &led); err != nil {
		t.Fatalf("reading ledger: %v", err)
	}
	entry, ok := led.find("0.8.0")
	if !ok {
		t.Fatalf("ledger has no entry for 0.8.0: %+v", led)
	}
	if entry.Path != path {
		t.Errorf("ledger path = %q, want %q", entry.Path, path)
	}
	if entry.Keccak256 != keccakOf(t, body) {
		t.Errorf("ledger digest = %q, want %q", entry.Keccak256, keccakOf(t, body))
	}
	if entry.InstalledAt.IsZero() {
		t.Error("ledger entry has no install time")
	}
}

func TestEnsureDetectsTamperedBinary(t *testing.T) {
	body := []byte("original")
	hits := 0
	m := binaryServer(t, &body, &hits)
	v := semver.MustParse("0.8.0")

	path, err := m.Ensure(context.Background(), v)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("tampered"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err = m.Ensure(context.Background(), v)
	if err == nil {
		t.Fatal("expected a digest mismatch error")
	}
	if !strings.Contains(err.Error(), "digest") {
		t.Errorf("error = %v, want a digest mismatch", err)
	}
	if hits != 1 {
		t.Errorf("tampered binary triggered a redownload (hits = %d)", hits)
	}
}

func TestEnsureAcceptsUnledgeredBinary(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, testLogger(),
		WithURLTemplate("http://127.0.0.1:0/unreachable/v%s/x"))
	v := semver.MustParse("0.4.25")

	// Placed by hand, so no ledger entry exists for it.
	if err := os.WriteFile(m.BinaryPath(v), []byte("preexisting"), 0755); err != nil {
		t.Fatal(err)
	}

	path, err := m.Ensure(context.Background(), v)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if path != m.BinaryPath(v) {
		t.Errorf("Ensure = %q, want %q", path, m.BinaryPath(v))
	}
}

func TestEnsureDownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	m := NewManager(filepath.Join(t.TempDir(), "compilers"), testLogger(),
		WithURLTemplate(server.URL+"/v%s/solc-static-linux"))
	v := semver.MustParse("0.9.9")

	if _, err := m.Ensure(context.Background(), v); err == nil {
		t.Fatal("expected an error for a 404 download")
	}
	if _, err := os.Stat(m.BinaryPath(v)); !os.IsNotExist(err) {
		t.Error("failed download left a binary behind")
	}
}

func TestReinstallReplacesLedgerEntry(t *testing.T) {
	body := []byte("first build")
	hits := 0
	m := binaryServer(t, &body, &hits)
	v := semver.MustParse("0.8.0")

	if _, err := m.Ensure(context.Background(), v); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if err := os.Remove(m.BinaryPath(v)); err != nil {
		t.Fatal(err)
	}

	body = []byte("second build")
	if _, err := m.Ensure(context.Background(), v); err != nil {
		t.Fatalf("reinstall failed: %v", err)
	}

	var led ledger
	if _, err := toml.DecodeFile(m.ledgerPath(), &led); err != nil {
		t.Fatalf("reading ledger: %v", err)
	}
	if len(led.Compilers) != 1 {
		t.Fatalf("ledger has %d entries, want 1", len(led.Compilers))
	}
	if led.Compilers[0].Keccak256 != keccakOf(t, []byte("second build")) {
		t.Errorf("ledger digest not updated: %q", led.Compilers[0].Keccak256)
	}
}
