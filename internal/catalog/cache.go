package catalog

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"

	"gosolc/internal/paths"
)

// cacheFileName is the name of the release listing cache file
const cacheFileName = "releases.json.gz"

// defaultFreshness keeps repeat CLI runs off the GitHub API.
const defaultFreshness = time.Hour

// Cache persists the most recent successful release listing, gzip
// compressed. It is purely an optimization: a stale or unreadable cache is
// treated as absent, and the network-failure fallback never reads it.
type Cache struct {
	path      string
	freshness time.Duration
}

// NewCache creates a cache at the given path. A non-positive freshness uses
// the default window.
func NewCache(path string, freshness time.Duration) *Cache {
	if freshness <= 0 {
		freshness = defaultFreshness
	}
	return &Cache{path: path, freshness: freshness}
}

// DefaultCachePath returns the cache location under the gosolc home
// directory.
func DefaultCachePath() (string, error) {
	home, err := paths.Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "cache", cacheFileName), nil
}

// Get returns the cached listing body and whether it is still fresh. A
// missing, stale, or unreadable cache reports false.
func (c *Cache) Get() ([]byte, bool) {
	info, err := os.Stat(c.path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.freshness {
		return nil, false
	}

	f, err := os.Open(c.path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, false
	}
	defer zr.Close()

	body, err := io.ReadAll(zr)
	if err != nil {
		return nil, false
	}
	return body, true
}

// Set stores a listing body, compressing it on the way down. Failures are
// swallowed: the cache must never turn a working refresh into an error.
func (c *Cache) Set(body []byte) {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return
	}
	if err := zw.Close(); err != nil {
		return
	}

	// Write atomically by writing to temp file first
	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0644); err != nil {
		return
	}
	_ = os.Rename(tmpPath, c.path)
}
