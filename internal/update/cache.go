package update

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"gosolc/internal/paths"
)

// cacheFileName is the name of the update check cache file
const cacheFileName = "update-check.json"

// CacheEntry stores the cached update check result
type CacheEntry struct {
	LatestVersion string    `json:"latest_version"`
	CheckedAt     time.Time `json:"checked_at"`
}

// Cache handles caching of update check results
type Cache struct {
	path string
}

// NewCache creates a cache at the default location,
// $GOSOLC_HOME/update-check.json.
func NewCache() *Cache {
	home, err := paths.Home()
	if err != nil {
		return &Cache{}
	}
	return &Cache{path: filepath.Join(home, cacheFileName)}
}

// Get returns the cached entry and whether it needs refresh.
// Returns (nil, true) if the cache doesn't exist or is corrupted.
// Returns (entry, true) if the cache exists but is stale.
// Returns (entry, false) if the cache is fresh.
func (c *Cache) Get() (*CacheEntry, bool) {
	if c.path == "" {
		return nil, true
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, true
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, true
	}

	isStale := time.Since(entry.CheckedAt) > checkInterval

	return &entry, isStale
}

// Set updates the cache with the latest version. Failures are swallowed;
// the next check just fetches again.
func (c *Cache) Set(latestVersion string) {
	if c.path == "" {
		return
	}

	entry := CacheEntry{
		LatestVersion: latestVersion,
		CheckedAt:     time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return
	}

	// Write-then-rename so a crashed update never truncates the cache.
	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return
	}
	_ = os.Rename(tmpPath, c.path)
}
