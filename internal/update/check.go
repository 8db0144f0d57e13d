// Package update checks GitHub for a newer gosolc release and tells the
// user where to get it. Every failure is silent: an update notice is never
// worth breaking a compile over.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"gosolc/internal/semver"
	"gosolc/internal/version"
)

const (
	// latestReleaseURL is the GitHub API endpoint for the latest release
	latestReleaseURL = "https://api.github.com/repos/gosolc/gosolc/releases/latest"

	// releasesPage is the user-facing releases page
	releasesPage = "https://github.com/gosolc/gosolc/releases"

	// checkInterval is how often to check for updates (24 hours)
	checkInterval = 24 * time.Hour

	// httpTimeout is the timeout for the GitHub API request
	httpTimeout = 3 * time.Second

	// disableEnvVar disables update checking entirely when set
	disableEnvVar = "GOSOLC_NO_UPDATE_CHECK"
)

// releaseInfo represents the relevant fields from the GitHub Releases API
type releaseInfo struct {
	TagName string `json:"tag_name"`
}

// UpdateInfo describes an available update
type UpdateInfo struct {
	CurrentVersion string
	LatestVersion  string
	ReleasesURL    string
}

// Message formats the update notification for CLI output
func (u *UpdateInfo) Message() string {
	return fmt.Sprintf(
		"\nUpdate available: %s → %s\n%s\n",
		u.CurrentVersion,
		u.LatestVersion,
		u.ReleasesURL,
	)
}

// Checker handles update checking with caching
type Checker struct {
	cache  *Cache
	client *http.Client
	url    string
}

// NewChecker creates an update checker against the default release endpoint.
func NewChecker() *Checker {
	return &Checker{
		cache:  NewCache(),
		client: &http.Client{Timeout: httpTimeout},
		url:    latestReleaseURL,
	}
}

// CheckCached consults only the on-disk cache, never the network. Returns
// nil when no newer version is on record.
func (c *Checker) CheckCached() *UpdateInfo {
	if os.Getenv(disableEnvVar) != "" {
		return nil
	}

	cached, _ := c.cache.Get()
	if cached == nil {
		return nil
	}

	return c.compareVersions(cached.LatestVersion)
}

// Check returns the available update, fetching from GitHub when the cache
// is stale. Returns nil if up to date, disabled, or on any error.
func (c *Checker) Check(ctx context.Context) *UpdateInfo {
	if os.Getenv(disableEnvVar) != "" {
		return nil
	}

	cached, needsRefresh := c.cache.Get()
	if cached != nil && !needsRefresh {
		return c.compareVersions(cached.LatestVersion)
	}

	latest := c.fetchLatestVersion(ctx)
	if latest == "" {
		return nil
	}
	c.cache.Set(latest)

	return c.compareVersions(latest)
}

// fetchLatestVersion fetches the latest release tag from GitHub. Returns
// the bare version string, or empty on any error.
func (c *Checker) fetchLatestVersion(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, httpTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "gosolc/"+version.Version)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var release releaseInfo
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return ""
	}

	return strings.TrimPrefix(release.TagName, "v")
}

// compareVersions returns an UpdateInfo when latest is newer than the
// running build. Unparseable versions (dev builds, odd tags) produce nil.
func (c *Checker) compareVersions(latest string) *UpdateInfo {
	current := version.Version

	latestV, err := semver.Parse(latest)
	if err != nil {
		return nil
	}
	currentV, err := semver.Parse(current)
	if err != nil {
		return nil
	}

	if !currentV.Less(latestV) {
		return nil
	}

	return &UpdateInfo{
		CurrentVersion: current,
		LatestVersion:  latest,
		ReleasesURL:    releasesPage,
	}
}
