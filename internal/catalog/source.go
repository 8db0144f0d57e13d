package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gosolc/internal/logging"
	"gosolc/internal/semver"
	"gosolc/internal/version"
)

// defaultFetchTimeout bounds the release listing request.
const defaultFetchTimeout = 30 * time.Second

// InstalledLister enumerates locally installed compiler identifiers, each
// prefixed with "v" (e.g. "v0.4.25"). The install manager satisfies this.
type InstalledLister interface {
	Installed() ([]string, error)
}

// Source builds catalog snapshots from the remote release listing, falling
// back to the locally installed compilers when the listing is unreachable.
type Source struct {
	url        string
	client     *http.Client
	installed  InstalledLister
	cache      *Cache
	forceFetch bool
	log        *logging.Logger
}

// Option customizes a Source.
type Option func(*Source)

// WithURL points the source at a different release listing endpoint.
func WithURL(url string) Option {
	return func(s *Source) { s.url = url }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Source) { s.client = client }
}

// WithCache attaches a listing cache. Without one every Refresh hits the
// network.
func WithCache(cache *Cache) Option {
	return func(s *Source) { s.cache = cache }
}

// WithForcedRefresh makes Refresh ignore cache freshness and always consult
// the network, still rewriting the cache on success.
func WithForcedRefresh() Option {
	return func(s *Source) { s.forceFetch = true }
}

// NewSource creates a catalog source over the given installed-compiler
// lister.
func NewSource(installed InstalledLister, log *logging.Logger, opts ...Option) *Source {
	s := &Source{
		url:       DefaultReleasesURL,
		client:    &http.Client{Timeout: defaultFetchTimeout},
		installed: installed,
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh builds a fresh snapshot of installable compiler versions. The
// remote listing is consulted at most once; any failure to obtain or decode
// it switches to the installed fallback without raising. The result may be
// empty; resolving against an empty catalog is the resolver's error to
// report. Refresh only errors when the fallback itself cannot enumerate
// installed compilers.
func (s *Source) Refresh(ctx context.Context) (*Snapshot, error) {
	if !s.forceFetch && s.cache != nil {
		if body, ok := s.cache.Get(); ok {
			if snap, err := snapshotFromListing(body); err == nil {
				s.log.Debug("Catalog loaded from cache", map[string]interface{}{
					"versions": snap.Len(),
				})
				return snap, nil
			}
			// A corrupt cache falls through to the network.
		}
	}

	body, err := s.fetchListing(ctx)
	if err != nil {
		s.log.Info("Release listing unavailable, falling back to installed compilers", map[string]interface{}{
			"error": err.Error(),
		})
		return s.installedSnapshot()
	}

	snap, err := snapshotFromListing(body)
	if err != nil {
		s.log.Warn("Release listing malformed, falling back to installed compilers", map[string]interface{}{
			"error": err.Error(),
		})
		return s.installedSnapshot()
	}

	if s.cache != nil {
		s.cache.Set(body)
	}
	s.log.Debug("Catalog refreshed from release listing", map[string]interface{}{
		"versions": snap.Len(),
	})
	return snap, nil
}

func snapshotFromListing(body []byte) (*Snapshot, error) {
	var releases []Release
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, err
	}
	return NewSnapshot(filterReleases(releases)), nil
}

func (s *Source) fetchListing(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "gosolc/"+version.Version)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release listing returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// installedSnapshot is the network-failure fallback: whatever is on disk,
// minimum-version filtered. Presence on disk proves installability, so no
// asset check applies.
func (s *Source) installedSnapshot() (*Snapshot, error) {
	ids, err := s.installed.Installed()
	if err != nil {
		return nil, fmt.Errorf("enumerating installed compilers: %w", err)
	}

	kept := make([]semver.Version, 0, len(ids))
	for _, id := range ids {
		v, err := semver.Parse(strings.TrimPrefix(id, "v"))
		if err != nil {
			continue
		}
		if v.Less(MinimumSupported) {
			continue
		}
		kept = append(kept, v)
	}

	s.log.Debug("Catalog built from installed compilers", map[string]interface{}{
		"versions": len(kept),
	})
	return NewSnapshot(kept), nil
}
