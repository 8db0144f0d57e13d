package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "sub", cacheFileName), time.Hour)

	body := []byte(`[{"tag_name":"v0.4.24","assets":[]}]`)
	cache.Set(body)

	got, ok := cache.Get()
	if !ok {
		t.Fatal("Get() reported stale immediately after Set()")
	}
	if string(got) != string(body) {
		t.Errorf("Get() = %q, want %q", got, body)
	}
}

func TestCacheMissing(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), cacheFileName), time.Hour)
	if _, ok := cache.Get(); ok {
		t.Error("Get() on missing file should report stale")
	}
}

func TestCacheStale(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), cacheFileName), time.Nanosecond)
	cache.Set([]byte("[]"))
	time.Sleep(time.Millisecond)

	if _, ok := cache.Get(); ok {
		t.Error("Get() should report stale past the freshness window")
	}
}

func TestCacheCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), cacheFileName)
	if err := os.WriteFile(path, []byte("not gzip data"), 0644); err != nil {
		t.Fatal(err)
	}

	cache := NewCache(path, time.Hour)
	if _, ok := cache.Get(); ok {
		t.Error("Get() should treat a corrupt file as absent")
	}
}

func TestCacheCompresses(t *testing.T) {
	path := filepath.Join(t.TempDir(), cacheFileName)
	cache := NewCache(path, time.Hour)

	// Something compressible: repeated JSON structure.
	body := []byte("[")
	for i := 0; i < 200; i++ {
		if i > 0 {
			body = append(body, ',')
		}
		body = append(body, []byte(`{"tag_name":"v0.4.24","assets":[{"name":"solc-static-linux"}]}`)...)
	}
	body = append(body, ']')
	cache.Set(body)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() >= int64(len(body)) {
		t.Errorf("cache file (%d bytes) not smaller than body (%d bytes)", info.Size(), len(body))
	}
}
