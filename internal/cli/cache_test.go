package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/blobgeom/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if want := filepath.Join(xdg, "blobgeom"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err = cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".cache", "blobgeom")) {
		t.Errorf("cacheDir() without XDG = %q, want ~/.cache/blobgeom", dir)
	}
}

func TestNewCacheBackend(t *testing.T) {
	tests := []struct {
		name      string
		noCache   bool
		redisAddr string
		check     func(t *testing.T, c cache.Cache, err error)
	}{
		{
			name: "file cache by default",
			check: func(t *testing.T, c cache.Cache, err error) {
				if err != nil {
					t.Fatalf("newCache: %v", err)
				}
				fc, ok := c.(*cache.FileCache)
				if !ok {
					t.Fatalf("backend = %T, want *cache.FileCache", c)
				}
				if _, err := os.Stat(fc.Dir()); err != nil {
					t.Errorf("cache dir not created: %v", err)
				}
			},
		},
		{
			name:      "no-cache wins over redis",
			noCache:   true,
			redisAddr: "127.0.0.1:1",
			check: func(t *testing.T, c cache.Cache, err error) {
				if _, ok := c.(cache.NullCache); err != nil || !ok {
					t.Errorf("backend = %T, err %v, want cache.NullCache", c, err)
				}
			},
		},
		{
			name:      "redis when address set",
			redisAddr: "127.0.0.1:1",
			check: func(t *testing.T, c cache.Cache, err error) {
				// Nothing listens on port 1, so choosing redis surfaces the
				// connection failure instead of falling back to files.
				if err == nil || !strings.Contains(err.Error(), "open redis cache") {
					t.Errorf("newCache err = %v, want redis connection error", err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", t.TempDir())
			t.Setenv(envRedisAddr, tt.redisAddr)
			c := New(io.Discard, LogInfo)
			got, err := c.newCache(t.Context(), tt.noCache)
			if got != nil {
				defer got.Close()
			}
			tt.check(t, got, err)
		})
	}
}

func TestCachePrune(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	stale := filepath.Join(xdg, "blobgeom", "ab", ".tmp-1")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "cache", "prune"); err != nil {
		t.Fatalf("cache prune: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("prune should remove leftover temporary files")
	}
}
