package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshforce/pkg/cache"
	"github.com/matzehuels/meshforce/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		base := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", base)

		c := New(&bytes.Buffer{}, log.InfoLevel)
		dir, err := c.cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join(base, "meshforce"); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}

		c := New(&bytes.Buffer{}, log.InfoLevel)
		dir, err := c.cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join(home, ".cache", "meshforce"); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("config", func(t *testing.T) {
		c := New(&bytes.Buffer{}, log.InfoLevel)
		c.cfg.Cache.Dir = "/var/cache/mf"
		dir, err := c.cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if dir != "/var/cache/mf" {
			t.Errorf("cacheDir() = %q, want configured dir", dir)
		}
	})
}

func TestNewCacheBackends(t *testing.T) {
	ctx := context.Background()
	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.cfg.Cache.Dir = t.TempDir()

	ch, err := c.newCache(ctx, false)
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	if _, ok := ch.(*cache.FileCache); !ok {
		t.Errorf("file backend = %T, want *cache.FileCache", ch)
	}

	ch, err = c.newCache(ctx, true)
	if err != nil {
		t.Fatalf("newCache(noCache): %v", err)
	}
	if _, ok := ch.(cache.NullCache); !ok {
		t.Errorf("no-cache = %T, want cache.NullCache", ch)
	}

	c.cfg.Cache.Backend = config.BackendNone
	ch, _ = c.newCache(ctx, false)
	if _, ok := ch.(cache.NullCache); !ok {
		t.Errorf("none backend = %T, want cache.NullCache", ch)
	}
}

// recordingCache captures the TTL passed to Set.
type recordingCache struct {
	cache.NullCache
	ttl time.Duration
}

func (r *recordingCache) Set(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
	r.ttl = ttl
	return nil
}

func TestTTLCache(t *testing.T) {
	tests := []struct {
		name      string
		limit     time.Duration
		requested time.Duration
		want      time.Duration
	}{
		{"below limit", time.Hour, time.Minute, time.Minute},
		{"above limit", time.Hour, 2 * time.Hour, time.Hour},
		{"no expiry", time.Hour, 0, time.Hour},
		{"no limit", 0, 2 * time.Hour, 2 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingCache{}
			tc := ttlCache{rec, tt.limit}
			if err := tc.Set(context.Background(), "k", nil, tt.requested); err != nil {
				t.Fatal(err)
			}
			if rec.ttl != tt.want {
				t.Errorf("ttl = %v, want %v", rec.ttl, tt.want)
			}
		})
	}
}

func TestCacheCommands(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out); got != env.cacheDir {
		t.Errorf("cache path = %q, want %q", got, env.cacheDir)
	}

	out, err = env.run("cache", "clear")
	if err != nil {
		t.Fatalf("cache clear on empty: %v", err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("cache clear output = %q", out)
	}

	if _, err := env.run("layout", env.cube, "-o", filepath.Join(env.dir, "cube.out.obj")); err != nil {
		t.Fatalf("layout: %v", err)
	}
	out, err = env.run("cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared cache") {
		t.Errorf("cache clear output = %q", out)
	}
	entries, err := os.ReadDir(env.cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("%d entries left after clear", len(entries))
	}
}
