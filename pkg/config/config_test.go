package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/slidemotion/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if c.Viewport.Width != 1920 || c.Viewport.Height != 1080 {
		t.Errorf("viewport = %+v", c.Viewport)
	}
	if c.Layout.Engine != "graphviz" || c.Cache.Backend != CacheFile || c.Store.Backend != StoreFile {
		t.Errorf("backends = %s/%s/%s", c.Layout.Engine, c.Cache.Backend, c.Store.Backend)
	}
	if c.Animation.FPS != 30 || c.Animation.StaggerMs != 500 || c.Animation.Spring.Stiffness != 100 {
		t.Errorf("animation = %+v", c.Animation)
	}
	if c.Cache.TTL.Duration != DefaultCacheTTL || c.Server.Addr != DefaultAddr {
		t.Errorf("cache ttl = %v, addr = %s", c.Cache.TTL, c.Server.Addr)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[viewport]
width = 1280
height = 720

[layout]
engine = "layered"
strict = true

[animation]
fps = 60

[animation.spring]
damping = 14

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/0"
ttl = "2h"

[store]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"

[server]
addr = "127.0.0.1:9000"
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Viewport.Width != 1280 || c.Viewport.Margin != 64 {
		t.Errorf("viewport = %+v", c.Viewport)
	}
	if c.Layout.Engine != "layered" || !c.Layout.Strict {
		t.Errorf("layout = %+v", c.Layout)
	}
	if c.Animation.FPS != 60 || c.Animation.Spring.Damping != 14 || c.Animation.Spring.Mass != 1 {
		t.Errorf("animation = %+v", c.Animation)
	}
	if c.Cache.TTL.Duration != 2*time.Hour {
		t.Errorf("ttl = %v", c.Cache.TTL)
	}
	if c.Store.Database != AppName || c.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("store = %+v, server = %+v", c.Store, c.Server)
	}

	opts := c.PipelineOptions()
	if opts.Width != 1280 || opts.Engine != "layered" || opts.FPS != 60 || opts.Damping != 14 || !opts.Strict {
		t.Errorf("PipelineOptions() = %+v", opts)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[viewport\nwidth = 1"},
		{"unknown key", "[layout]\nengin = \"layered\""},
		{"engine", "[layout]\nengine = \"dagre\""},
		{"fps", "[animation]\nfps = 1000"},
		{"spring", "[animation.spring]\nmass = -1"},
		{"cache backend", "[cache]\nbackend = \"memcached\""},
		{"redis without url", "[cache]\nbackend = \"redis\""},
		{"ttl", "[cache]\nttl = \"soon\""},
		{"store backend", "[store]\nbackend = \"sqlite\""},
		{"mongo without uri", "[store]\nbackend = \"mongo\""},
		{"margin", "[viewport]\nwidth = 100\nheight = 100\nmargin = 80"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %s, want INVALID_CONFIG (%v)", errors.GetCode(err), err)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("an explicit missing file should fail")
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("missing default file should yield defaults: %v", err)
	}
	if c.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %s", c.Server.Addr)
	}
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", dir)

	p, err := DefaultPath()
	if err != nil || p != filepath.Join(dir, AppName, FileName) {
		t.Errorf("DefaultPath() = %s, %v", p, err)
	}

	c := Default()
	if d, _ := c.CacheDir(); d != filepath.Join(dir, AppName) {
		t.Errorf("CacheDir() = %s", d)
	}
	c.Cache.Dir = "/tmp/custom"
	if d, _ := c.CacheDir(); d != "/tmp/custom" {
		t.Errorf("CacheDir() = %s", d)
	}
}
