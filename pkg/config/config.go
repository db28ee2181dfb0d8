// Package config loads slidemotion configuration from TOML.
//
// The configuration file lives at ~/.config/slidemotion/config.toml unless
// a path is given explicitly. Every field is optional; SetDefaults fills
// whatever the file leaves out:
//
//	[viewport]
//	width = 1920
//	height = 1080
//
//	[layout]
//	engine = "graphviz"
//	node_spacing = 48
//
//	[animation]
//	fps = 30
//	stagger_ms = 500
//
//	[animation.spring]
//	damping = 10
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/slidemotion/pkg/animation"
	"github.com/matzehuels/slidemotion/pkg/errors"
	"github.com/matzehuels/slidemotion/pkg/layout"
	"github.com/matzehuels/slidemotion/pkg/pipeline"
)

// =============================================================================
// Default Values - Single Source of Truth
// =============================================================================

const (
	// AppName names the configuration, cache and data directories.
	AppName = "slidemotion"

	// FileName is the configuration file name.
	FileName = "config.toml"

	// DefaultAddr is the HTTP listen address.
	DefaultAddr = ":8080"

	// DefaultCacheTTL bounds the lifetime of Redis cache entries.
	DefaultCacheTTL = 7 * 24 * time.Hour
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Store backends.
const (
	StoreFile  = "file"
	StoreMongo = "mongo"
)

// =============================================================================
// Config
// =============================================================================

// Config is the complete slidemotion configuration.
type Config struct {
	Viewport  Viewport         `toml:"viewport"`
	Layout    Layout           `toml:"layout"`
	Animation animation.Config `toml:"animation"`
	Cache     Cache            `toml:"cache"`
	Store     Store            `toml:"store"`
	Server    Server           `toml:"server"`
}

// Viewport is the default layout canvas.
type Viewport struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Margin float64 `toml:"margin"`
}

// Layout configures the layout engine.
type Layout struct {
	Engine      string  `toml:"engine"`
	Mode        string  `toml:"mode"`
	NodeSpacing float64 `toml:"node_spacing"`
	RankSpacing float64 `toml:"rank_spacing"`
	Strict      bool    `toml:"strict"`
}

// Cache selects the cache backend.
type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Store selects the slide store backend.
type Store struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied.
func Default() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults fills zero-valued fields.
func (c *Config) SetDefaults() {
	if c.Viewport.Width == 0 {
		c.Viewport.Width = layout.DefaultViewportWidth
	}
	if c.Viewport.Height == 0 {
		c.Viewport.Height = layout.DefaultViewportHeight
	}
	if c.Viewport.Margin == 0 {
		c.Viewport.Margin = layout.DefaultMargin
	}
	if c.Layout.Engine == "" {
		c.Layout.Engine = pipeline.DefaultEngine
	}
	if c.Layout.Mode == "" {
		c.Layout.Mode = string(layout.ModeAuto)
	}
	if c.Layout.NodeSpacing == 0 {
		c.Layout.NodeSpacing = layout.DefaultNodeSpacing
	}
	if c.Layout.RankSpacing == 0 {
		c.Layout.RankSpacing = layout.DefaultRankSpacing
	}
	c.Animation.SetDefaults()
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = DefaultCacheTTL
	}
	if c.Store.Backend == "" {
		c.Store.Backend = StoreFile
	}
	if c.Store.Database == "" {
		c.Store.Database = AppName
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
}

// Validate checks the configuration. Call after SetDefaults.
func (c *Config) Validate() error {
	opts := c.PipelineOptions()
	if err := opts.ValidateForLayout(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[layout]")
	}
	if err := c.Animation.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[animation]")
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "[cache] redis backend requires redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] unknown backend %q (must be one of: none, file, redis)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] ttl cannot be negative")
	}
	switch c.Store.Backend {
	case StoreFile:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "[store] mongo backend requires mongo_uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[store] unknown backend %q (must be one of: file, mongo)", c.Store.Backend)
	}
	return nil
}

// PipelineOptions converts the configuration into pipeline options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Width:       c.Viewport.Width,
		Height:      c.Viewport.Height,
		Margin:      c.Viewport.Margin,
		NodeSpacing: c.Layout.NodeSpacing,
		RankSpacing: c.Layout.RankSpacing,
		Mode:        c.Layout.Mode,
		Engine:      c.Layout.Engine,
		Strict:      c.Layout.Strict,
		FPS:         c.Animation.FPS,
		StaggerMs:   c.Animation.StaggerMs,
		Damping:     c.Animation.Spring.Damping,
		Mass:        c.Animation.Spring.Mass,
		Stiffness:   c.Animation.Spring.Stiffness,
	}
}

// =============================================================================
// Loading
// =============================================================================

// Load reads the configuration at path, applies defaults and validates it.
// An empty path reads the default location, where a missing file yields the
// defaults.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	var c Config
	md, err := toml.DecodeFile(path, &c)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %s", path, undecoded[0])
		}
	case os.IsNotExist(err) && !explicit:
		c = Config{}
	default:
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// DefaultPath returns ~/.config/slidemotion/config.toml, honoring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, FileName), nil
}

// CacheDir returns the configured file cache directory, or
// ~/.cache/slidemotion honoring XDG_CACHE_HOME.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
