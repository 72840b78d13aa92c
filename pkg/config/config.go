// Package config loads meshforce settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/meshforce/config.toml (falling back to
// ~/.config) unless --config names another path. Every key is optional;
// command-line flags override file values, which override [Default]:
//
//	[layout]
//	dist_opt = 0.5
//	temp_start = 0.1
//	iterations = 50
//
//	[output]
//	format = "obj"
//
//	[cache]
//	backend = "redis"        # file, redis or none
//	redis_addr = "localhost:6379"
//	ttl = "720h"
//
//	[server]
//	addr = ":8080"
//	mongo_uri = "mongodb://localhost:27017"
//	database = "meshforce"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/meshforce/pkg/cache"
	"github.com/matzehuels/meshforce/pkg/errors"
	"github.com/matzehuels/meshforce/pkg/layout"
	"github.com/matzehuels/meshforce/pkg/meshio"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the decoded configuration file.
type Config struct {
	Layout layout.Params `toml:"layout"`
	Output OutputConfig  `toml:"output"`
	Cache  CacheConfig   `toml:"cache"`
	Server ServerConfig  `toml:"server"`
}

// OutputConfig controls how results are written.
type OutputConfig struct {
	Format string `toml:"format"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	TTL           time.Duration `toml:"ttl"`
}

// ServerConfig configures `meshforce serve`.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	MongoURI     string `toml:"mongo_uri"`
	Database     string `toml:"database"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// DefaultMaxBodyBytes caps uploaded meshes at 32 MiB.
const DefaultMaxBodyBytes = 32 << 20

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: layout.DefaultParams(),
		Output: OutputConfig{Format: meshio.FormatOBJ},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     cache.TTLLayout,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			Database:     "meshforce",
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "meshforce", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "meshforce", "config.toml"), nil
}

// Load decodes the file at path over [Default] and validates the result.
// Keys the file sets that Config does not know are returned as undecoded so
// the caller can warn about them.
func Load(path string) (Config, []string, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return Config{}, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
	}
	if err != nil {
		return Config{}, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}

	var undecoded []string
	for _, k := range md.Undecoded() {
		undecoded = append(undecoded, k.String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, undecoded, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, undecoded, nil
}

// LoadDefault loads the file at DefaultPath, returning [Default] when it
// does not exist.
func LoadDefault() (Config, []string, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil, nil
	}
	return Load(path)
}

// Validate checks values that flags cannot fix up later.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if err := meshio.ValidateFormat(c.Output.Format); err != nil {
		return err
	}
	if err := errors.ValidateFormat(c.Cache.Backend, BackendFile, BackendRedis, BackendNone); err != nil {
		return err
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.max_body_bytes must be positive")
	}
	return nil
}
