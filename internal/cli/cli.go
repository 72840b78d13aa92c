// Package cli implements the meshforce command-line interface.
//
// Commands:
//   - layout: run the force-directed layout on an OBJ mesh
//   - info: print topology and geometry statistics of a mesh
//   - render: draw a wireframe projection of a mesh
//   - serve: run the HTTP API
//   - cache: manage the local layout cache
//
// Every command accepts --verbose (-v) for debug logging and --config to
// point at a TOML configuration file.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meshforce/pkg/buildinfo"
	"github.com/matzehuels/meshforce/pkg/cache"
	"github.com/matzehuels/meshforce/pkg/config"
	"github.com/matzehuels/meshforce/pkg/observability"
	"github.com/matzehuels/meshforce/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is used for directories and display.
const appName = "meshforce"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "meshforce lays out closed triangle meshes with a 3D force-directed model",
		Long: `meshforce relaxes the vertex positions of a closed genus-0 triangle mesh
using the Fruchterman-Reingold force model: every vertex pair repels, every
mesh edge attracts, and a cooling temperature bounds each move.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/meshforce/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and registers log-backed hooks.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	var (
		cfg       config.Config
		undecoded []string
		err       error
	)
	if c.configPath != "" {
		cfg, undecoded, err = config.Load(c.configPath)
	} else {
		cfg, undecoded, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	for _, k := range undecoded {
		c.Logger.Warn("unknown config key", "key", k)
	}
	c.cfg = cfg

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.cfg.Cache.Backend == config.BackendRedis {
		// Redis keys carry the application prefix.
		keyer = cache.NewScopedKeyer(nil, appName+":")
	}
	return pipeline.NewRunner(ttlCache{ch, c.cfg.Cache.TTL}, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.cfg.Cache.RedisAddr,
			Password: c.cfg.Cache.RedisPassword,
			DB:       c.cfg.Cache.RedisDB,
		})
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// ttlCache caps entry lifetimes at the configured TTL.
type ttlCache struct {
	cache.Cache
	ttl time.Duration
}

func (t ttlCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if t.ttl > 0 && (ttl == 0 || ttl > t.ttl) {
		ttl = t.ttl
	}
	return t.Cache.Set(ctx, key, data, ttl)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory or the XDG default
// (~/.cache/meshforce).
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// derivedPath replaces the extension of input with suffix.
func derivedPath(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

