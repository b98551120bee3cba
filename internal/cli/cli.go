package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mdgraph/internal/config"
	"github.com/matzehuels/mdgraph/pkg/cache"
	"github.com/matzehuels/mdgraph/pkg/export"
	"github.com/matzehuels/mdgraph/pkg/generate"
	"github.com/matzehuels/mdgraph/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "mdgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the configuration named by --config, or the default
// location. It runs once per invocation from the root pre-run hook.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// config returns the loaded configuration, or the defaults when commands
// run without the root pre-run hook (as in tests).
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Component Factories
// =============================================================================

// newCache opens the configured cache backend. File cache errors degrade to
// no caching; a configured Redis that cannot be reached is an error.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.config()
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// newGenerator builds the strategy chain. A non-empty strategies flag
// replaces the configured list.
func (c *CLI) newGenerator(ch cache.Cache, strategies string) (*generate.Generator, error) {
	gc := c.config().GenerateConfig()
	if strategies != "" {
		gc.Strategies = generate.ParseStrategies(strategies)
	}
	return generate.Build(gc, ch, c.Logger)
}

// newRenderer returns the configured render backend, wrapped in the cache
// when [render] cache is on. A non-empty backend flag overrides the config.
func (c *CLI) newRenderer(ch cache.Cache, backend string) (render.Renderer, error) {
	cfg := c.config()
	if backend == "" {
		backend = cfg.Render.Backend
	}
	r, err := render.New(backend, cfg.Render.MMDC)
	if err != nil {
		return nil, err
	}
	if cfg.Render.Cache && ch != nil {
		return render.NewCachedRenderer(r, backend, ch, nil, cfg.Cache.TTL, c.Logger), nil
	}
	return r, nil
}

// newExporter builds the exporter for the configured capture method.
func (c *CLI) newExporter(ch cache.Cache, capture string) (*export.Exporter, error) {
	cfg := c.config()
	if capture == "" {
		capture = cfg.Export.Capture
	}
	capturer, err := export.NewCapturer(capture, cfg.Export.ChromePath, cfg.Export.Scale)
	if err != nil {
		return nil, err
	}
	opts := []export.Option{
		export.WithSettle(cfg.Export.Settle),
		export.WithLogger(c.Logger),
	}
	if ch != nil {
		opts = append(opts, export.WithCache(ch, nil, cfg.Cache.TTL))
	}
	return export.New(capturer, opts...), nil
}

// cacheDir returns the directory of the file cache.
func (c *CLI) cacheDir() (string, error) {
	return c.config().CacheDir()
}

// =============================================================================
// Command Helpers
// =============================================================================

// addCacheFlag registers --no-cache on cmd.
func addCacheFlag(cmd *cobra.Command, noCache *bool) {
	cmd.Flags().BoolVar(noCache, "no-cache", false, "bypass the cache")
}
