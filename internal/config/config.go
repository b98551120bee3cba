// Package config loads mdgraph settings from a TOML file and the environment.
//
// Precedence, lowest first: built-in defaults, the config file, environment
// variables, command-line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mdgraph/pkg/export"
	"github.com/matzehuels/mdgraph/pkg/generate"
	"github.com/matzehuels/mdgraph/pkg/render"
	"github.com/matzehuels/mdgraph/pkg/workspace"
)

const appName = "mdgraph"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Capture methods for export.
const (
	CaptureAuto   = export.CaptureAuto
	CaptureChrome = export.CaptureChrome
	CaptureRSVG   = export.CaptureRSVG
)

// Config is the complete mdgraph configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Workspace WorkspaceConfig `toml:"workspace"`
	Generate  GenerateConfig  `toml:"generate"`
	Render    RenderConfig    `toml:"render"`
	Cache     CacheConfig     `toml:"cache"`
	Export    ExportConfig    `toml:"export"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
	// CleanupInterval is how often idle workspaces are swept.
	CleanupInterval time.Duration `toml:"cleanup_interval"`
}

type WorkspaceConfig struct {
	Debounce time.Duration `toml:"debounce"`
	IdleTTL  time.Duration `toml:"idle_ttl"`
}

type GenerateConfig struct {
	Strategies  []string          `toml:"strategies"`
	Seed        uint64            `toml:"seed"`
	Timeout     time.Duration     `toml:"timeout"`
	HuggingFace HuggingFaceConfig `toml:"huggingface"`
	Claude      ClaudeConfig      `toml:"claude"`
}

type HuggingFaceConfig struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
}

type ClaudeConfig struct {
	Model     string `toml:"model"`
	APIKey    string `toml:"api_key"`
	MaxTokens int    `toml:"max_tokens"`
}

type RenderConfig struct {
	Backend string `toml:"backend"`
	MMDC    string `toml:"mmdc"`
	Cache   bool   `toml:"cache"`
}

type CacheConfig struct {
	Backend string        `toml:"backend"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
	Redis   RedisConfig   `toml:"redis"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type ExportConfig struct {
	Capture    string        `toml:"capture"`
	Settle     time.Duration `toml:"settle"`
	Scale      float64       `toml:"scale"`
	Author     string        `toml:"author"`
	ChromePath string        `toml:"chrome_path"`
}

// Default returns a configuration that works without a file.
func Default() *Config {
	gen := generate.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			CleanupInterval: 5 * time.Minute,
		},
		Workspace: WorkspaceConfig{
			Debounce: workspace.DefaultDebounce,
			IdleTTL:  workspace.DefaultIdleTTL,
		},
		Generate: GenerateConfig{
			Strategies:  gen.Strategies,
			Timeout:     gen.Timeout,
			HuggingFace: HuggingFaceConfig{URL: gen.HuggingFace.URL},
			Claude:      ClaudeConfig{Model: gen.Claude.Model, MaxTokens: gen.Claude.MaxTokens},
		},
		Render: RenderConfig{
			Backend: render.BackendAuto,
			MMDC:    "mmdc",
			Cache:   true,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     gen.CacheTTL,
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Export: ExportConfig{
			Capture: CaptureAuto,
			Settle:  export.DefaultSettle,
			Scale:   2,
		},
	}
}

// Load reads the config file at path over the defaults, then applies
// environment overrides. An empty path reads DefaultPath when that file
// exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath is $XDG_CONFIG_HOME/mdgraph/config.toml, falling back to
// the OS user config directory. It returns "" when neither is known.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, appName, "config.toml")
}

// CacheDir returns the configured cache directory, or the XDG cache
// location (~/.cache/mdgraph).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
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

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	switch c.Render.Backend {
	case render.BackendGraphviz, render.BackendMermaid, render.BackendAuto:
	default:
		return fmt.Errorf("render.backend: unknown backend %q (must be graphviz, mmdc or auto)", c.Render.Backend)
	}
	switch c.Export.Capture {
	case CaptureAuto, CaptureChrome, CaptureRSVG:
	default:
		return fmt.Errorf("export.capture: unknown method %q (must be auto, chrome or rsvg)", c.Export.Capture)
	}
	if c.Export.Scale < 0 {
		return fmt.Errorf("export.scale: must not be negative")
	}
	return nil
}

// GenerateConfig converts the [generate] section for generate.Build.
func (c *Config) GenerateConfig() generate.Config {
	return generate.Config{
		Strategies: c.Generate.Strategies,
		Seed:       c.Generate.Seed,
		Timeout:    c.Generate.Timeout,
		CacheTTL:   c.Cache.TTL,
		HuggingFace: generate.HuggingFaceConfig{
			URL:   c.Generate.HuggingFace.URL,
			Token: c.Generate.HuggingFace.Token,
		},
		Claude: generate.ClaudeConfig{
			Model:     c.Generate.Claude.Model,
			APIKey:    c.Generate.Claude.APIKey,
			MaxTokens: c.Generate.Claude.MaxTokens,
		},
	}
}

// applyEnv overrides settings from the environment.
func applyEnv(c *Config) error {
	str := map[string]*string{
		"MDGRAPH_ADDR":           &c.Server.Addr,
		"MDGRAPH_HF_URL":         &c.Generate.HuggingFace.URL,
		"HF_API_TOKEN":           &c.Generate.HuggingFace.Token,
		"MDGRAPH_CLAUDE_MODEL":   &c.Generate.Claude.Model,
		"ANTHROPIC_API_KEY":      &c.Generate.Claude.APIKey,
		"MDGRAPH_RENDER_BACKEND": &c.Render.Backend,
		"MDGRAPH_MMDC":           &c.Render.MMDC,
		"MDGRAPH_CACHE_BACKEND":  &c.Cache.Backend,
		"MDGRAPH_CACHE_DIR":      &c.Cache.Dir,
		"MDGRAPH_REDIS_ADDR":     &c.Cache.Redis.Addr,
		"MDGRAPH_REDIS_PASSWORD": &c.Cache.Redis.Password,
		"MDGRAPH_EXPORT_CAPTURE": &c.Export.Capture,
		"MDGRAPH_CHROME_PATH":    &c.Export.ChromePath,
		"MDGRAPH_EXPORT_AUTHOR":  &c.Export.Author,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("MDGRAPH_STRATEGIES"); v != "" {
		c.Generate.Strategies = generate.ParseStrategies(v)
	}
	if v := os.Getenv("MDGRAPH_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MDGRAPH_SEED: %w", err)
		}
		c.Generate.Seed = seed
	}
	if v := os.Getenv("MDGRAPH_GENERATE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MDGRAPH_GENERATE_TIMEOUT: %w", err)
		}
		c.Generate.Timeout = d
	}
	if v := os.Getenv("MDGRAPH_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MDGRAPH_REDIS_DB: %w", err)
		}
		c.Cache.Redis.DB = db
	}
	return nil
}
