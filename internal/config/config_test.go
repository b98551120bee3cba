package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HF_API_TOKEN", "ANTHROPIC_API_KEY", "MDGRAPH_ADDR", "MDGRAPH_STRATEGIES",
		"MDGRAPH_SEED", "MDGRAPH_CACHE_BACKEND", "MDGRAPH_REDIS_DB", "MDGRAPH_GENERATE_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() does not validate: %v", err)
	}
	if cfg.Workspace.Debounce != 300*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Workspace.Debounce)
	}
	want := []string{"simulate", "network", "template"}
	if !reflect.DeepEqual(cfg.Generate.Strategies, want) {
		t.Errorf("Strategies = %v, want %v", cfg.Generate.Strategies, want)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[server]
addr = ":9000"

[workspace]
debounce = "1s"

[generate]
strategies = ["template"]
seed = 42
timeout = "5s"

[generate.claude]
model = "claude-sonnet-4-5"
max_tokens = 512

[cache]
backend = "redis"
ttl = "1h"

[cache.redis]
addr = "redis:6379"
db = 2

[export]
capture = "rsvg"
scale = 1.5
author = "Docs Team"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	checks := []struct {
		name      string
		got, want any
	}{
		{"addr", cfg.Server.Addr, ":9000"},
		{"debounce", cfg.Workspace.Debounce, time.Second},
		{"idle ttl default kept", cfg.Workspace.IdleTTL, 2 * time.Hour},
		{"strategies", cfg.Generate.Strategies, []string{"template"}},
		{"seed", cfg.Generate.Seed, uint64(42)},
		{"timeout", cfg.Generate.Timeout, 5 * time.Second},
		{"claude model", cfg.Generate.Claude.Model, "claude-sonnet-4-5"},
		{"claude tokens", cfg.Generate.Claude.MaxTokens, 512},
		{"cache backend", cfg.Cache.Backend, CacheRedis},
		{"cache ttl", cfg.Cache.TTL, time.Hour},
		{"redis addr", cfg.Cache.Redis.Addr, "redis:6379"},
		{"redis db", cfg.Cache.Redis.DB, 2},
		{"capture", cfg.Export.Capture, CaptureRSVG},
		{"scale", cfg.Export.Scale, 1.5},
		{"author", cfg.Export.Author, "Docs Team"},
		{"render default kept", cfg.Render.Backend, "auto"},
	}
	for _, c := range checks {
		if !reflect.DeepEqual(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	gen := cfg.GenerateConfig()
	if gen.Seed != 42 || gen.CacheTTL != time.Hour || gen.Claude.MaxTokens != 512 {
		t.Errorf("GenerateConfig() = %+v", gen)
	}
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("HF_API_TOKEN", "hf_abc")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("MDGRAPH_STRATEGIES", "network, template")
	t.Setenv("MDGRAPH_SEED", "7")
	t.Setenv("MDGRAPH_CACHE_BACKEND", "none")

	cfg, err := Load(writeConfig(t, "[generate]\nseed = 1\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Generate.HuggingFace.Token != "hf_abc" || cfg.Generate.Claude.APIKey != "sk-ant" {
		t.Errorf("credentials not read from env: %+v", cfg.Generate)
	}
	if !reflect.DeepEqual(cfg.Generate.Strategies, []string{"network", "template"}) {
		t.Errorf("Strategies = %v", cfg.Generate.Strategies)
	}
	if cfg.Generate.Seed != 7 {
		t.Errorf("env should override file seed, got %d", cfg.Generate.Seed)
	}
	if cfg.Cache.Backend != CacheNone {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
		want string
	}{
		{"bad toml", "[server\naddr=", nil, "parse"},
		{"unknown cache", "[cache]\nbackend = \"memcached\"", nil, "cache.backend"},
		{"unknown render", "[render]\nbackend = \"dot\"", nil, "render.backend"},
		{"unknown capture", "[export]\ncapture = \"scanner\"", nil, "export.capture"},
		{"bad seed", "", map[string]string{"MDGRAPH_SEED": "many"}, "MDGRAPH_SEED"},
		{"bad redis db", "", map[string]string{"MDGRAPH_REDIS_DB": "x"}, "MDGRAPH_REDIS_DB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("explicit missing config should fail")
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") without a default file: %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}

func TestLoad_DefaultPath(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "mdgraph"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "mdgraph", "config.toml"), []byte("[server]\naddr = \":7777\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if got := DefaultPath(); got != filepath.Join(dir, "mdgraph", "config.toml") {
		t.Errorf("DefaultPath() = %q", got)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":7777" {
		t.Errorf("Addr = %q, want :7777", cfg.Server.Addr)
	}
}

func TestCacheDir(t *testing.T) {
	cfg := Default()
	cfg.Cache.Dir = "/tmp/explicit"
	if dir, _ := cfg.CacheDir(); dir != "/tmp/explicit" {
		t.Errorf("CacheDir() = %q", dir)
	}

	cfg.Cache.Dir = ""
	t.Setenv("XDG_CACHE_HOME", "/var/cache/x")
	if dir, _ := cfg.CacheDir(); dir != filepath.Join("/var/cache/x", "mdgraph") {
		t.Errorf("CacheDir() = %q", dir)
	}
}
