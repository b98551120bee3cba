package generate

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mdgraph/pkg/cache"
	"github.com/matzehuels/mdgraph/pkg/errors"
)

// Config selects and configures the strategy chain.
type Config struct {
	// Strategies in order. "network" expands to huggingface then claude.
	Strategies []string
	// Seed for the simulation; 0 picks a random seed.
	Seed uint64
	// Timeout bounds each network attempt.
	Timeout time.Duration
	// CacheTTL is the lifetime of cached network results; 0 keeps them forever.
	CacheTTL time.Duration

	HuggingFace HuggingFaceConfig
	Claude      ClaudeConfig
}

// HuggingFaceConfig configures HuggingFaceStrategy.
type HuggingFaceConfig struct {
	URL   string
	Token string
}

// ClaudeConfig configures ClaudeStrategy.
type ClaudeConfig struct {
	Model     string
	APIKey    string
	MaxTokens int
}

// DefaultStrategies is the chain used when none is configured.
var DefaultStrategies = []string{NameSimulation, NameNetwork, NameTemplate}

// DefaultConfig returns the default chain with a 20 second network timeout.
func DefaultConfig() Config {
	return Config{
		Strategies: DefaultStrategies,
		Timeout:    20 * time.Second,
		CacheTTL:   7 * 24 * time.Hour,
		HuggingFace: HuggingFaceConfig{
			URL: DefaultHuggingFaceURL,
		},
		Claude: ClaudeConfig{
			Model:     DefaultClaudeModel,
			MaxTokens: DefaultClaudeMaxTokens,
		},
	}
}

// ParseStrategies splits a comma separated strategy list.
func ParseStrategies(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Build assembles a Generator from cfg. Network strategies without
// credentials are skipped. Network results are cached in c when c is not nil.
func Build(cfg Config, c cache.Cache, logger *log.Logger) (*Generator, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	names := cfg.Strategies
	if len(names) == 0 {
		names = DefaultStrategies
	}

	var strategies []Strategy
	network := func(s Strategy) {
		if c != nil {
			s = WithCache(s, c, nil, cfg.CacheTTL, logger)
		}
		strategies = append(strategies, s)
	}

	for _, name := range names {
		switch name {
		case NameSimulation:
			strategies = append(strategies, NewSimulation(cfg.Seed, logger))
		case NameTemplate:
			strategies = append(strategies, TemplateStrategy{})
		case NameHuggingFace, NameClaude, NameNetwork:
			if name != NameClaude {
				if hf := NewHuggingFace(cfg.HuggingFace.URL, cfg.HuggingFace.Token, cfg.Timeout, http.DefaultClient); hf != nil {
					network(hf)
				} else {
					logger.Debug("hugging face strategy disabled: no token")
				}
			}
			if name != NameHuggingFace {
				if cl := NewClaude(cfg.Claude.APIKey, cfg.Claude.Model, cfg.Claude.MaxTokens, cfg.Timeout); cl != nil {
					network(cl)
				} else {
					logger.Debug("claude strategy disabled: no API key")
				}
			}
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"unknown strategy %q (must be one of: simulate, network, huggingface, claude, template)", name)
		}
	}

	if len(strategies) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no generation strategy is enabled")
	}
	return New(logger, strategies...), nil
}
