package generate

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mdgraph/pkg/cache"
	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/observability"
)

// CachedStrategy stores successful results of another strategy.
type CachedStrategy struct {
	inner  Strategy
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// WithCache wraps s so successful results are served from c. A nil keyer
// uses cache.NewDefaultKeyer.
func WithCache(s Strategy, c cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) *CachedStrategy {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CachedStrategy{inner: s, cache: c, keyer: keyer, ttl: ttl, logger: logger}
}

// Name returns the wrapped strategy's name.
func (s *CachedStrategy) Name() string { return s.inner.Name() }

// Generate implements Strategy.
func (s *CachedStrategy) Generate(ctx context.Context, req diagram.Request) Result {
	key := s.keyer.GenerateKey(s.inner.Name(), req)
	hooks := observability.Cache()

	var resp diagram.Response
	if err := cache.GetJSON(ctx, s.cache, key, &resp); err == nil && diagram.Validate(resp.Source) {
		hooks.OnCacheHit(ctx, "generate")
		return success(resp)
	}
	hooks.OnCacheMiss(ctx, "generate")

	res := s.inner.Generate(ctx, req)
	if !res.OK() {
		return res
	}
	if err := cache.SetJSON(ctx, s.cache, key, res.Response, s.ttl); err != nil {
		s.logger.Warn("generate cache write failed", "strategy", s.inner.Name(), "err", err)
	} else {
		hooks.OnCacheSet(ctx, "generate", len(res.Response.Source))
	}
	return res
}

var _ Strategy = (*CachedStrategy)(nil)
