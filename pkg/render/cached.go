package render

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mdgraph/pkg/cache"
	"github.com/matzehuels/mdgraph/pkg/observability"
)

// idPlaceholder stands in for the diagram id in cached SVG, so one entry
// serves every section that renders the same source.
const idPlaceholder = "mdgraph-cached-diagram"

// CachedRenderer memoizes another renderer's output. Failures are not cached.
type CachedRenderer struct {
	inner   Renderer
	backend string
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	logger  *log.Logger
}

// NewCachedRenderer wraps inner. backend names inner in the cache key.
// A nil keyer uses cache.NewDefaultKeyer and a nil logger discards output.
func NewCachedRenderer(inner Renderer, backend string, c cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) *CachedRenderer {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CachedRenderer{inner: inner, backend: backend, cache: c, keyer: keyer, ttl: ttl, logger: logger}
}

// Render returns the cached SVG for source or renders and stores it.
// Cache errors are logged and otherwise ignored.
func (r *CachedRenderer) Render(ctx context.Context, id, source string) ([]byte, error) {
	if err := checkSource(source); err != nil {
		return nil, err
	}

	key := r.keyer.RenderKey(source, r.backend)
	hooks := observability.Cache()

	data, hit, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("render cache read failed", "err", err)
	}
	if hit {
		hooks.OnCacheHit(ctx, "render")
		return withID(data, id), nil
	}
	hooks.OnCacheMiss(ctx, "render")

	svg, err := r.inner.Render(ctx, idPlaceholder, source)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, key, svg, r.ttl); err != nil {
		r.logger.Warn("render cache write failed", "err", err)
	} else {
		hooks.OnCacheSet(ctx, "render", len(svg))
	}
	return withID(svg, id), nil
}

func withID(svg []byte, id string) []byte {
	id = idSafeRe.ReplaceAllString(id, "")
	return bytes.Replace(svg, []byte(`id="`+idPlaceholder+`"`), []byte(`id="`+id+`"`), 1)
}

var _ Renderer = (*CachedRenderer)(nil)
