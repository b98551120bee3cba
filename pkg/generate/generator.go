package generate

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/errors"
	"github.com/matzehuels/mdgraph/pkg/observability"
)

// Generator walks its strategies in order and returns the first success.
type Generator struct {
	strategies []Strategy
	logger     *log.Logger
}

// New returns a generator over strategies. A nil logger discards output.
func New(logger *log.Logger, strategies ...Strategy) *Generator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Generator{strategies: strategies, logger: logger}
}

// Strategies returns the names of the configured strategies, in order.
func (g *Generator) Strategies() []string {
	names := make([]string, len(g.strategies))
	for i, s := range g.strategies {
		names[i] = s.Name()
	}
	return names
}

// Generate tries each strategy in turn. A strategy result whose source does
// not validate counts as a failure. When every strategy fails the error has
// code GENERATION_FAILED and joins the individual failures.
func (g *Generator) Generate(ctx context.Context, req diagram.Request) (diagram.Response, error) {
	hooks := observability.Pipeline()
	var errs []error

	for _, s := range g.strategies {
		hooks.OnGenerateStart(ctx, s.Name())
		start := time.Now()
		res := s.Generate(ctx, req)
		if res.OK() && !diagram.Validate(res.Response.Source) {
			res = failure(errors.New(errors.ErrCodeInvalidDiagram, "strategy returned invalid source"))
		}
		hooks.OnGenerateComplete(ctx, s.Name(), time.Since(start), res.Err)

		if res.OK() {
			g.logger.Debug("diagram generated", "strategy", s.Name(), "origin", res.Response.Origin)
			return res.Response, nil
		}
		g.logger.Debug("strategy failed, trying next", "strategy", s.Name(), "err", res.Err)
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), res.Err))
	}

	return diagram.Response{}, errors.Wrap(errors.ErrCodeGenerationFailed, stderrors.Join(errs...),
		"all %d strategies failed", len(g.strategies))
}
