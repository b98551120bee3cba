package generate

import (
	"context"

	"github.com/matzehuels/mdgraph/pkg/diagram"
)

// TemplateStrategy returns the deterministic skeleton for a request.
type TemplateStrategy struct{}

// Name implements Strategy.
func (TemplateStrategy) Name() string { return NameTemplate }

// Generate implements Strategy. It never fails.
func (TemplateStrategy) Generate(_ context.Context, req diagram.Request) Result {
	return success(diagram.Synthesize(req))
}

var _ Strategy = TemplateStrategy{}
