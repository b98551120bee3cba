package generate

import (
	"context"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mdgraph/pkg/diagram"
)

// SimulationStrategy imitates model output by rewriting template source.
type SimulationStrategy struct {
	mu     sync.Mutex // guards rnd
	rnd    *rand.Rand
	logger *log.Logger
}

// NewSimulation returns a simulation seeded with seed. Seed 0 picks a
// time-based seed, so output differs between runs.
func NewSimulation(seed uint64, logger *log.Logger) *SimulationStrategy {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SimulationStrategy{rnd: rand.New(rand.NewPCG(seed, seed>>1|1)), logger: logger}
}

// Name implements Strategy.
func (s *SimulationStrategy) Name() string { return NameSimulation }

// Generate implements Strategy. It never fails.
func (s *SimulationStrategy) Generate(_ context.Context, req diagram.Request) Result {
	s.mu.Lock()
	rw := diagram.Rewrite(s.rnd.IntN(3))
	s.mu.Unlock()

	resp, ok := diagram.SimulateRewrite(req, rw)
	if !ok {
		s.logger.Warn("simulated rewrite produced invalid source, using template", "rewrite", rw)
	}
	return success(resp)
}

var _ Strategy = (*SimulationStrategy)(nil)
