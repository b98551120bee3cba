package generate

import (
	"context"

	"github.com/matzehuels/mdgraph/pkg/diagram"
)

// Strategy names.
const (
	NameSimulation  = "simulate"
	NameHuggingFace = "huggingface"
	NameClaude      = "claude"
	NameTemplate    = "template"

	// NameNetwork selects every network strategy that is configured.
	NameNetwork = "network"
)

// Strategy is one way of producing diagram source.
type Strategy interface {
	Name() string
	Generate(ctx context.Context, req diagram.Request) Result
}

// Result is the outcome of one strategy attempt.
type Result struct {
	Response diagram.Response
	Err      error
}

// OK reports whether the attempt succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

func success(resp diagram.Response) Result {
	return Result{Response: resp}
}

func failure(err error) Result {
	return Result{Err: err}
}
