// Package generate produces diagram source for a section by trying an
// ordered list of strategies until one succeeds.
//
// # Strategies
//
// The default chain is simulation, then the network strategies, then the
// deterministic template:
//
//   - [SimulationStrategy] varies the template output to imitate a model
//   - [HuggingFaceStrategy] asks a Hugging Face inference endpoint
//   - [ClaudeStrategy] asks the Anthropic Messages API
//   - [TemplateStrategy] falls back to [diagram.Synthesize] and never fails
//
// Network strategies are enabled only when a token or API key is
// configured. They make a single attempt bounded by the configured timeout
// and their results are cached per request when a cache is supplied.
//
// # Usage
//
//	gen, err := generate.Build(generate.DefaultConfig(), nil, logger)
//	resp, err := gen.Generate(ctx, diagram.Request{Title: "Steps", Description: body})
//
// [diagram.Synthesize]: github.com/matzehuels/mdgraph/pkg/diagram.Synthesize
package generate
