// Package diagram synthesizes Mermaid diagram source from markdown sections.
//
// # Overview
//
// Given a section title and its body text, [Synthesize] produces Mermaid
// source deterministically:
//
//   - When the body contains more than one list item, the result is a
//     top-down flowchart with one Step node per item chained in order.
//   - Otherwise a hand-authored skeleton is selected by (kind, complexity)
//     from a static table and the sanitized title is interpolated into it.
//   - Unknown (kind, complexity) pairs produce a two-node fallback graph.
//
// [Simulate] wraps [Synthesize] with one of three textual rewrites picked by
// a caller-supplied random source. It exists to vary output when generation
// is repeated with identical input.
//
// # Validation
//
// [Validate] checks that source starts with a recognized diagram keyword.
// Every string produced by [Synthesize] passes it.
//
//	resp := diagram.Synthesize(diagram.Request{
//	    Title:       "Steps",
//	    Description: "1. Mix\n2. Bake\n3. Serve",
//	    Kind:        diagram.KindFlowchart,
//	})
//	ok := diagram.Validate(resp.Source) // true
package diagram
