package diagram

import (
	"math/rand/v2"
	"strings"
)

// Rewrite identifies the textual variation Simulate applied.
type Rewrite int

// Rewrites applied by Simulate.
const (
	RewriteNone        Rewrite = iota // source returned unchanged
	RewriteNodePrefix                 // A[ -> Start[, B[ -> Process[
	RewriteOrientation                // flowchart -> graph, TD -> LR
)

func (r Rewrite) String() string {
	switch r {
	case RewriteNodePrefix:
		return "node-prefix"
	case RewriteOrientation:
		return "orientation"
	default:
		return "none"
	}
}

var (
	nodePrefixReplacer  = strings.NewReplacer("A[", "Start[", "B[", "Process[")
	orientationReplacer = strings.NewReplacer("flowchart", "graph", "TD", "LR")
)

// Simulate synthesizes req and then applies one of three rewrites chosen by
// rnd: none, node-id prefix substitution, or keyword/orientation swap. The
// rewrites are plain substring replacements over the whole source and do not
// understand Mermaid syntax. A rewrite whose output fails Validate is
// discarded and the unmodified source is returned with RewriteNone.
//
// The result is reported with OriginAI. It varies between calls and must not
// be relied upon for correctness.
func Simulate(req Request, rnd *rand.Rand) (Response, Rewrite) {
	rw := Rewrite(rnd.IntN(3))
	resp, ok := SimulateRewrite(req, rw)
	if !ok {
		return resp, RewriteNone
	}
	return resp, rw
}

// SimulateRewrite is Simulate with the rewrite chosen by the caller. ok is
// false when the rewrite produced invalid source and was discarded.
func SimulateRewrite(req Request, rw Rewrite) (resp Response, ok bool) {
	base := Synthesize(req)
	src := applyRewrite(base.Source, rw)
	if !Validate(src) {
		return Response{Source: base.Source, Origin: OriginAI}, false
	}
	return Response{Source: src, Origin: OriginAI}, true
}

func applyRewrite(src string, rw Rewrite) string {
	switch rw {
	case RewriteNodePrefix:
		return nodePrefixReplacer.Replace(src)
	case RewriteOrientation:
		return orientationReplacer.Replace(src)
	default:
		return src
	}
}
