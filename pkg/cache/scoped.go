package cache

import "github.com/matzehuels/mdgraph/pkg/diagram"

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis instance without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "mdgraph:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(source, backend string) string {
	return k.prefix + k.inner.RenderKey(source, backend)
}

// GenerateKey generates a prefixed generation key.
func (k *ScopedKeyer) GenerateKey(strategy string, req diagram.Request) string {
	return k.prefix + k.inner.GenerateKey(strategy, req)
}

// ExportKey generates a prefixed export key.
func (k *ScopedKeyer) ExportKey(html []byte, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(html, opts)
}
