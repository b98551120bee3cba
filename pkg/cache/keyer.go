package cache

import "github.com/matzehuels/mdgraph/pkg/diagram"

// Keyer builds cache keys for each kind of cached artifact.
type Keyer interface {
	// RenderKey identifies the SVG rendered from source by a backend.
	RenderKey(source, backend string) string

	// GenerateKey identifies diagram source produced by a generation strategy.
	GenerateKey(strategy string, req diagram.Request) string

	// ExportKey identifies a PDF exported from an HTML document.
	ExportKey(html []byte, opts ExportKeyOpts) string
}

// ExportKeyOpts are the export settings that change the produced PDF.
type ExportKeyOpts struct {
	Title   string  `json:"title,omitempty"`
	Author  string  `json:"author,omitempty"`
	Subject string  `json:"subject,omitempty"`
	Scale   float64 `json:"scale,omitempty"`
}

// DefaultKeyer is the standard key layout shared by all backends.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RenderKey hashes the source together with the backend name.
func (DefaultKeyer) RenderKey(source, backend string) string {
	return hashKey("render:"+backend, source)
}

// GenerateKey hashes every request field, so kind or complexity changes miss.
func (DefaultKeyer) GenerateKey(strategy string, req diagram.Request) string {
	return hashKey("generate:"+strategy, req.Title, req.Description, req.Kind, req.Complexity)
}

// ExportKey hashes the document together with its metadata.
func (DefaultKeyer) ExportKey(html []byte, opts ExportKeyOpts) string {
	return hashKey("export", Hash(html), opts)
}

var _ Keyer = DefaultKeyer{}
