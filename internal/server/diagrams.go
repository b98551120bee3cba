package server

import (
	"net/http"

	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/errors"
	"github.com/matzehuels/mdgraph/pkg/markdown"
)

type healthResponse struct {
	Status     string `json:"status"`
	Workspaces int    `json:"workspaces"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Workspaces: s.store.Len()})
}

type diagramRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Complexity  string `json:"complexity"`
}

// request parses kind and complexity. An empty kind means flowchart.
func (d diagramRequest) request() (diagram.Request, error) {
	kind := diagram.KindFlowchart
	if d.Kind != "" {
		k, err := diagram.ParseKind(d.Kind)
		if err != nil {
			return diagram.Request{}, err
		}
		kind = k
	}
	complexity, err := diagram.ParseComplexity(d.Complexity)
	if err != nil {
		return diagram.Request{}, err
	}
	return diagram.Request{Title: d.Title, Description: d.Description, Kind: kind, Complexity: complexity}, nil
}

func (s *Server) readDiagramRequest(r *http.Request) (diagram.Request, error) {
	var body diagramRequest
	if err := decode(r, &body); err != nil {
		return diagram.Request{}, err
	}
	return body.request()
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	req, err := s.readDiagramRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, diagram.Synthesize(req))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := s.readDiagramRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.gen == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "generation is not configured"))
		return
	}
	resp, err := s.gen.Generate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type sourceBody struct {
	Source string `json:"source"`
	ID     string `json:"id,omitempty"`
}

type validateResponse struct {
	Valid   bool   `json:"valid"`
	Keyword string `json:"keyword,omitempty"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var body sourceBody
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := validateResponse{Valid: true, Keyword: diagram.Keyword(body.Source)}
	if err := diagram.ValidateStrict(body.Source); err != nil {
		resp = validateResponse{Message: errors.UserMessage(err)}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var body sourceBody
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := body.ID
	if id == "" {
		id = "diagram"
	}
	s.renderSVG(w, r, id, body.Source)
}

// renderSVG validates and renders source, writing SVG or a JSON error.
func (s *Server) renderSVG(w http.ResponseWriter, r *http.Request, id, source string) {
	if err := diagram.ValidateStrict(source); err != nil {
		s.writeSourceError(w, r, err, source)
		return
	}
	if s.renderer == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "rendering is not configured"))
		return
	}
	svg, err := s.renderer.Render(r.Context(), id, source)
	if err != nil {
		s.writeSourceError(w, r, err, source)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(svg)
}

type markdownBody struct {
	Markdown string `json:"markdown"`
}

type sectionsResponse struct {
	Sections []markdown.Section `json:"sections"`
}

func (s *Server) handleExtractSections(w http.ResponseWriter, r *http.Request) {
	var body markdownBody
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sectionsResponse{Sections: nonNil(markdown.ExtractSections(body.Markdown))})
}

// nonNil makes empty section lists encode as [] rather than null.
func nonNil(sections []markdown.Section) []markdown.Section {
	if sections == nil {
		return []markdown.Section{}
	}
	return sections
}
