package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/matzehuels/mdgraph/pkg/errors"
	"github.com/matzehuels/mdgraph/pkg/export"
)

type workspaceResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	ws := s.store.Create()
	writeJSON(w, http.StatusCreated, workspaceResponse{ID: ws.ID()})
}

func (s *Server) handleDeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, err := s.workspace(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.store.Delete(ws.ID())
	w.WriteHeader(http.StatusNoContent)
}

// handleSetMarkdown stores the document text. Sections are re-extracted
// after the debounce, or immediately with ?flush=true.
func (s *Server) handleSetMarkdown(w http.ResponseWriter, r *http.Request) {
	ws, err := s.workspace(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body markdownBody
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	ws.SetMarkdown(body.Markdown)
	if flush, _ := strconv.ParseBool(r.URL.Query().Get("flush")); flush {
		ws.Flush()
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleWorkspaceSections(w http.ResponseWriter, r *http.Request) {
	ws, err := s.workspace(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if flush, _ := strconv.ParseBool(r.URL.Query().Get("flush")); flush {
		ws.Flush()
	}
	writeJSON(w, http.StatusOK, sectionsResponse{Sections: nonNil(ws.Sections())})
}

// storedDiagram is a workspace diagram with the summary of its section.
type storedDiagram struct {
	Source  string `json:"source"`
	Summary string `json:"summary,omitempty"`
}

type generateBody struct {
	Kind       string `json:"kind"`
	Complexity string `json:"complexity"`
}

func (s *Server) handleSectionGenerate(w http.ResponseWriter, r *http.Request) {
	ws, err := s.workspace(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	idx, err := sectionIndex(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body generateBody
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := diagramRequest{Kind: body.Kind, Complexity: body.Complexity}.request()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := ws.Generate(r.Context(), idx, req.Kind, req.Complexity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	ws, err := s.workspace(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	idx, err := sectionIndex(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	src, ok := ws.Diagram(idx)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "section %d has no diagram", idx))
		return
	}
	summary, _ := ws.Summary(idx)
	writeJSON(w, http.StatusOK, storedDiagram{Source: src, Summary: summary})
}

func (s *Server) handleSetDiagram(w http.ResponseWriter, r *http.Request) {
	ws, err := s.workspace(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	idx, err := sectionIndex(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body sourceBody
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := ws.SetDiagram(idx, body.Source); err != nil {
		s.writeSourceError(w, r, err, body.Source)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDiagramSVG(w http.ResponseWriter, r *http.Request) {
	ws, err := s.workspace(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	idx, err := sectionIndex(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	src, ok := ws.Diagram(idx)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "section %d has no diagram", idx))
		return
	}
	s.renderSVG(w, r, diagramID(idx), src)
}

type exportBody struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Subject  string `json:"subject"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ws, err := s.workspace(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.exporter == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "export is not configured"))
		return
	}
	var body exportBody
	if r.ContentLength != 0 {
		if err := decode(r, &body); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	ws.Flush()
	snap := ws.Snapshot()
	if len(snap.Sections) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeSectionNotFound, "no content to export"))
		return
	}
	sections := export.RenderSections(r.Context(), s.renderer, snap.Sections, snap.Diagrams, snap.Summaries, diagramID, s.logger)

	html, err := export.Document(body.Title, sections)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeExportFailed, err, "build document"))
		return
	}
	res, err := s.exporter.Export(r.Context(), html, export.Options{
		Filename: body.Filename,
		Title:    body.Title,
		Author:   body.Author,
		Subject:  body.Subject,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("X-Page-Count", strconv.Itoa(res.Pages))
	w.WriteHeader(http.StatusOK)
	w.Write(res.PDF)
}
