package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mdgraph/pkg/errors"
	"github.com/matzehuels/mdgraph/pkg/render"
	"github.com/matzehuels/mdgraph/pkg/workspace"
)

// errorResponse is the body of every failed request. Source carries the
// offending diagram source for render and validation failures.
type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Source  string      `json:"source,omitempty"`
	Line    int         `json:"line,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeSourceError(w, r, err, "")
}

// writeSourceError is writeError for requests that carried diagram source.
// Render and validation failures echo src so the client can correct it.
func (s *Server) writeSourceError(w http.ResponseWriter, r *http.Request, err error, src string) {
	resp := errorResponse{
		Code:    errors.GetCode(err),
		Message: errors.UserMessage(err),
	}
	if resp.Code == "" {
		resp.Code = errors.ErrCodeInternal
	}
	if rejected, ok := render.SourceOf(err); ok {
		resp.Source = rejected
	} else if resp.Code == errors.ErrCodeRenderFailed || resp.Code == errors.ErrCodeInvalidDiagram {
		resp.Source = src
	}
	var syn *render.SyntaxError
	if errors.As(err, &syn) {
		resp.Line = syn.Line
	}

	status := errors.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, resp)
}

// decode reads a JSON body into v.
func decode(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func (s *Server) workspace(r *http.Request) (*workspace.Workspace, error) {
	return s.store.Get(chi.URLParam(r, "id"))
}

func sectionIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "idx")
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "section index %q is not a number", raw)
	}
	return idx, nil
}

func diagramID(idx int) string {
	return fmt.Sprintf("diagram-%d", idx)
}
