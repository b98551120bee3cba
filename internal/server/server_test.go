package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/errors"
	"github.com/matzehuels/mdgraph/pkg/export"
	"github.com/matzehuels/mdgraph/pkg/generate"
	"github.com/matzehuels/mdgraph/pkg/markdown"
	"github.com/matzehuels/mdgraph/pkg/render"
	"github.com/matzehuels/mdgraph/pkg/workspace"
)

// fakeRenderer wraps the source in a minimal SVG, or fails with a syntax
// error when the source contains "BROKEN".
func fakeRenderer() render.Renderer {
	return render.RendererFunc(func(_ context.Context, id, source string) ([]byte, error) {
		if strings.Contains(source, "BROKEN") {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed,
				&render.SyntaxError{Line: 2, Msg: "unexpected token", Source: source}, "render %s", id)
		}
		return []byte(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" id=%q><text>%d</text></svg>`, id, len(source))), nil
	})
}

type pngCapturer struct{ docs [][]byte }

func (c *pngCapturer) Capture(_ context.Context, html []byte) ([]byte, error) {
	c.docs = append(c.docs, html)
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 100, 100))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type testEnv struct {
	srv      *httptest.Server
	capturer *pngCapturer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gen := generate.New(nil, generate.TemplateStrategy{})
	capturer := &pngCapturer{}
	s := New(Deps{
		Generator: gen,
		Renderer:  fakeRenderer(),
		Exporter:  export.New(capturer, export.WithSettle(0)),
		Store:     workspace.NewStore(gen, workspace.StoreOptions{Debounce: -1}),
	})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, capturer: capturer}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := e.srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: status = %d, want %d: %s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, body)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/health", nil)
	expectStatus(t, resp, http.StatusOK)
	if got := decodeBody[healthResponse](t, resp); got.Status != "ok" {
		t.Errorf("health = %+v", got)
	}
}

func TestSynthesize(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		body   any
		status int
		check  func(t *testing.T, resp *http.Response)
	}{
		{
			name:   "list description",
			body:   diagramRequest{Title: "Steps", Description: "1. Mix\n2. Bake"},
			status: http.StatusOK,
			check: func(t *testing.T, resp *http.Response) {
				got := decodeBody[diagram.Response](t, resp)
				if got.Origin != diagram.OriginTemplate || !strings.Contains(got.Source, "Step1 --> Step2") {
					t.Errorf("response = %+v", got)
				}
			},
		},
		{
			name:   "kind by keyword",
			body:   diagramRequest{Title: "Login", Kind: "sequenceDiagram", Complexity: "simple"},
			status: http.StatusOK,
			check: func(t *testing.T, resp *http.Response) {
				got := decodeBody[diagram.Response](t, resp)
				if !strings.HasPrefix(got.Source, "sequenceDiagram") {
					t.Errorf("source = %q", got.Source)
				}
			},
		},
		{
			name:   "bad kind",
			body:   diagramRequest{Title: "X", Kind: "mindmap"},
			status: http.StatusBadRequest,
			check: func(t *testing.T, resp *http.Response) {
				if got := decodeBody[errorResponse](t, resp); got.Code != errors.ErrCodeInvalidKind {
					t.Errorf("code = %s", got.Code)
				}
			},
		},
		{
			name:   "bad complexity",
			body:   diagramRequest{Title: "X", Complexity: "huge"},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown field",
			body:   map[string]string{"titel": "X"},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/diagrams/synthesize", tt.body)
			expectStatus(t, resp, tt.status)
			if tt.check != nil {
				tt.check(t, resp)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/diagrams/generate", diagramRequest{Title: "Pets", Kind: "pie"})
	expectStatus(t, resp, http.StatusOK)
	got := decodeBody[diagram.Response](t, resp)
	if !diagram.Validate(got.Source) || got.Origin == diagram.OriginAI {
		t.Errorf("response = %+v", got)
	}
}

func TestValidate(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/diagrams/validate", sourceBody{Source: "  erDiagram\n A ||--o{ B : has"})
	expectStatus(t, resp, http.StatusOK)
	if got := decodeBody[validateResponse](t, resp); !got.Valid || got.Keyword != "erDiagram" {
		t.Errorf("valid source: %+v", got)
	}

	resp = env.do(t, http.MethodPost, "/api/diagrams/validate", sourceBody{Source: "mindmap"})
	expectStatus(t, resp, http.StatusOK)
	if got := decodeBody[validateResponse](t, resp); got.Valid || got.Message == "" {
		t.Errorf("invalid source: %+v", got)
	}
}

func TestRender(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/diagrams/render", sourceBody{Source: "graph TD\n A --> B", ID: "d1"})
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `id="d1"`) {
		t.Errorf("svg = %s", body)
	}

	resp = env.do(t, http.MethodPost, "/api/diagrams/render", sourceBody{Source: "not a diagram"})
	expectStatus(t, resp, http.StatusBadRequest)
	if got := decodeBody[errorResponse](t, resp); got.Code != errors.ErrCodeInvalidDiagram || got.Source != "not a diagram" {
		t.Errorf("invalid source error = %+v", got)
	}

	broken := "graph TD\n A -- BROKEN"
	resp = env.do(t, http.MethodPost, "/api/diagrams/render", sourceBody{Source: broken})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	got := decodeBody[errorResponse](t, resp)
	if got.Code != errors.ErrCodeRenderFailed || got.Source != broken || got.Line != 2 {
		t.Errorf("render error = %+v", got)
	}
}

func TestExtractSections(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/sections", markdownBody{Markdown: "intro\n# A\nbody\n## B"})
	expectStatus(t, resp, http.StatusOK)
	got := decodeBody[sectionsResponse](t, resp)
	want := []markdown.Section{{Heading: "A", Level: 1, Content: "body"}, {Heading: "B", Level: 2}}
	if fmt.Sprint(got.Sections) != fmt.Sprint(want) {
		t.Errorf("sections = %+v, want %+v", got.Sections, want)
	}

	resp = env.do(t, http.MethodPost, "/api/sections", markdownBody{Markdown: "no headings"})
	expectStatus(t, resp, http.StatusOK)
	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), `"sections":[]`) {
		t.Errorf("empty sections should encode as []: %s", raw)
	}
}

func TestWorkspaceFlow(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/workspaces", nil)
	expectStatus(t, resp, http.StatusCreated)
	id := decodeBody[workspaceResponse](t, resp).ID
	base := "/api/workspaces/" + id

	resp = env.do(t, http.MethodPut, base+"/markdown", markdownBody{Markdown: "# Steps\n1. Mix\n2. Bake\n3. Serve\n# Notes\nwarm"})
	expectStatus(t, resp, http.StatusAccepted)

	resp = env.do(t, http.MethodGet, base+"/sections", nil)
	expectStatus(t, resp, http.StatusOK)
	if got := decodeBody[sectionsResponse](t, resp); len(got.Sections) != 2 {
		t.Fatalf("sections = %+v", got.Sections)
	}

	resp = env.do(t, http.MethodPost, base+"/sections/0/generate", generateBody{Kind: "flowchart"})
	expectStatus(t, resp, http.StatusOK)
	gen := decodeBody[diagram.Response](t, resp)
	if gen.Summary != "1. Mix 2." {
		t.Errorf("summary = %q", gen.Summary)
	}
	for _, want := range []string{"Step1[Mix]", "Step2[Bake]", "Step3[Serve]", "Step1 --> Step2", "Step2 --> Step3"} {
		if !strings.Contains(gen.Source, want) {
			t.Errorf("generated source missing %q", want)
		}
	}

	resp = env.do(t, http.MethodGet, base+"/sections/0/diagram", nil)
	expectStatus(t, resp, http.StatusOK)
	if got := decodeBody[storedDiagram](t, resp); got.Source != gen.Source || got.Summary != gen.Summary {
		t.Errorf("stored diagram = %+v, want %+v", got, gen)
	}

	resp = env.do(t, http.MethodGet, base+"/sections/0/diagram.svg", nil)
	expectStatus(t, resp, http.StatusOK)
	svg, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(svg), `id="diagram-0"`) {
		t.Errorf("svg = %s", svg)
	}

	resp = env.do(t, http.MethodPut, base+"/sections/1/diagram", sourceBody{Source: "nonsense"})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = env.do(t, http.MethodPut, base+"/sections/1/diagram", sourceBody{Source: "pie title Notes\n \"warm\" : 1"})
	expectStatus(t, resp, http.StatusNoContent)

	resp = env.do(t, http.MethodGet, base+"/sections/9/diagram", nil)
	expectStatus(t, resp, http.StatusNotFound)

	resp = env.do(t, http.MethodPost, base+"/sections/9/generate", generateBody{})
	expectStatus(t, resp, http.StatusNotFound)
	if got := decodeBody[errorResponse](t, resp); got.Code != errors.ErrCodeSectionNotFound {
		t.Errorf("code = %s", got.Code)
	}

	resp = env.do(t, http.MethodGet, base+"/sections/x/diagram", nil)
	expectStatus(t, resp, http.StatusBadRequest)

	resp = env.do(t, http.MethodPost, base+"/export", exportBody{Filename: "recipe.pdf", Title: "Recipe"})
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="recipe.pdf"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if pages := resp.Header.Get("X-Page-Count"); pages != "1" {
		t.Errorf("X-Page-Count = %q", pages)
	}
	pdf, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("export did not return a PDF")
	}
	if len(env.capturer.docs) != 1 {
		t.Fatalf("captured %d documents", len(env.capturer.docs))
	}
	doc := string(env.capturer.docs[0])
	for _, want := range []string{`<div id="document">`, `id="diagram-0"`, `id="diagram-1"`, "<title>Recipe</title>", "<strong>Summary:</strong> 1. Mix 2."} {
		if !strings.Contains(doc, want) {
			t.Errorf("exported document missing %q", want)
		}
	}

	resp = env.do(t, http.MethodPost, base+"/export", exportBody{Filename: "../x.pdf"})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = env.do(t, http.MethodDelete, base, nil)
	expectStatus(t, resp, http.StatusNoContent)

	resp = env.do(t, http.MethodGet, base+"/sections", nil)
	expectStatus(t, resp, http.StatusNotFound)
	if got := decodeBody[errorResponse](t, resp); got.Code != errors.ErrCodeWorkspaceNotFound {
		t.Errorf("code = %s", got.Code)
	}
}

func TestExportEmptyWorkspace(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/workspaces", nil)
	expectStatus(t, resp, http.StatusCreated)
	base := "/api/workspaces/" + decodeBody[workspaceResponse](t, resp).ID

	tests := []struct {
		name     string
		markdown string
	}{
		{"never edited", ""},
		{"no headings", "just some text\nwithout a heading"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.markdown != "" {
				expectStatus(t, env.do(t, http.MethodPut, base+"/markdown", markdownBody{Markdown: tt.markdown}), http.StatusAccepted)
			}
			resp := env.do(t, http.MethodPost, base+"/export", nil)
			expectStatus(t, resp, http.StatusNotFound)
			got := decodeBody[errorResponse](t, resp)
			if got.Code != errors.ErrCodeSectionNotFound || got.Message != "no content to export" {
				t.Errorf("error = %+v", got)
			}
		})
	}
	if n := len(env.capturer.docs); n != 0 {
		t.Errorf("captured %d documents, want none", n)
	}
}

func TestUnconfigured(t *testing.T) {
	srv := httptest.NewServer(New(Deps{}).Handler())
	defer srv.Close()

	post := func(path string, body any) *http.Response {
		data, _ := json.Marshal(body)
		resp, err := srv.Client().Post(srv.URL+path, "application/json", bytes.NewReader(data))
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	expectStatus(t, post("/api/diagrams/generate", diagramRequest{Title: "X"}), http.StatusNotImplemented)
	expectStatus(t, post("/api/diagrams/render", sourceBody{Source: "graph TD"}), http.StatusNotImplemented)

	id := decodeBody[workspaceResponse](t, post("/api/workspaces", nil)).ID
	expectStatus(t, post("/api/workspaces/"+id+"/export", exportBody{}), http.StatusNotImplemented)
}
