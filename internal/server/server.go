// Package server implements the mdgraph HTTP API.
//
// The API is stateless for one-shot operations (synthesize, generate,
// validate, render, section extraction) and keeps per-document state in
// in-memory workspaces for the browser tool. Errors are JSON objects with a
// machine-readable code; see [errorResponse].
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mdgraph/pkg/export"
	"github.com/matzehuels/mdgraph/pkg/render"
	"github.com/matzehuels/mdgraph/pkg/workspace"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

// Deps are the collaborators the API is built on.
type Deps struct {
	Generator workspace.Generator
	Renderer  render.Renderer
	// Exporter may be nil, in which case export requests fail with UNSUPPORTED.
	Exporter *export.Exporter
	Store    *workspace.Store
	Logger   *log.Logger
}

// Server serves the API.
type Server struct {
	gen      workspace.Generator
	renderer render.Renderer
	exporter *export.Exporter
	store    *workspace.Store
	logger   *log.Logger
	router   chi.Router
}

// New builds the router. A nil Store gets a default in-memory store.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	if deps.Store == nil {
		deps.Store = workspace.NewStore(deps.Generator, workspace.StoreOptions{Logger: deps.Logger})
	}
	s := &Server{
		gen:      deps.Generator,
		renderer: deps.Renderer,
		exporter: deps.Exporter,
		store:    deps.Store,
		logger:   deps.Logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sections", s.handleExtractSections)

		r.Route("/diagrams", func(r chi.Router) {
			r.Post("/synthesize", s.handleSynthesize)
			r.Post("/generate", s.handleGenerate)
			r.Post("/validate", s.handleValidate)
			r.Post("/render", s.handleRender)
		})

		r.Post("/workspaces", s.handleCreateWorkspace)
		r.Route("/workspaces/{id}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteWorkspace)
			r.Put("/markdown", s.handleSetMarkdown)
			r.Get("/sections", s.handleWorkspaceSections)
			r.Route("/sections/{idx}", func(r chi.Router) {
				r.Post("/generate", s.handleSectionGenerate)
				r.Get("/diagram", s.handleGetDiagram)
				r.Put("/diagram", s.handleSetDiagram)
				r.Get("/diagram.svg", s.handleDiagramSVG)
			})
			r.Post("/export", s.handleExport)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully. Idle workspaces are swept every cleanup interval.
func (s *Server) ListenAndServe(ctx context.Context, addr string, cleanup time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cleanup > 0 {
		go s.store.Run(ctx, cleanup)
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requestLogger logs one line per request at debug level, or warn for 5xx.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			kv := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Microsecond),
				"request_id", middleware.GetReqID(r.Context()),
			}
			if status >= 500 {
				logger.Warn("request", kv...)
				return
			}
			logger.Debug("request", kv...)
		})
	}
}
