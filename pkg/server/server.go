// Package server exposes the layout pipeline over HTTP.
//
//	GET  /healthz                 liveness and version
//	POST /v1/layouts              lay out the OBJ request body
//	GET  /v1/layouts              recent jobs
//	GET  /v1/layouts/{id}         job record
//	GET  /v1/layouts/{id}/result  encoded output of a finished job
//
// Layout parameters for POST come from the query string (dist_opt,
// temp_start, iterations, format, refresh) and default to the server's
// configured values. Every response carries X-Request-ID; layout responses
// also carry X-Job-ID.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/meshforce/pkg/config"
	"github.com/matzehuels/meshforce/pkg/pipeline"
	"github.com/matzehuels/meshforce/pkg/store"
)

// Server handles API requests.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	defaults pipeline.Options
	maxBody  int64
}

// Options configures a Server.
type Options struct {
	// Defaults are used for parameters the request does not set.
	Defaults pipeline.Options
	// MaxBodyBytes caps the request body. Zero means config.DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// New returns a server running layouts through runner and recording jobs
// in st.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = config.DefaultMaxBodyBytes
	}
	if opts.Defaults.Format == "" {
		opts.Defaults = pipeline.DefaultOptions()
	}
	return &Server{
		runner:   runner,
		store:    st,
		logger:   logger,
		defaults: opts.Defaults,
		maxBody:  opts.MaxBodyBytes,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/", s.handleCreateLayout)
		r.Get("/", s.handleListLayouts)
		r.Get("/{id}", s.handleGetLayout)
		r.Get("/{id}/result", s.handleGetResult)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{Code: "NOT_FOUND", Message: "no such route"}})
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
