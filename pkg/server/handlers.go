package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/meshforce/pkg/buildinfo"
	"github.com/matzehuels/meshforce/pkg/errors"
	"github.com/matzehuels/meshforce/pkg/meshio"
	"github.com/matzehuels/meshforce/pkg/pipeline"
	"github.com/matzehuels/meshforce/pkg/store"
)

// Response headers set by the layout endpoint.
const (
	JobIDHeader = "X-Job-ID"
	CacheHeader = "X-Cache"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.parseOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger.With("id", RequestIDFrom(r.Context()))

	job := store.NewJob(opts.Params, opts.Format)
	w.Header().Set(JobIDHeader, job.ID)

	m, err := s.runner.Decode(r.Context(), http.MaxBytesReader(w, r.Body, s.maxBody), "request "+job.ID)
	if err == nil {
		job.MeshHash = pipeline.MeshHash(m)
		if err = s.store.SaveJob(r.Context(), job); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	var res *pipeline.Result
	if err == nil {
		res, err = s.runner.Execute(r.Context(), m, opts)
	}
	if err != nil {
		job.Fail(err)
		if serr := s.store.SaveJob(r.Context(), job); serr != nil {
			s.logger.Warn("save failed job", "job", job.ID, "err", serr)
		}
		s.writeError(w, r, err)
		return
	}

	job.Complete(res.Output, res.Stats.Stats, res.CacheInfo.LayoutHit)
	if err := s.store.SaveJob(r.Context(), job); err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheStatus := "MISS"
	if res.CacheInfo.LayoutHit {
		cacheStatus = "HIT"
	}
	w.Header().Set(CacheHeader, cacheStatus)
	w.Header().Set("Content-Type", meshio.ContentType(opts.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Output)
}

// parseOptions overlays query parameters on the server defaults.
func (s *Server) parseOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	q := r.URL.Query()

	if v := q.Get("dist_opt"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidParameter, "dist_opt: %q is not a number", v)
		}
		opts.DistOpt = f
	}
	if v := q.Get("temp_start"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidParameter, "temp_start: %q is not a number", v)
		}
		opts.TempStart = f
	}
	if v := q.Get("iterations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidParameter, "iterations: %q is not an integer", v)
		}
		opts.Iterations = n
	}
	if v := q.Get("format"); v != "" {
		opts.Format = v
	}
	if v := q.Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "refresh: %q is not a boolean", v)
		}
		opts.Refresh = b
	}
	return opts, opts.Validate()
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if job.Status != store.StatusDone {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "job %s has no result (status %s)", job.ID, job.Status))
		return
	}
	w.Header().Set("Content-Type", meshio.ContentType(job.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(job.Result)
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit: %q is not a positive integer", v))
			return
		}
		limit = min(n, maxListLimit)
	}
	jobs, err := s.store.ListJobs(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []*store.Job{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}
