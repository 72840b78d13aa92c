package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/meshforce/pkg/cache"
	"github.com/matzehuels/meshforce/pkg/errors"
	"github.com/matzehuels/meshforce/pkg/meshio"
	"github.com/matzehuels/meshforce/pkg/pipeline"
	"github.com/matzehuels/meshforce/pkg/store"
)

const tetraOBJ = "v 0 0 0\nv 1 1 0\nv 1 0 1\nv 0 1 1\nf 1 3 2\nf 1 2 4\nf 1 4 3\nf 2 3 4\n"

func newTestServer(t *testing.T, opts Options) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	st := store.NewMemoryStore()
	s := New(pipeline.NewRunner(c, nil, logger), st, logger, opts)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorDetail {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, Options{})
	resp := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("body = %v", body)
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("X-Request-ID = %q", resp.Header.Get(RequestIDHeader))
	}
}

func TestRequestIDPropagated(t *testing.T) {
	ts, _ := newTestServer(t, Options{})
	id := uuid.NewString()
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("X-Request-ID = %q, want %q", got, id)
	}
}

func TestCreateLayout(t *testing.T) {
	ts, st := newTestServer(t, Options{})

	resp := post(t, ts.URL+"/v1/layouts?iterations=5", tetraOBJ)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %+v", resp.StatusCode, decodeError(t, resp))
	}
	if ct := resp.Header.Get("Content-Type"); ct != "model/obj" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get(CacheHeader) != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", resp.Header.Get(CacheHeader))
	}
	body, _ := io.ReadAll(resp.Body)
	m, err := meshio.ReadOBJ(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("response is not a valid OBJ: %v", err)
	}
	if m.VertexCount() != 4 {
		t.Errorf("vertices = %d", m.VertexCount())
	}

	jobID := resp.Header.Get(JobIDHeader)
	job, err := st.GetJob(t.Context(), jobID)
	if err != nil {
		t.Fatalf("job %q not stored: %v", jobID, err)
	}
	if job.Status != store.StatusDone || job.Params.Iterations != 5 || job.Stats.Edges != 6 {
		t.Errorf("job = %+v", job)
	}
	if !bytes.Equal(job.Result, body) {
		t.Error("stored result differs from response body")
	}

	again := post(t, ts.URL+"/v1/layouts?iterations=5", tetraOBJ)
	if again.Header.Get(CacheHeader) != "HIT" {
		t.Errorf("second request X-Cache = %q, want HIT", again.Header.Get(CacheHeader))
	}
}

func TestCreateLayoutJSON(t *testing.T) {
	ts, _ := newTestServer(t, Options{})
	resp := post(t, ts.URL+"/v1/layouts?format=json&dist_opt=1&temp_start=0.05", tetraOBJ)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	d, err := meshio.ReadJSON(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if d.Params == nil || d.Params.DistOpt != 1 || d.Params.TempStart != 0.05 {
		t.Errorf("params = %+v", d.Params)
	}
	if len(d.Faces) != 4 {
		t.Errorf("faces = %d", len(d.Faces))
	}
}

func TestCreateLayoutErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   string
	}{
		{"bad number", "?dist_opt=abc", tetraOBJ, http.StatusBadRequest, "INVALID_PARAMETER"},
		{"non-positive dist", "?dist_opt=0", tetraOBJ, http.StatusBadRequest, "INVALID_PARAMETER"},
		{"negative iterations", "?iterations=-2", tetraOBJ, http.StatusBadRequest, "INVALID_PARAMETER"},
		{"bad format", "?format=ply", tetraOBJ, http.StatusBadRequest, "INVALID_INPUT"},
		{"quad face", "", "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n", http.StatusBadRequest, "INVALID_FORMAT"},
		{"open mesh", "", "v 0 0 0\nv 1 1 0\nv 1 0 1\nv 0 1 1\nf 1 3 2\nf 1 2 4\nf 1 4 3\n", http.StatusBadRequest, "DEGENERATE_TOPOLOGY"},
	}
	ts, _ := newTestServer(t, Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/layouts"+tt.query, tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if e := decodeError(t, resp); e.Code != tt.code || e.RequestID == "" {
				t.Errorf("error = %+v, want code %s", e, tt.code)
			}
		})
	}
}

func TestCreateLayoutParseErrorMessage(t *testing.T) {
	ts, _ := newTestServer(t, Options{})
	resp := post(t, ts.URL+"/v1/layouts", "v 0 0 0\nv 1 abc 0\n")
	e := decodeError(t, resp)
	if e.Code != "INVALID_FORMAT" || !strings.Contains(e.Message, `line 2: vertex coordinate "abc"`) {
		t.Errorf("error = %+v", e)
	}
}

func TestCreateLayoutFailedJobRecorded(t *testing.T) {
	ts, st := newTestServer(t, Options{})
	open := "v 0 0 0\nv 1 1 0\nv 1 0 1\nv 0 1 1\nf 1 3 2\nf 1 2 4\nf 1 4 3\n"
	resp := post(t, ts.URL+"/v1/layouts", open)

	job, err := st.GetJob(t.Context(), resp.Header.Get(JobIDHeader))
	if err != nil {
		t.Fatal(err)
	}
	if job.Status != store.StatusFailed || !strings.Contains(job.Error, "nF: 3") {
		t.Errorf("job = %+v", job)
	}
}

func TestCreateLayoutBodyTooLarge(t *testing.T) {
	ts, _ := newTestServer(t, Options{MaxBodyBytes: 16})
	resp := post(t, ts.URL+"/v1/layouts", tetraOBJ)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestGetLayout(t *testing.T) {
	ts, _ := newTestServer(t, Options{})
	created := post(t, ts.URL+"/v1/layouts", tetraOBJ)
	id := created.Header.Get(JobIDHeader)

	resp := get(t, ts.URL+"/v1/layouts/"+id)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var job store.Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		t.Fatal(err)
	}
	if job.ID != id || job.Status != store.StatusDone || job.MeshHash == "" {
		t.Errorf("job = %+v", job)
	}

	result := get(t, ts.URL+"/v1/layouts/"+id+"/result")
	body, _ := io.ReadAll(result.Body)
	if result.StatusCode != http.StatusOK || !strings.HasPrefix(string(body), "v ") {
		t.Errorf("result status = %d body = %q", result.StatusCode, body)
	}

	missing := get(t, ts.URL+"/v1/layouts/"+uuid.NewString())
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("unknown job status = %d, want 404", missing.StatusCode)
	}
}

func TestListLayouts(t *testing.T) {
	ts, _ := newTestServer(t, Options{})
	for i := 0; i < 3; i++ {
		post(t, ts.URL+"/v1/layouts", tetraOBJ)
	}

	resp := get(t, ts.URL+"/v1/layouts?limit=2")
	var body struct {
		Jobs []store.Job `json:"jobs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Jobs) != 2 {
		t.Errorf("jobs = %d, want 2", len(body.Jobs))
	}

	bad := get(t, ts.URL+"/v1/layouts?limit=zero")
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", bad.StatusCode)
	}
}

func TestRecoverer(t *testing.T) {
	s := New(pipeline.NewRunner(nil, nil, nil), store.NewMemoryStore(), log.New(io.Discard), Options{})
	h := s.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestNotFoundRoute(t *testing.T) {
	ts, _ := newTestServer(t, Options{})
	if resp := get(t, ts.URL+"/nope"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeIndexOutOfRange, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{fmt.Errorf("wrapped: %w", errors.New(errors.ErrCodeDegenerateTopology, "x")), http.StatusBadRequest},
		{context.Canceled, http.StatusServiceUnavailable},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
