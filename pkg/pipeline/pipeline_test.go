package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/meshforce/pkg/cache"
	"github.com/matzehuels/meshforce/pkg/errors"
	"github.com/matzehuels/meshforce/pkg/layout"
	"github.com/matzehuels/meshforce/pkg/mesh"
	"github.com/matzehuels/meshforce/pkg/meshio"
	"github.com/matzehuels/meshforce/pkg/observability"
	"github.com/matzehuels/meshforce/pkg/render/wireframe"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Params != layout.DefaultParams() {
		t.Errorf("Params = %+v, want defaults", opts.Params)
	}
	if opts.Format != meshio.FormatOBJ {
		t.Errorf("Format = %q, want obj", opts.Format)
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Options)
		code errors.Code
	}{
		{"defaults", func(*Options) {}, ""},
		{"empty format", func(o *Options) { o.Format = "" }, ""},
		{"stl", func(o *Options) { o.Format = "stl" }, ""},
		{"bad format", func(o *Options) { o.Format = "ply" }, errors.ErrCodeInvalidInput},
		{"zero dist", func(o *Options) { o.DistOpt = 0 }, errors.ErrCodeInvalidParameter},
		{"negative iterations", func(o *Options) { o.Iterations = -1 }, errors.ErrCodeInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mod(&opts)
			err := opts.Validate()
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Validate() = %v, want code %q", err, tt.code)
			}
			if err == nil && opts.Format == "" {
				t.Error("Validate() left Format empty")
			}
		})
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := DefaultOptions()
	opts.Iterations = 10

	res, err := r.Execute(context.Background(), mesh.Tetrahedron(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.Vertices != 4 || res.Stats.Edges != 6 || res.Stats.Faces != 4 {
		t.Errorf("stats = %+v", res.Stats.Stats)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("null cache reported a hit")
	}
	if res.Stats.After.Mean >= res.Stats.Before.Mean {
		t.Errorf("mean edge length %v did not shrink from %v", res.Stats.After.Mean, res.Stats.Before.Mean)
	}

	got, err := meshio.ReadOBJ(bytes.NewReader(res.Output))
	if err != nil {
		t.Fatalf("output is not a valid OBJ: %v", err)
	}
	for i, v := range got.Vertices {
		if v != res.Mesh.Vertices[i] {
			t.Errorf("output vertex %d = %v, want %v", i, v, res.Mesh.Vertices[i])
		}
	}
}

func TestExecuteRejectsPreconditions(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	bad := DefaultOptions()
	bad.DistOpt = -1
	if _, err := r.Execute(context.Background(), mesh.Tetrahedron(), bad); !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("negative dist_opt: err = %v", err)
	}

	open := mesh.Tetrahedron()
	open.Faces = open.Faces[:3]
	if _, err := r.Execute(context.Background(), open, DefaultOptions()); !errors.Is(err, errors.ErrCodeDegenerateTopology) {
		t.Errorf("open mesh: err = %v", err)
	}
}

func TestExecuteCachesLayout(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := DefaultOptions()
	opts.Iterations = 5

	first, err := r.Execute(ctx, mesh.Cube(), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(ctx, mesh.Cube(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit || !second.CacheInfo.LayoutHit {
		t.Errorf("hits = %v, %v, want false, true", first.CacheInfo.LayoutHit, second.CacheInfo.LayoutHit)
	}
	if !bytes.Equal(first.Output, second.Output) {
		t.Error("cached layout differs from computed layout")
	}

	opts.Iterations = 6
	third, err := r.Execute(ctx, mesh.Cube(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit {
		t.Error("different parameters should not hit the cache")
	}

	opts.Iterations = 5
	opts.Refresh = true
	fourth, err := r.Execute(ctx, mesh.Cube(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.LayoutHit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestExecuteObserver(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := DefaultOptions()
	opts.Iterations = 4

	var seen []int
	opts.Observer = func(it layout.Iteration) { seen = append(seen, it.Index) }
	if _, err := r.Execute(context.Background(), mesh.Octahedron(), opts); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 4 || seen[3] != 3 {
		t.Errorf("observer saw %v, want [0 1 2 3]", seen)
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := DefaultOptions()
	opts.Iterations = 3
	_, err := NewRunner(nil, nil, nil).Execute(ctx, mesh.Cube(), opts)
	if err == nil {
		t.Fatal("Execute with canceled context succeeded")
	}
}

func TestExecuteJSON(t *testing.T) {
	opts := DefaultOptions()
	opts.Format = meshio.FormatJSON
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), mesh.Tetrahedron(), opts)
	if err != nil {
		t.Fatal(err)
	}
	d, err := meshio.UnmarshalDocument(res.Output)
	if err != nil {
		t.Fatal(err)
	}
	if d.Params == nil || *d.Params != opts.Params {
		t.Errorf("params = %v, want %v", d.Params, opts.Params)
	}
	if d.Stats == nil || d.Stats.Genus != 0 {
		t.Errorf("stats = %v", d.Stats)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "oct.obj")
	if err := meshio.Export(in, mesh.Octahedron(), meshio.FormatOBJ, meshio.Document{}); err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(nil, nil, nil).Run(context.Background(), in, DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Input.VertexCount() != 6 {
		t.Errorf("loaded %d vertices, want 6", res.Input.VertexCount())
	}
	if !strings.HasPrefix(string(res.Output), "v ") {
		t.Errorf("output does not start with a vertex record: %q", res.Output[:20])
	}

	_, err = NewRunner(nil, nil, nil).Run(context.Background(), filepath.Join(dir, "missing.obj"), DefaultOptions())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing input: err = %v", err)
	}
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := meshio.WriteOBJ(&buf, mesh.Cube()); err != nil {
		t.Fatal(err)
	}
	m, err := NewRunner(nil, nil, nil).Decode(context.Background(), &buf, "request")
	if err != nil {
		t.Fatal(err)
	}
	if m.FaceCount() != 12 {
		t.Errorf("faces = %d, want 12", m.FaceCount())
	}
}

func TestRender(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := RenderOptions{Format: wireframe.FormatDOT}

	out, hit, err := r.Render(ctx, mesh.Tetrahedron(), opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if hit || !strings.Contains(string(out), "graph G") {
		t.Errorf("first render: hit=%v out=%q", hit, out)
	}
	again, hit, err := r.Render(ctx, mesh.Tetrahedron(), opts)
	if err != nil || !hit || !bytes.Equal(out, again) {
		t.Errorf("second render: hit=%v err=%v", hit, err)
	}

	if _, _, err := r.Render(ctx, mesh.Tetrahedron(), RenderOptions{Format: "gif"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("gif: err = %v", err)
	}
}

func TestRenderLabelsKeyedSeparately(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	plain, _, err := r.Render(ctx, mesh.Tetrahedron(), RenderOptions{Format: wireframe.FormatDOT})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	labeled, hit, err := r.Render(ctx, mesh.Tetrahedron(), RenderOptions{
		Options: wireframe.Options{Labels: true},
		Format:  wireframe.FormatDOT,
	})
	if err != nil {
		t.Fatalf("Render(labels): %v", err)
	}
	if hit {
		t.Error("labeled render hit the unlabeled cache entry")
	}
	if bytes.Equal(plain, labeled) || !strings.Contains(string(labeled), "xlabel") {
		t.Errorf("labeled render missing labels:\n%s", labeled)
	}
}

func TestHooksFire(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	defer observability.Reset()

	dir := t.TempDir()
	in := filepath.Join(dir, "tet.obj")
	if err := os.WriteFile(in, []byte("v 0 0 0\nv 1 1 0\nv 1 0 1\nv 0 1 1\nf 1 3 2\nf 1 2 4\nf 1 4 3\nf 2 3 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewRunner(nil, nil, nil).Run(context.Background(), in, DefaultOptions()); err != nil {
		t.Fatal(err)
	}

	want := []string{"load", "loaded", "miss:layout", "layout", "layout done", "write", "written"}
	if got := h.events(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", got, want)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	mu  sync.Mutex
	log []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.log = append(h.log, e)
}

func (h *recordingHooks) events() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.log...)
}

func (h *recordingHooks) OnLoadStart(context.Context, string) { h.add("load") }
func (h *recordingHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {
	h.add("loaded")
}
func (h *recordingHooks) OnLayoutStart(context.Context, int, int, int) { h.add("layout") }
func (h *recordingHooks) OnLayoutComplete(context.Context, time.Duration, error) {
	h.add("layout done")
}
func (h *recordingHooks) OnWriteStart(context.Context, string) { h.add("write") }
func (h *recordingHooks) OnWriteComplete(context.Context, string, int, time.Duration, error) {
	h.add("written")
}
func (h *recordingHooks) OnCacheMiss(_ context.Context, keyType string) { h.add("miss:" + keyType) }
