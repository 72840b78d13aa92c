package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshforce/pkg/cache"
	"github.com/matzehuels/meshforce/pkg/errors"
	"github.com/matzehuels/meshforce/pkg/layout"
	"github.com/matzehuels/meshforce/pkg/mesh"
	"github.com/matzehuels/meshforce/pkg/meshio"
	"github.com/matzehuels/meshforce/pkg/observability"
	"github.com/matzehuels/meshforce/pkg/render/wireframe"
)

// Runner executes pipeline stages with caching. It holds no per-run state
// and is safe for concurrent use when its Cache is.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a runner. A nil cache disables caching and a nil keyer
// selects the default keyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Run loads the OBJ file at path and executes the rest of the pipeline.
func (r *Runner) Run(ctx context.Context, path string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	m, err := r.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	loadTime := time.Since(start)

	res, err := r.Execute(ctx, m, opts)
	if err != nil {
		return nil, err
	}
	res.Stats.LoadTime = loadTime
	return res, nil
}

// Execute lays out m and encodes the result.
func (r *Runner) Execute(ctx context.Context, m *mesh.Mesh, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	edges, err := m.ValidatedEdges()
	if err != nil {
		return nil, err
	}
	res := &Result{Input: m, MeshHash: MeshHash(m)}
	res.Stats.Stats = mesh.NewStats(m.VertexCount(), len(edges), m.FaceCount())
	res.Stats.Before = mesh.MeasureEdges(m.Vertices, edges)

	layoutStart := time.Now()
	out, hit, err := r.layout(ctx, m, res.MeshHash, opts)
	if err != nil {
		return nil, err
	}
	res.Mesh = out
	res.CacheInfo.LayoutHit = hit
	res.Stats.LayoutTime = time.Since(layoutStart)
	res.Stats.After = mesh.MeasureEdges(out.Vertices, edges)

	opts.Logger.Info("computed layout",
		"vertices", res.Stats.Vertices,
		"edges", res.Stats.Edges,
		"iterations", opts.Iterations,
		"cached", hit,
		"duration", res.Stats.LayoutTime)

	writeStart := time.Now()
	res.Output, err = r.Encode(ctx, out, opts, meshio.Document{Params: &opts.Params, Stats: &res.Stats.Stats})
	if err != nil {
		return nil, err
	}
	res.Stats.WriteTime = time.Since(writeStart)
	return res, nil
}

// Load reads and validates the OBJ file at path.
func (r *Runner) Load(ctx context.Context, path string) (*mesh.Mesh, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	m, err := meshio.ImportOBJ(path)
	if err != nil {
		hooks.OnLoadComplete(ctx, path, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, path, m.VertexCount(), m.FaceCount(), time.Since(start), nil)
	r.Logger.Debug("loaded mesh", "path", path, "vertices", m.VertexCount(), "faces", m.FaceCount())
	return m, nil
}

// Decode reads and validates an OBJ mesh from rd. source names the input
// for hooks and logs.
func (r *Runner) Decode(ctx context.Context, rd io.Reader, source string) (*mesh.Mesh, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	m, err := meshio.ReadOBJ(rd)
	if err != nil {
		hooks.OnLoadComplete(ctx, source, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, source, m.VertexCount(), m.FaceCount(), time.Since(start), nil)
	return m, nil
}

func (r *Runner) layout(ctx context.Context, m *mesh.Mesh, meshHash string, opts Options) (*mesh.Mesh, bool, error) {
	key := r.Keyer.LayoutKey(meshHash, opts.LayoutKeyOpts())
	ch := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if vs, ok := decodePositions(data, m.VertexCount()); ok {
				ch.OnCacheHit(ctx, "layout")
				return m.WithVertices(vs), true, nil
			}
			// stale or foreign entry, recompute
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		}
		ch.OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, m.VertexCount(), m.FaceCount()*3/2, opts.Iterations)
	start := time.Now()

	var engineOpts []layout.Option
	if opts.Observer != nil {
		engineOpts = append(engineOpts, layout.WithObserver(opts.Observer))
	}
	eng, err := layout.New(m, opts.Params, engineOpts...)
	if err != nil {
		hooks.OnLayoutComplete(ctx, time.Since(start), err)
		return nil, false, err
	}
	vs, err := eng.RunContext(ctx)
	hooks.OnLayoutComplete(ctx, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	out := m.WithVertices(vs)

	if data, err := meshio.MarshalDocument(meshio.Document{Vertices: meshio.NewDocument(out).Vertices}); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			ch.OnCacheSet(ctx, "layout", len(data))
		}
	}
	return out, false, nil
}

func decodePositions(data []byte, n int) ([]mesh.Vertex, bool) {
	d, err := meshio.UnmarshalDocument(data)
	if err != nil || len(d.Vertices) != n {
		return nil, false
	}
	return d.Mesh().Vertices, true
}

// Encode serialises m in opts.Format. For JSON, d carries the annotations.
func (r *Runner) Encode(ctx context.Context, m *mesh.Mesh, opts Options, d meshio.Document) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnWriteStart(ctx, opts.Format)
	start := time.Now()

	var buf bytes.Buffer
	err := meshio.Write(&buf, m, opts.Format, d)
	hooks.OnWriteComplete(ctx, opts.Format, buf.Len(), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", opts.Format, err)
	}
	return buf.Bytes(), nil
}

// Render draws m as a wireframe, caching the artifact.
func (r *Runner) Render(ctx context.Context, m *mesh.Mesh, opts RenderOptions) ([]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	if opts.Format == "" {
		opts.Format = wireframe.FormatSVG
	}
	if err := errors.ValidateFormat(opts.Format, wireframe.Formats...); err != nil {
		return nil, false, err
	}

	key := r.Keyer.ArtifactKey(MeshHash(m), opts.ArtifactKeyOpts())
	ch := observability.Cache()
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		ch.OnCacheHit(ctx, "artifact")
		return data, true, nil
	}
	ch.OnCacheMiss(ctx, "artifact")

	data, err := wireframe.Render(ctx, m, opts.Format, opts.Options)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
		ch.OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// MeshHash returns the content hash of m's canonical JSON encoding.
func MeshHash(m *mesh.Mesh) string {
	data, err := meshio.MarshalDocument(meshio.NewDocument(m))
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
