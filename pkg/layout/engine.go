package layout

import (
	"context"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/meshforce/pkg/errors"
	"github.com/matzehuels/meshforce/pkg/mesh"
)

// Iteration describes one completed step, passed to observers.
type Iteration struct {
	// Index is the zero-based iteration number.
	Index int

	// Total is the configured number of iterations.
	Total int

	// Temperature is the per-axis cap that was applied in this step.
	Temperature float64

	// MaxStep is the largest single-axis move of any vertex in this step.
	MaxStep float64

	// Moved counts vertices with a non-zero displacement.
	Moved int
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver registers fn to be called after every iteration, on the
// engine's goroutine.
func WithObserver(fn func(Iteration)) Option {
	return func(e *Engine) { e.observer = fn }
}

// Engine runs force-directed layout for one mesh.
//
// An Engine owns its edge set and a displacement buffer that is reused across
// iterations. It is not safe for concurrent use; create one Engine per
// goroutine.
type Engine struct {
	params   Params
	initial  []mesh.Vertex
	edges    []mesh.Edge
	disp     []r3.Vec
	observer func(Iteration)
}

// New validates m and p and prepares an Engine.
//
// It fails with [errors.ErrCodeInvalidParameter] for bad parameters,
// [errors.ErrCodeIndexOutOfRange] for faces referencing missing vertices,
// and [errors.ErrCodeDegenerateTopology] for meshes that are empty, open,
// non-manifold or not genus 0. The caller's vertex slice is never modified.
func New(m *mesh.Mesh, p Params, opts ...Option) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New(errors.ErrCodeDegenerateTopology, "mesh is nil")
	}
	for i, v := range m.Vertices {
		if !finite(v) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "vertex %d has a non-finite coordinate: %v", i, v)
		}
	}
	edges, err := m.ValidatedEdges()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		params:  p,
		initial: m.Vertices,
		edges:   edges,
		disp:    make([]r3.Vec, len(m.Vertices)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Params returns the parameters the engine was created with.
func (e *Engine) Params() Params { return e.params }

// Edges returns the engine's sorted edge set. The slice must not be modified.
func (e *Engine) Edges() []mesh.Edge { return e.edges }

// Run performs all iterations and returns the new positions.
func (e *Engine) Run() []mesh.Vertex {
	out, _ := e.RunContext(context.Background())
	return out
}

// RunContext is like Run but stops between iterations when ctx is done,
// returning ctx.Err() and no positions.
func (e *Engine) RunContext(ctx context.Context) ([]mesh.Vertex, error) {
	pos := mesh.CopyVertices(e.initial)
	n := e.params.Iterations
	temp := e.params.TempStart

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		it := e.Step(pos, temp)
		it.Index = i
		it.Total = n
		if e.observer != nil {
			e.observer(it)
		}
		temp = Temperature(i, n, e.params.TempStart)
	}
	return pos, nil
}

// Step performs one iteration on pos in place using temperature temp as the
// per-axis cap. It does not cool; the caller owns the schedule.
func (e *Engine) Step(pos []mesh.Vertex, temp float64) Iteration {
	e.accumulate(pos)
	maxStep, moved := e.move(pos, temp)
	return Iteration{Temperature: temp, MaxStep: maxStep, Moved: moved}
}

// Displacements returns a copy of the displacement vectors the next Step
// would apply for positions pos.
func (e *Engine) Displacements(pos []mesh.Vertex) []r3.Vec {
	e.accumulate(pos)
	out := make([]r3.Vec, len(e.disp))
	copy(out, e.disp)
	return out
}

// accumulate resets the displacement buffer and adds repulsion for every
// vertex pair followed by attraction for every edge.
func (e *Engine) accumulate(pos []mesh.Vertex) {
	clear(e.disp)
	k := e.params.DistOpt

	for vi := 0; vi < len(pos); vi++ {
		for ui := vi + 1; ui < len(pos); ui++ {
			delta, dist := separation(pos[vi], pos[ui])
			if dist == 0 {
				continue
			}
			f := r3.Scale(Repulsive(dist, k)/dist, delta)
			e.disp[vi] = r3.Add(e.disp[vi], f)
			e.disp[ui] = r3.Sub(e.disp[ui], f)
		}
	}

	for _, edge := range e.edges {
		vi, ui := edge[0], edge[1]
		delta, dist := separation(pos[vi], pos[ui])
		if dist == 0 {
			continue
		}
		f := r3.Scale(Attractive(dist, k)/dist, delta)
		e.disp[vi] = r3.Sub(e.disp[vi], f)
		e.disp[ui] = r3.Add(e.disp[ui], f)
	}
}

// move applies the capped displacement to every vertex and returns the
// largest single-axis move and the number of vertices that moved.
func (e *Engine) move(pos []mesh.Vertex, temp float64) (maxStep float64, moved int) {
	for vi, d := range e.disp {
		n := r3.Norm(d)
		if n == 0 {
			continue
		}
		step := r3.Vec{
			X: d.X / n * math.Min(temp, math.Abs(d.X)),
			Y: d.Y / n * math.Min(temp, math.Abs(d.Y)),
			Z: d.Z / n * math.Min(temp, math.Abs(d.Z)),
		}
		pos[vi] = r3.Add(pos[vi], step)
		maxStep = math.Max(maxStep, math.Max(math.Abs(step.X), math.Max(math.Abs(step.Y), math.Abs(step.Z))))
		moved++
	}
	return maxStep, moved
}

// separation returns v - u and its length.
func separation(v, u mesh.Vertex) (r3.Vec, float64) {
	d := r3.Sub(v, u)
	return d, r3.Norm(d)
}

func finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Layout runs the engine once over vertices and faces and returns new
// positions in the same index order. The input slices are not modified.
func Layout(vertices []mesh.Vertex, faces []mesh.Face, p Params) ([]mesh.Vertex, error) {
	e, err := New(mesh.New(vertices, faces), p)
	if err != nil {
		return nil, err
	}
	return e.Run(), nil
}
