package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vertex is a 3D position. Index identity within [Mesh.Vertices] is the
// vertex's only identifier.
type Vertex = r3.Vec

// Face is an ordered triple of vertex indices describing one triangle.
type Face [3]int

// Edge is an undirected vertex pair normalised so that Edge[0] < Edge[1].
type Edge [2]int

// NewEdge returns the normalised edge between a and b.
func NewEdge(a, b int) Edge {
	if a < b {
		return Edge{a, b}
	}
	return Edge{b, a}
}

// Edges returns the three boundary edges of f in winding order, each normalised.
func (f Face) Edges() [3]Edge {
	return [3]Edge{
		NewEdge(f[0], f[1]),
		NewEdge(f[1], f[2]),
		NewEdge(f[2], f[0]),
	}
}

// Mesh is a triangle mesh: positions plus faces indexing into them.
type Mesh struct {
	Vertices []Vertex
	Faces    []Face
}

// New creates a mesh from vertices and faces. The slices are not copied.
func New(vertices []Vertex, faces []Face) *Mesh {
	return &Mesh{Vertices: vertices, Faces: faces}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices: CopyVertices(m.Vertices),
		Faces:    append([]Face(nil), m.Faces...),
	}
}

// WithVertices returns a mesh sharing m's faces but using the given positions.
// It is used to pair a layout result with the topology it was computed for.
func (m *Mesh) WithVertices(vs []Vertex) *Mesh {
	return &Mesh{Vertices: vs, Faces: m.Faces}
}

// Edges returns the sorted, deduplicated edge set of m.
func (m *Mesh) Edges() []Edge {
	return ExtractEdges(m.Faces)
}

// CopyVertices returns an independent copy of vs.
func CopyVertices(vs []Vertex) []Vertex {
	if vs == nil {
		return nil
	}
	out := make([]Vertex, len(vs))
	copy(out, vs)
	return out
}

// Centroid returns the arithmetic mean of vs, or the zero vector if vs is empty.
func Centroid(vs []Vertex) Vertex {
	if len(vs) == 0 {
		return Vertex{}
	}
	var sum Vertex
	for _, v := range vs {
		sum = r3.Add(sum, v)
	}
	return r3.Scale(1/float64(len(vs)), sum)
}

// Bounds returns the axis-aligned bounding box of vs.
// Both corners are the zero vector if vs is empty.
func Bounds(vs []Vertex) (min, max Vertex) {
	if len(vs) == 0 {
		return Vertex{}, Vertex{}
	}
	min, max = vs[0], vs[0]
	for _, v := range vs[1:] {
		min = Vertex{X: math.Min(min.X, v.X), Y: math.Min(min.Y, v.Y), Z: math.Min(min.Z, v.Z)}
		max = Vertex{X: math.Max(max.X, v.X), Y: math.Max(max.Y, v.Y), Z: math.Max(max.Z, v.Z)}
	}
	return min, max
}

// EdgeLengths summarises the Euclidean lengths of edges over positions vs.
type EdgeLengths struct {
	Min, Max, Mean float64
}

// MeasureEdges computes min, max and mean edge length. Edges referencing
// vertices outside vs are skipped.
func MeasureEdges(vs []Vertex, edges []Edge) EdgeLengths {
	var (
		out   EdgeLengths
		sum   float64
		count int
	)
	for _, e := range edges {
		if e[0] < 0 || e[1] >= len(vs) {
			continue
		}
		d := r3.Norm(r3.Sub(vs[e[0]], vs[e[1]]))
		if count == 0 || d < out.Min {
			out.Min = d
		}
		if d > out.Max {
			out.Max = d
		}
		sum += d
		count++
	}
	if count > 0 {
		out.Mean = sum / float64(count)
	}
	return out
}
