package mesh

import (
	"github.com/matzehuels/meshforce/pkg/errors"
)

// MinVertices is the smallest vertex count a closed triangulation can have.
const MinVertices = 3

// Stats holds the counting invariants of a mesh.
type Stats struct {
	Vertices int     `json:"vertices" bson:"vertices"`
	Edges    int     `json:"edges" bson:"edges"`
	Faces    int     `json:"faces" bson:"faces"`
	Euler    int     `json:"euler" bson:"euler"`
	Genus    float64 `json:"genus" bson:"genus"`
}

// NewStats derives Euler characteristic and genus from element counts.
// The genus is g = 1 - (V - E + F) / 2 and is fractional for inputs that are
// not closed orientable surfaces.
func NewStats(nV, nE, nF int) Stats {
	euler := nV - nE + nF
	return Stats{
		Vertices: nV,
		Edges:    nE,
		Faces:    nF,
		Euler:    euler,
		Genus:    1 - float64(euler)/2,
	}
}

// IsGenusZero reports whether the counts describe a closed sphere-like surface.
func (s Stats) IsGenusZero() bool {
	return s.Euler == 2 && s.Edges == s.Faces*3/2
}

// Stats returns the vertex, edge and face counts of m.
func (m *Mesh) Stats() Stats {
	return NewStats(len(m.Vertices), len(m.Edges()), len(m.Faces))
}

// CheckIndices verifies every face index lies in [0, n) and that no face
// repeats a vertex.
func CheckIndices(n int, faces []Face) error {
	for fi, f := range faces {
		for _, vi := range f {
			if vi < 0 || vi >= n {
				return errors.New(errors.ErrCodeIndexOutOfRange,
					"face %d references vertex %d, valid range is [0, %d)", fi, vi, n)
			}
		}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			return errors.New(errors.ErrCodeDegenerateTopology,
				"face %d repeats a vertex: (%d, %d, %d)", fi, f[0], f[1], f[2])
		}
	}
	return nil
}

// CheckTopology asserts |E| == |F|*3/2 and |V| - |E| + |F| == 2.
func CheckTopology(nV int, faces []Face, edges []Edge) error {
	s := NewStats(nV, len(edges), len(faces))
	if s.Edges != s.Faces*3/2 {
		return errors.New(errors.ErrCodeDegenerateTopology,
			"edge count %d does not match 3F/2 = %d (nV: %d, nE: %d, nF: %d, g = %g): mesh is open or non-manifold",
			s.Edges, s.Faces*3/2, s.Vertices, s.Edges, s.Faces, s.Genus)
	}
	if s.Euler != 2 {
		return errors.New(errors.ErrCodeDegenerateTopology,
			"mesh is not 2-manifold with genus 0 (nV: %d, nE: %d, nF: %d, g = 1 - 0.5 * (nV - nE + nF) = %g)",
			s.Vertices, s.Edges, s.Faces, s.Genus)
	}
	return nil
}

// Validate checks every precondition the layout engine relies on: at least
// MinVertices vertices, at least one face, in-range indices and genus-0
// closed topology.
func (m *Mesh) Validate() error {
	_, err := m.ValidatedEdges()
	return err
}

// ValidatedEdges runs Validate and returns the extracted edge set so callers
// do not extract it twice.
func (m *Mesh) ValidatedEdges() ([]Edge, error) {
	if len(m.Vertices) < MinVertices {
		return nil, errors.New(errors.ErrCodeDegenerateTopology,
			"mesh has %d vertices, need at least %d", len(m.Vertices), MinVertices)
	}
	if len(m.Faces) == 0 {
		return nil, errors.New(errors.ErrCodeDegenerateTopology, "mesh has no faces")
	}
	if err := CheckIndices(len(m.Vertices), m.Faces); err != nil {
		return nil, err
	}
	edges := ExtractEdges(m.Faces)
	if err := CheckTopology(len(m.Vertices), m.Faces, edges); err != nil {
		return nil, err
	}
	return edges, nil
}
