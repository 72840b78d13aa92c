// Package mesh provides the plain data model for closed triangle meshes.
//
// A mesh is an ordered list of vertex positions and an ordered list of
// triangular faces that index into it. Vertex identity is its index; there is
// no separate ID. Positions use gonum's [r3.Vec] so the layout engine can use
// the r3 vector helpers directly.
//
// # Edges
//
// [ExtractEdges] derives the undirected edge set implied by the faces. Each
// edge is normalised so its smaller index comes first, duplicates shared by
// adjacent faces are dropped, and the result is sorted by (min, max). The
// sorted order is what makes force summation in the layout engine
// reproducible.
//
// # Topology
//
// The layout engine requires a closed, genus-0, 2-manifold triangulation.
// [CheckTopology] asserts the two counting invariants such a mesh satisfies:
//
//	|E| == |F| * 3 / 2
//	|V| - |E| + |F| == 2
//
// Violations are fatal and reported with an [errors.ErrCodeDegenerateTopology]
// error carrying the vertex, edge and face counts and the computed genus.
// Out-of-range face indices fail with [errors.ErrCodeIndexOutOfRange].
//
// [r3.Vec]: https://pkg.go.dev/gonum.org/v1/gonum/spatial/r3#Vec
// [errors.ErrCodeDegenerateTopology]: github.com/matzehuels/meshforce/pkg/errors
// [errors.ErrCodeIndexOutOfRange]: github.com/matzehuels/meshforce/pkg/errors
package mesh
