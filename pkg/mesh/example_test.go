package mesh_test

import (
	"fmt"

	"github.com/matzehuels/meshforce/pkg/mesh"
)

func ExampleExtractEdges() {
	m := mesh.Tetrahedron()
	edges := mesh.ExtractEdges(m.Faces)

	fmt.Println(len(edges), "edges")
	fmt.Println(edges)
	// Output:
	// 6 edges
	// [[0 1] [0 2] [0 3] [1 2] [1 3] [2 3]]
}

func ExampleMesh_Validate() {
	open := mesh.New(
		[]mesh.Vertex{{X: 0}, {X: 1}, {Y: 1}},
		[]mesh.Face{{0, 1, 2}},
	)
	fmt.Println(mesh.Tetrahedron().Validate())
	fmt.Println(open.Validate() != nil)
	// Output:
	// <nil>
	// true
}
