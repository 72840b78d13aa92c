package meshio_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/meshforce/pkg/mesh"
	"github.com/matzehuels/meshforce/pkg/meshio"
)

func ExampleReadOBJ() {
	src := `v 0 0 0
v 1 1 0
v 1 0 1
v 0 1 1
f 1 3 2
f 1 2 4
f 1 4 3
f 2 3 4
`
	m, err := meshio.ReadOBJ(strings.NewReader(src))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(m.VertexCount(), m.FaceCount(), m.Faces[0])
	// Output: 4 4 [0 2 1]
}

func ExampleWriteOBJ() {
	m := mesh.New(
		[]mesh.Vertex{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 0.5, Z: 0}},
		[]mesh.Face{{0, 1, 2}},
	)
	_ = meshio.WriteOBJ(os.Stdout, m)
	// Output:
	// v 0 0 0
	// v 1 0 0
	// v 0 0.5 0
	// f 1 2 3
}
