package meshio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/matzehuels/meshforce/pkg/mesh"
)

func TestWriteSTL(t *testing.T) {
	m := mesh.Octahedron()
	var buf bytes.Buffer
	if err := WriteSTL(&buf, m); err != nil {
		t.Fatalf("WriteSTL: %v", err)
	}

	if want := 84 + 50*m.FaceCount(); buf.Len() != want {
		t.Fatalf("size = %d, want %d", buf.Len(), want)
	}

	data := buf.Bytes()
	if n := binary.LittleEndian.Uint32(data[80:84]); int(n) != m.FaceCount() {
		t.Errorf("count = %d, want %d", n, m.FaceCount())
	}

	r := bytes.NewReader(data[84:])
	for i := 0; i < m.FaceCount(); i++ {
		var tri stlTriangle
		if err := binary.Read(r, binary.LittleEndian, &tri); err != nil {
			t.Fatalf("read facet %d: %v", i, err)
		}
		n := tri.Normal
		l := math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2]))
		if math.Abs(l-1) > 1e-6 {
			t.Errorf("facet %d normal length = %v, want 1", i, l)
		}
	}
}

func TestFaceNormalDegenerate(t *testing.T) {
	a := mesh.Vertex{X: 1, Y: 1, Z: 1}
	if n := faceNormal(a, a, a); n != (mesh.Vertex{}) {
		t.Errorf("faceNormal of collapsed face = %v, want zero", n)
	}
}
