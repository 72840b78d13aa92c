package meshio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/meshforce/pkg/mesh"
)

// stlHeader is the 80-byte header and triangle count of a binary STL file.
type stlHeader struct {
	Header [80]byte
	Count  uint32
}

// stlTriangle is one 50-byte binary STL facet record.
type stlTriangle struct {
	Normal    [3]float32
	Vertices  [3][3]float32
	Attribute uint16
}

// WriteSTL writes m to w as binary STL. Facet normals are derived from face
// winding; degenerate faces get a zero normal. Coordinates are narrowed to
// float32 as the format requires.
func WriteSTL(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	var h stlHeader
	copy(h.Header[:], "meshforce binary STL")
	h.Count = uint32(len(m.Faces))
	if err := binary.Write(bw, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("write STL header: %w", err)
	}

	for fi, f := range m.Faces {
		var t stlTriangle
		n := faceNormal(m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]])
		t.Normal = toFloat32(n)
		for i, vi := range f {
			t.Vertices[i] = toFloat32(m.Vertices[vi])
		}
		if err := binary.Write(bw, binary.LittleEndian, &t); err != nil {
			return fmt.Errorf("write STL facet %d: %w", fi, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write STL: %w", err)
	}
	return nil
}

func faceNormal(a, b, c mesh.Vertex) r3.Vec {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	l := r3.Norm(n)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, n)
}

func toFloat32(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
