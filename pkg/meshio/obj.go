package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/meshforce/pkg/errors"
	"github.com/matzehuels/meshforce/pkg/mesh"
)

// maxLineLength bounds a single OBJ record.
const maxLineLength = 1 << 20

// ReadOBJ decodes an OBJ mesh from r and verifies that its counts describe a
// closed genus-0 triangulation. ReadOBJ does not close r.
func ReadOBJ(r io.Reader) (*mesh.Mesh, error) {
	m, err := DecodeOBJ(r)
	if err != nil {
		return nil, err
	}
	if err := CheckEuler(m.VertexCount(), m.FaceCount()); err != nil {
		return nil, err
	}
	return m, nil
}

// CheckEuler checks V - E + F == 2 using the closed-triangulation edge
// count E = 3F/2, so it needs no edge extraction.
func CheckEuler(nV, nF int) error {
	s := mesh.NewStats(nV, nF*3/2, nF)
	if !s.IsGenusZero() {
		return errors.New(errors.ErrCodeDegenerateTopology,
			"input mesh is not 2-manifold with genus 0 (nV: %d, nE: %d, nF: %d, g = 1 - 0.5 * (nV - nE + nF) = %g)",
			s.Vertices, s.Edges, s.Faces, s.Genus)
	}
	return nil
}

// DecodeOBJ parses an OBJ mesh from r without topology checks.
// Face indices in the result are 0-based. Negative (relative) indices are
// resolved against the vertices read so far.
func DecodeOBJ(r io.Reader) (*mesh.Mesh, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)

	m := mesh.New(nil, nil)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: %v", lineNo, err)
			}
			m.Vertices = append(m.Vertices, v)

		case "f":
			f, err := parseFace(fields[1:], len(m.Vertices))
			if err != nil {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: %v", lineNo, err)
			}
			m.Faces = append(m.Faces, f)

		default:
			// vt, vn, o, g, s, mtllib, usemtl, comments and anything else
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "read OBJ: %v", err)
	}
	return m, nil
}

func parseVertex(fields []string) (mesh.Vertex, error) {
	if len(fields) < 3 {
		return mesh.Vertex{}, fmt.Errorf("vertex needs 3 coordinates, got %d", len(fields))
	}
	var c [3]float64
	for i := range c {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return mesh.Vertex{}, fmt.Errorf("vertex coordinate %q: %w", fields[i], err)
		}
		c[i] = x
	}
	return mesh.Vertex{X: c[0], Y: c[1], Z: c[2]}, nil
}

func parseFace(fields []string, nVertices int) (mesh.Face, error) {
	if len(fields) != 3 {
		return mesh.Face{}, fmt.Errorf("face has %d vertices, only triangles are supported", len(fields))
	}
	var f mesh.Face
	for i, tok := range fields {
		ref, _, _ := strings.Cut(tok, "/")
		idx, err := strconv.Atoi(ref)
		if err != nil {
			return mesh.Face{}, fmt.Errorf("face index %q: %w", tok, err)
		}
		switch {
		case idx > 0:
			f[i] = idx - 1
		case idx < 0:
			f[i] = nVertices + idx
		default:
			return mesh.Face{}, fmt.Errorf("face index 0 is invalid, OBJ indices start at 1")
		}
	}
	return f, nil
}

// WriteOBJ writes m to w as OBJ: one "v" record per vertex, then one "f"
// record per face with 1-based indices.
func WriteOBJ(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(v.X), formatFloat(v.Y), formatFloat(v.Z))
	}
	for _, f := range m.Faces {
		fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write OBJ: %w", err)
	}
	return nil
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
