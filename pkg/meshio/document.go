package meshio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/meshforce/pkg/errors"
	"github.com/matzehuels/meshforce/pkg/layout"
	"github.com/matzehuels/meshforce/pkg/mesh"
)

// Document is the JSON serialisation of a mesh, optionally annotated with
// the layout parameters that produced it and its topology counts.
//
//	{
//	  "vertices": [[0, 0, 0], [1, 1, 0], ...],
//	  "faces": [[0, 2, 1], ...],
//	  "params": {"dist_opt": 0.5, "temp_start": 0.1, "iterations": 1},
//	  "stats": {"vertices": 4, "edges": 6, "faces": 4, "euler": 2, "genus": 0}
//	}
type Document struct {
	Vertices [][3]float64   `json:"vertices" bson:"vertices"`
	Faces    [][3]int       `json:"faces" bson:"faces"`
	Params   *layout.Params `json:"params,omitempty" bson:"params,omitempty"`
	Stats    *mesh.Stats    `json:"stats,omitempty" bson:"stats,omitempty"`
}

// NewDocument converts m to its serialisation form.
func NewDocument(m *mesh.Mesh) Document {
	d := Document{
		Vertices: make([][3]float64, len(m.Vertices)),
		Faces:    make([][3]int, len(m.Faces)),
	}
	for i, v := range m.Vertices {
		d.Vertices[i] = [3]float64{v.X, v.Y, v.Z}
	}
	for i, f := range m.Faces {
		d.Faces[i] = [3]int(f)
	}
	return d
}

// Mesh converts d back to a mesh.
func (d Document) Mesh() *mesh.Mesh {
	m := &mesh.Mesh{
		Vertices: make([]mesh.Vertex, len(d.Vertices)),
		Faces:    make([]mesh.Face, len(d.Faces)),
	}
	for i, v := range d.Vertices {
		m.Vertices[i] = mesh.Vertex{X: v[0], Y: v[1], Z: v[2]}
	}
	for i, f := range d.Faces {
		m.Faces[i] = mesh.Face(f)
	}
	return m
}

// WriteJSON encodes d as indented JSON to w.
func WriteJSON(w io.Writer, d Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a Document from r.
func ReadJSON(r io.Reader) (Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Document{}, errors.New(errors.ErrCodeInvalidFormat, "decode mesh document: %v", err)
	}
	return d, nil
}

// MarshalDocument returns the compact JSON encoding of d.
func MarshalDocument(d Document) ([]byte, error) {
	return json.Marshal(d)
}

// UnmarshalDocument decodes a Document from data.
func UnmarshalDocument(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, errors.New(errors.ErrCodeInvalidFormat, "decode mesh document: %v", err)
	}
	return d, nil
}
