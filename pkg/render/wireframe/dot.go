package wireframe

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/meshforce/pkg/errors"
	"github.com/matzehuels/meshforce/pkg/mesh"
)

// Projection planes.
const (
	ViewFront = "front" // x right, y up
	ViewSide  = "side"  // z right, y up
	ViewTop   = "top"   // x right, z up
	ViewIso   = "iso"   // isometric
)

// Views lists the supported projections.
var Views = []string{ViewFront, ViewSide, ViewTop, ViewIso}

// DefaultSize is the default length of the longer image side, in inches.
const DefaultSize = 6.0

// Options configures wireframe generation.
type Options struct {
	View string
	// Size is the longer side of the drawing in inches.
	Size float64
	// Labels draws vertex indices next to each vertex.
	Labels bool
}

// Validate applies defaults and checks the view name.
func (o *Options) Validate() error {
	if o.View == "" {
		o.View = ViewIso
	}
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	return errors.ValidateFormat(o.View, Views...)
}

// Point is a projected vertex position in inches.
type Point struct{ X, Y float64 }

var (
	isoCos = math.Cos(math.Pi / 6)
	isoSin = math.Sin(math.Pi / 6)
)

func project(v mesh.Vertex, view string) Point {
	switch view {
	case ViewSide:
		return Point{v.Z, v.Y}
	case ViewTop:
		return Point{v.X, v.Z}
	case ViewIso:
		return Point{(v.X - v.Z) * isoCos, v.Y + (v.X+v.Z)*isoSin}
	default:
		return Point{v.X, v.Y}
	}
}

// Project maps the mesh vertices onto the view plane and scales them so the
// longer side of their bounding box spans size inches, with the lower-left
// corner at the origin.
func Project(vs []mesh.Vertex, view string, size float64) []Point {
	pts := make([]Point, len(vs))
	if len(vs) == 0 {
		return pts
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, v := range vs {
		p := project(v, view)
		pts[i] = p
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	extent := math.Max(maxX-minX, maxY-minY)
	scale := 1.0
	if extent > 0 {
		scale = size / extent
	}
	for i := range pts {
		pts[i].X = (pts[i].X - minX) * scale
		pts[i].Y = (pts[i].Y - minY) * scale
	}
	return pts
}

// ToDOT converts m to an undirected Graphviz graph with pinned node
// positions. Opts must have been validated.
func ToDOT(m *mesh.Mesh, opts Options) string {
	pts := Project(m.Vertices, opts.View, opts.Size)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=point, width=0.04, color=\"#1f2937\"];\n")
	buf.WriteString("  edge [color=\"#6b7280\", penwidth=0.6];\n")
	buf.WriteString("\n")

	for i, p := range pts {
		fmt.Fprintf(&buf, "  v%d [pos=\"%s,%s!\"", i, fmtInch(p.X), fmtInch(p.Y))
		if opts.Labels {
			fmt.Fprintf(&buf, ", xlabel=\"%d\", fontsize=8", i)
		}
		buf.WriteString("];\n")
	}

	buf.WriteString("\n")
	for _, e := range mesh.ExtractEdges(m.Faces) {
		fmt.Fprintf(&buf, "  v%d -- v%d;\n", e[0], e[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtInch(x float64) string {
	return strconv.FormatFloat(x, 'f', 4, 64)
}
