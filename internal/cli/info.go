package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meshforce/pkg/mesh"
)

// infoReport is the machine-readable output of `info --json`.
type infoReport struct {
	mesh.Stats
	Valid    bool             `json:"valid"`
	Problem  string           `json:"problem,omitempty"`
	Min      mesh.Vertex      `json:"bounds_min"`
	Max      mesh.Vertex      `json:"bounds_max"`
	Centroid mesh.Vertex      `json:"centroid"`
	Lengths  mesh.EdgeLengths `json:"edge_lengths"`
}

func newInfoReport(m *mesh.Mesh) infoReport {
	edges := m.Edges()
	r := infoReport{
		Stats:    mesh.NewStats(m.VertexCount(), len(edges), m.FaceCount()),
		Centroid: mesh.Centroid(m.Vertices),
		Lengths:  mesh.MeasureEdges(m.Vertices, edges),
	}
	r.Min, r.Max = mesh.Bounds(m.Vertices)
	if err := m.Validate(); err != nil {
		r.Problem = err.Error()
	} else {
		r.Valid = true
	}
	return r
}

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info [mesh.obj|layout.json]",
		Short: "Print topology and geometry statistics of a mesh",
		Long: `Print topology and geometry statistics of a mesh.

Reports element counts, Euler characteristic, genus, bounding box, centroid
and edge lengths. Meshes that the layout command would reject are still
described, with the reason they fail.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMesh(args[0])
			if err != nil {
				return err
			}
			r := newInfoReport(m)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			}
			printInfoReport(newPrinter(cmd.OutOrStdout()), args[0], r)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printInfoReport(p printer, path string, r infoReport) {
	vec := func(v mesh.Vertex) string { return fmt.Sprintf("(%.4g, %.4g, %.4g)", v.X, v.Y, v.Z) }

	p.title(path)
	p.keyValue("vertices", fmt.Sprint(r.Vertices))
	p.keyValue("edges", fmt.Sprint(r.Edges))
	p.keyValue("faces", fmt.Sprint(r.Faces))
	p.keyValue("euler", fmt.Sprint(r.Euler))
	p.keyValue("genus", fmt.Sprintf("%g", r.Genus))
	p.keyValue("bounds", vec(r.Min)+" "+iconArrow+" "+vec(r.Max))
	p.keyValue("centroid", vec(r.Centroid))
	p.keyValue("edge length", fmt.Sprintf("min %.4g · mean %.4g · max %.4g", r.Lengths.Min, r.Lengths.Mean, r.Lengths.Max))
	p.newline()

	if r.Valid {
		p.success("Closed genus-0 triangulation")
		return
	}
	p.warning("Not a valid layout input")
	p.detail("%s", r.Problem)
}
