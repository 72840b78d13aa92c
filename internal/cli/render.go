package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meshforce/pkg/mesh"
	"github.com/matzehuels/meshforce/pkg/meshio"
	"github.com/matzehuels/meshforce/pkg/pipeline"
	"github.com/matzehuels/meshforce/pkg/render/wireframe"
)

type renderFlags struct {
	output  string
	noCache bool
}

// renderCommand creates the render command for wireframe drawings.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags
	opts := pipeline.RenderOptions{
		Options: wireframe.Options{View: wireframe.ViewIso, Size: wireframe.DefaultSize},
		Format:  wireframe.FormatSVG,
	}

	cmd := &cobra.Command{
		Use:   "render [mesh.obj|layout.json]",
		Short: "Draw a wireframe projection of a mesh",
		Long: `Draw a wireframe projection of a mesh with Graphviz.

The mesh is projected orthographically onto the chosen view plane and every
edge is drawn as a line. Input may be an OBJ file or a JSON layout written
by 'layout -f json'.

Views: front, side, top, iso (default).
Formats: svg (default), png, dot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", opts.Format, "output format: svg, png, dot")
	cmd.Flags().StringVar(&opts.View, "view", opts.View, "projection: front, side, top, iso")
	cmd.Flags().Float64Var(&opts.Size, "size", opts.Size, "longer image side in inches")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "label vertices with their index")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file, - for stdout (default: <input>.<format>)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(wireframe.Formats, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("view", cobra.FixedCompletions(wireframe.Views, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts pipeline.RenderOptions, flags renderFlags) error {
	ctx := cmd.Context()
	p := newPrinter(cmd.OutOrStdout())

	m, err := loadMesh(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering wireframe...")
	spinner.Start()
	data, hit, err := runner.Render(ctx, m, opts)
	spinner.Stop()
	if spinner.Cancelled() {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", input, err)
	}

	output := flags.output
	if output == "" {
		output = derivedPath(input, "."+opts.Format)
	}
	if output == stdoutPath {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := writeOutput(output, data); err != nil {
		return err
	}

	p.success("Rendered %s view", opts.View)
	p.file(output)
	p.stats(m.VertexCount(), len(m.Edges()), m.FaceCount(), hit)
	return nil
}

// loadMesh reads an OBJ file, or a JSON layout document when the extension
// is .json. Topology is not checked.
func loadMesh(path string) (*mesh.Mesh, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		doc, err := meshio.ReadJSONFile(path)
		if err != nil {
			return nil, err
		}
		return doc.Mesh(), nil
	}
	return meshio.DecodeOBJFile(path)
}
