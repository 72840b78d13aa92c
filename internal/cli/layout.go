package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meshforce/pkg/errors"
	"github.com/matzehuels/meshforce/pkg/layout"
	"github.com/matzehuels/meshforce/pkg/meshio"
	"github.com/matzehuels/meshforce/pkg/pipeline"
)

// stdoutPath selects standard output for -o.
const stdoutPath = "-"

type layoutFlags struct {
	output  string
	noCache bool
	watch   bool
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags layoutFlags
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "layout [mesh.obj]",
		Short: "Relax vertex positions of a closed triangle mesh",
		Long: `Relax vertex positions of a closed triangle mesh.

The input must be a Wavefront OBJ file with triangular faces describing a
closed genus-0 surface. Every vertex pair repels with k²/d, every mesh edge
attracts with d²/k, and each move is capped per axis by a temperature that
cools linearly to zero over the run.

Output formats: obj (default), stl, json. Without --format the format is
taken from the -o extension, then from the config file.

Results are cached, so repeating a run with the same mesh and parameters
is instant. Use --refresh to recompute.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyLayoutConfig(cmd, &opts, flags.output)
			return c.runLayout(cmd, args[0], opts, flags)
		},
	}

	cmd.Flags().Float64Var(&opts.DistOpt, "dist-opt", opts.DistOpt, "optimal edge distance k")
	cmd.Flags().Float64Var(&opts.TempStart, "temp", opts.TempStart, "initial temperature (per-axis move cap)")
	cmd.Flags().IntVarP(&opts.Iterations, "iterations", "n", opts.Iterations, "number of iterations")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", opts.Format, "output format: obj, stl, json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file, - for stdout (default: <input>.layout.<format>)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "show live iteration progress")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(meshio.Formats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// applyLayoutConfig fills options the user did not set on the command line
// from the config file.
func (c *CLI) applyLayoutConfig(cmd *cobra.Command, opts *pipeline.Options, output string) {
	flags := cmd.Flags()
	if !flags.Changed("dist-opt") {
		opts.DistOpt = c.cfg.Layout.DistOpt
	}
	if !flags.Changed("temp") {
		opts.TempStart = c.cfg.Layout.TempStart
	}
	if !flags.Changed("iterations") {
		opts.Iterations = c.cfg.Layout.Iterations
	}
	if !flags.Changed("format") {
		if output != "" && output != stdoutPath {
			opts.Format = meshio.FormatFromPath(output)
		} else {
			opts.Format = c.cfg.Output.Format
		}
	}
}

// runLayout executes the pipeline on input and writes the result.
func (c *CLI) runLayout(cmd *cobra.Command, input string, opts pipeline.Options, flags layoutFlags) error {
	ctx := cmd.Context()
	p := newPrinter(cmd.OutOrStdout())

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	var res *pipeline.Result
	if flags.watch {
		res, err = watchRun(ctx, runner, input, opts, cmd.InOrStdin(), cmd.ErrOrStderr())
	} else {
		res, err = c.spinRun(ctx, cmd, runner, input, opts)
	}
	if err != nil {
		return fmt.Errorf("layout %s: %w", input, err)
	}
	prog.done("Layout complete")

	output := flags.output
	if output == "" {
		output = derivedPath(input, ".layout."+opts.Format)
	}
	if output == stdoutPath {
		_, err := cmd.OutOrStdout().Write(res.Output)
		return err
	}
	if err := writeOutput(output, res.Output); err != nil {
		return err
	}

	p.success("Layout complete")
	p.file(output)
	p.stats(res.Stats.Vertices, res.Stats.Edges, res.Stats.Faces, res.CacheInfo.LayoutHit)
	p.edgeTable(res.Stats.Before, res.Stats.After)
	p.newline()
	p.nextStep("Render", appName+" render "+output)
	return nil
}

// spinRun runs the pipeline behind a spinner that shows the current
// iteration.
func (c *CLI) spinRun(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, input string, opts pipeline.Options) (*pipeline.Result, error) {
	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Computing layout...")
	spinner.Start()
	defer spinner.Stop()

	logIteration := iterationLogger(c.Logger)
	opts.Observer = func(it layout.Iteration) {
		spinner.SetMessage(fmt.Sprintf("Iteration %d/%d", it.Index+1, it.Total))
		logIteration(it)
	}
	return runner.Run(ctx, input, opts)
}

// writeOutput writes data to path after validating it.
func writeOutput(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
