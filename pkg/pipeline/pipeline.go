// Package pipeline runs the load → layout → write sequence shared by the
// CLI and the HTTP server.
//
// A [Runner] owns the cache and logger. Layouts are cached under a key
// derived from the input mesh and the layout parameters, so repeating a run
// with the same input is a cache hit:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Run(ctx, "bunny.obj", pipeline.DefaultOptions())
//	os.WriteFile("out.obj", res.Output, 0o644)
//
// Stages can also be run on their own with [Runner.Load], [Runner.Decode],
// [Runner.Execute], [Runner.Encode] and [Runner.Render].
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshforce/pkg/cache"
	"github.com/matzehuels/meshforce/pkg/layout"
	"github.com/matzehuels/meshforce/pkg/mesh"
	"github.com/matzehuels/meshforce/pkg/meshio"
	"github.com/matzehuels/meshforce/pkg/render/wireframe"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It is decoded from API requests and
// config files, so zero values are meaningful: use [DefaultOptions] as the
// starting point.
type Options struct {
	layout.Params

	// Format is the output encoding: obj, stl or json. Empty means obj.
	Format string `json:"format,omitempty"`

	// Refresh bypasses the layout cache on read but still writes the result.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger            `json:"-"`
	Observer func(layout.Iteration) `json:"-"`
}

// DefaultOptions returns options with the default layout parameters and
// OBJ output.
func DefaultOptions() Options {
	return Options{
		Params: layout.DefaultParams(),
		Format: meshio.FormatOBJ,
	}
}

// Validate applies defaults to unset fields and checks the rest.
func (o *Options) Validate() error {
	if o.Format == "" {
		o.Format = meshio.FormatOBJ
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := o.Params.Validate(); err != nil {
		return err
	}
	return meshio.ValidateFormat(o.Format)
}

// LayoutKeyOpts returns the cache key fields for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		DistOpt:    o.DistOpt,
		TempStart:  o.TempStart,
		Iterations: o.Iterations,
	}
}

// RenderOptions configures the wireframe stage.
type RenderOptions struct {
	wireframe.Options
	Format string `json:"format"`
}

// ArtifactKeyOpts returns the cache key fields for a rendered artifact.
func (o *RenderOptions) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: o.Format,
		View:   o.View,
		Scale:  o.Size,
		Labels: o.Labels,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result is the output of a full run.
type Result struct {
	// Input is the mesh as loaded.
	Input *mesh.Mesh
	// Mesh is the laid-out mesh. It shares faces with Input.
	Mesh *mesh.Mesh
	// MeshHash identifies Input in cache keys and job records.
	MeshHash string
	// Output is Mesh encoded in Options.Format.
	Output []byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds sizes and timings of a run.
type Stats struct {
	mesh.Stats
	Before     mesh.EdgeLengths
	After      mesh.EdgeLengths
	LoadTime   time.Duration
	LayoutTime time.Duration
	WriteTime  time.Duration
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}
