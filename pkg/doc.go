// Package pkg provides the libraries behind meshforce, a 3D force-directed
// layout tool for closed triangle meshes.
//
// # Overview
//
// meshforce relaxes the vertex positions of a closed genus-0 triangulation
// with the Fruchterman-Reingold model: every vertex pair repels with k²/d,
// every mesh edge attracts with d²/k, and a linearly cooling temperature
// caps each per-axis move. The pkg directory is organized into:
//
//  1. [mesh] - Mesh model, edge extraction and topology checks
//  2. [layout] - The force-directed layout engine
//  3. [meshio] - OBJ, STL and JSON encodings
//  4. [pipeline] - Orchestration (load → layout → encode), with caching
//  5. [render/wireframe] - Graphviz wireframe projections
//  6. [cache], [store], [server] - Infrastructure for the CLI and HTTP API
//
// # Architecture
//
//	OBJ file / request body
//	         ↓
//	    [meshio] package (decode + Euler check)
//	         ↓
//	    [mesh] package (validated edges)
//	         ↓
//	    [layout] package (force iterations)
//	         ↓
//	    OBJ/STL/JSON output, SVG/PNG wireframe
//
// # Quick Start
//
//	f, _ := os.Open("sphere.obj")
//	m, _ := meshio.ReadOBJ(f)
//
//	out, err := layout.Layout(m.Vertices, m.Faces, layout.Params{
//	    DistOpt:    0.5,
//	    TempStart:  0.1,
//	    Iterations: 100,
//	})
//	if err != nil {
//	    return err
//	}
//	_ = meshio.WriteOBJ(os.Stdout, m.WithVertices(out))
//
// # Main Packages
//
// [mesh] - Vertices are gonum r3 vectors; faces are index triples. Edges are
// extracted as sorted, deduplicated pairs so layouts are reproducible.
// [mesh.Mesh.Validate] rejects meshes that are not closed genus-0 surfaces.
//
// [layout] - [layout.Engine] runs one iteration at a time and reports
// progress through an observer. [layout.Layout] is the one-shot form.
//
// [meshio] - Wavefront OBJ reading and writing, binary STL export and a JSON
// document carrying positions, faces, parameters and statistics.
//
// [pipeline] - [pipeline.Runner] ties the stages together for the CLI and
// server, consulting a [cache.Cache] for layouts and rendered artifacts.
//
// [cache] - File, Redis and null backends behind one interface, plus key
// derivation from mesh content and parameters.
//
// [store] - Job records for the HTTP API, in memory or in MongoDB.
//
// [server] - chi-based HTTP API for submitting and retrieving layouts.
//
// [observability] - Hook interfaces for pipeline, cache and HTTP events.
//
// [config] - TOML configuration file handling.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// Redis and MongoDB tests run when MESHFORCE_REDIS_ADDR and
// MESHFORCE_MONGO_URI are set.
package pkg
