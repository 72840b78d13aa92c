// Package wireframe draws a mesh as a 2D wireframe image using Graphviz.
//
// Vertices are projected onto a plane chosen by [Options.View] and pinned at
// their projected positions; faces contribute their edges as undirected
// lines. The neato engine honours pinned positions, so the picture is an
// orthographic view of the mesh rather than a graph layout.
//
//	dot := wireframe.ToDOT(m, wireframe.Options{View: wireframe.ViewIso})
//	svg, err := wireframe.RenderSVG(ctx, dot)
//
// Rendering runs Graphviz in-process through [github.com/goccy/go-graphviz].
package wireframe
