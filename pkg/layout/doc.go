// Package layout implements 3D force-directed placement for closed triangle
// meshes, following Fruchterman and Reingold (1991) generalised from the
// plane to three dimensions.
//
// # Force Model
//
// Vertices connected by a mesh edge attract with [Attractive] force x²/k and
// every vertex pair repels with [Repulsive] force k²/x, where x is the current
// distance and k the optimal distance ([Params.DistOpt]).
//
// # Iterations
//
// [Engine.Run] performs [Params.Iterations] steps. Each step
//
//  1. accumulates repulsion over every unordered vertex pair (O(V²)),
//  2. accumulates attraction over every edge,
//  3. moves every vertex along its displacement, capping each axis at the
//     current temperature, and
//  4. cools the temperature linearly: t = t0 - i*t0/n.
//
// Pairs at exactly zero distance contribute nothing; coincident vertices are
// a valid geometric state, not an error. Forces on the two members of a pair
// are exact negations of each other.
//
// The cap in step 3 is applied per axis, not to the vector length: each axis
// moves by disp_a/|disp| * min(t, |disp_a|). This matches the reference
// algorithm this engine reproduces and is kept deliberately.
//
// # Determinism
//
// Edges are visited in sorted (min, max) order and pairs in index order, and
// all work happens on one goroutine, so identical inputs produce bit-identical
// outputs.
//
// # Usage
//
//	out, err := layout.Layout(vertices, faces, layout.Params{
//	    DistOpt:    0.5,
//	    TempStart:  0.1,
//	    Iterations: 50,
//	})
//
// Use [New] and [WithObserver] to watch progress iteration by iteration.
package layout
