package mesh

import (
	"cmp"
	"slices"
)

// ExtractEdges returns the unique undirected edges bounding faces.
//
// For each face (a, b, c) the edges (a, b), (b, c) and (c, a) are inserted
// after normalising to (min, max), so an edge shared by two adjacent faces
// appears once. The result is sorted by (min, max); callers depend on this
// order for reproducible floating-point summation.
func ExtractEdges(faces []Face) []Edge {
	seen := make(map[Edge]struct{}, len(faces)*3/2)
	edges := make([]Edge, 0, len(faces)*3/2)
	for _, f := range faces {
		for _, e := range f.Edges() {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	slices.SortFunc(edges, compareEdges)
	return edges
}

func compareEdges(a, b Edge) int {
	if c := cmp.Compare(a[0], b[0]); c != 0 {
		return c
	}
	return cmp.Compare(a[1], b[1])
}
