package mesh

// Tetrahedron returns a regular tetrahedron inscribed in the unit cube, with
// vertices on alternating cube corners. All six edges have length sqrt(2).
func Tetrahedron() *Mesh {
	return &Mesh{
		Vertices: []Vertex{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 1, Z: 0},
			{X: 1, Y: 0, Z: 1},
			{X: 0, Y: 1, Z: 1},
		},
		Faces: []Face{
			{0, 2, 1},
			{0, 1, 3},
			{0, 3, 2},
			{1, 2, 3},
		},
	}
}

// Octahedron returns a regular octahedron with vertices on the unit axes.
func Octahedron() *Mesh {
	return &Mesh{
		Vertices: []Vertex{
			{X: 1}, {X: -1},
			{Y: 1}, {Y: -1},
			{Z: 1}, {Z: -1},
		},
		Faces: []Face{
			{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
			{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
		},
	}
}

// Cube returns the unit cube with each square side split into two triangles.
func Cube() *Mesh {
	return &Mesh{
		Vertices: []Vertex{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
		},
		Faces: []Face{
			{0, 2, 1}, {0, 3, 2}, // bottom
			{4, 5, 6}, {4, 6, 7}, // top
			{0, 1, 5}, {0, 5, 4}, // front
			{1, 2, 6}, {1, 6, 5}, // right
			{2, 3, 7}, {2, 7, 6}, // back
			{3, 0, 4}, {3, 4, 7}, // left
		},
	}
}
