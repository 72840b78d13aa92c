package layout

// Attractive returns the spring force x²/k pulling two adjacent vertices
// together. k must be positive.
func Attractive(x, k float64) float64 {
	return x * x / k
}

// Repulsive returns the force k²/x pushing two vertices apart. It is only
// defined for x > 0; the engine never calls it for coincident vertices.
func Repulsive(x, k float64) float64 {
	return k * k / x
}
