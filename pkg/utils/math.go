package utils

import "github.com/viant/vec/search"

// NormalizeL2 normalizes the slice in place to unit L2 norm.
// If the norm is zero, the slice is unchanged.
func NormalizeL2(x []float32) {
	m := search.Float32s(x).Magnitude()
	if m == 0 {
		return
	}
	inv := 1 / m
	for i := range x {
		x[i] *= inv
	}
}

// Magnitude returns the L2 norm of x.
func Magnitude(x []float32) float32 {
	return search.Float32s(x).Magnitude()
}
