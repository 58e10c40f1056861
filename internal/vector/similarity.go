package vector

import "github.com/viant/vec/search"

// Similarity returns the cosine similarity of two unit-normalized vectors.
// Passing magnitude 1 for both sides reduces the SIMD cosine distance to
// 1 - dot, so similarity comes back as the plain inner product.
func Similarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	return 1 - search.Float32s(a).CosineDistanceWithMagnitude(b, 1, 1)
}
