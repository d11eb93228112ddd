package core

import "math"

// DefaultEmbeddingDim is the process-wide embedding dimension. Changing it
// invalidates all previously stored vectors; there is no migration path.
const DefaultEmbeddingDim = 8

// Conform returns a copy of vec with exactly dim elements. Shorter vectors
// are padded with trailing zeros, longer vectors are truncated from the tail.
// A wrong-length vector is never an error.
func Conform(vec []float32, dim int) []float32 {
	if dim <= 0 {
		return []float32{}
	}
	out := make([]float32, dim)
	copy(out, vec)
	return out
}

// CosineSimilarity returns the cosine of the angle between a and b.
// When either vector has zero magnitude the similarity is defined as 0;
// the function never divides by zero and never returns NaN.
// Vectors of different lengths are compared over their common prefix.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na2, nb2 float64
	for i := 0; i < n; i++ {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 0
	}
	return dot / (math.Sqrt(na2) * math.Sqrt(nb2))
}

// CosineDistance returns 1 - CosineSimilarity(a, b), in [0, 2].
func CosineDistance(a, b []float32) float64 {
	return 1 - CosineSimilarity(a, b)
}

// Normalize returns a unit-length copy of vec. A zero-magnitude vector is
// returned unchanged (as a copy).
func Normalize(vec []float32) []float32 {
	out := make([]float32, len(vec))
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		copy(out, vec)
		return out
	}
	norm := math.Sqrt(sum)
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
