package search

import "math"

// Confidence bounds for display scores. A hit never reads as certain and
// never as worthless, regardless of raw distance.
const (
	MinConfidence = 0.50
	MaxConfidence = 0.99
)

// Relevance converts a cosine distance into a relevance score in [0, 1].
// Distances above 1 (opposed vectors) clamp to zero relevance.
func Relevance(distance float64) float64 {
	return clamp(1-distance, 0, 1)
}

// Confidence maps a relevance score to the display confidence: clamped to
// [MinConfidence, MaxConfidence] and rounded to two decimals. It carries no
// ranking meaning.
func Confidence(relevance float64) float64 {
	return math.Round(clamp(relevance, MinConfidence, MaxConfidence)*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
