package enhancer

import "math"

// Default tuning constants for semantic matching. They are carried in
// Config so deployments can tune them; these are the defaults.
const (
	// DefaultSimilarityThreshold is the minimum cosine similarity for a
	// chunk to count as a semantic match.
	DefaultSimilarityThreshold = 0.3

	// DefaultBoostMin and DefaultBoostMax bound the multiplicative boost
	// applied to fused scores: similarity at the threshold maps to
	// BoostMin, similarity 1.0 maps to BoostMax.
	DefaultBoostMin = 1.2
	DefaultBoostMax = 3.0
)

// Cosine computes the cosine similarity between two vectors: dot product
// over the product of Euclidean norms. Mismatched lengths and zero-norm
// vectors yield 0, never an error or a division by zero.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Boost linearly rescales a similarity in [threshold, 1.0] onto
// [boostMin, boostMax]. Similarities below the threshold return 1.0, the
// neutral multiplier. Similarities above 1.0 (floating-point drift) are
// clamped.
func Boost(similarity, threshold, boostMin, boostMax float64) float64 {
	if similarity < threshold {
		return 1.0
	}
	if similarity > 1.0 {
		similarity = 1.0
	}
	if threshold >= 1.0 {
		return boostMax
	}
	return boostMin + (similarity-threshold)/(1.0-threshold)*(boostMax-boostMin)
}
