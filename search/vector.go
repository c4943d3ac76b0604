package search

import "math"

// CosineSimilarity returns the cosine similarity of a and b in [-1, 1].
// Mismatched lengths or a zero-magnitude vector make the similarity
// undefined; both degenerate cases return 0, which the default threshold
// excludes.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
