package core

import (
	"math"
	"unicode/utf16"
)

// DefaultVectorDims is the length of a hashed vector when no dimension is configured.
const DefaultVectorDims = 64

// HashedVector maps text to a term-frequency histogram over dims hashed buckets.
// The same text always produces the same vector.
func HashedVector(text string, dims int) []float64 {
	if dims <= 0 {
		dims = DefaultVectorDims
	}
	vec := make([]float64, dims)
	for _, token := range Tokenize(text) {
		vec[bucketOf(token, dims)]++
	}
	return vec
}

// stringHash is a 31-multiplier polynomial rolling hash over UTF-16 code units with 32-bit wraparound.
func stringHash(s string) int32 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}
	return h
}

// bucketOf reduces the absolute hash of a token modulo dims.
func bucketOf(token string, dims int) int {
	h := int64(stringHash(token))
	if h < 0 {
		h = -h
	}
	return int(h % int64(dims))
}

// Cosine returns the cosine similarity of two vectors.
// It returns 0 when the lengths differ or either vector has zero norm.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
