package mock

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
)

// EmbeddingDimension matches text-embedding-ada-002.
const EmbeddingDimension = 1536

// Embed returns a unit-normalized stub embedding seeded from the input text,
// so identical inputs always map to identical vectors.
func Embed(text string) []float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	v := make([]float64, EmbeddingDimension)
	var norm float64
	for i := range v {
		v[i] = rng.Float64()*2 - 1
		norm += v[i] * v[i]
	}

	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range v {
			v[i] /= norm
		}
	}
	return v
}

// EmbeddingTokens approximates token usage as whitespace-separated words.
func EmbeddingTokens(text string) int {
	return len(strings.Fields(text))
}
