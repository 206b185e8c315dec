package embeddings

import (
	"context"
	"math"
	"strings"

	"github.com/herald-lol/brainprint/backend/internal/models"
)

// MockProvider derives a deterministic pseudo-vector from a word's
// characters via a seeded sinusoid, per spec §4.2. It never reports a
// word missing (Has always true) — it is a synthetic space, not a
// dictionary — which makes it useful for local dev and tests that
// don't want to load a real embedding file.
type MockProvider struct {
	Dim int
}

// NewMockProvider returns a MockProvider producing vectors of the
// given dimension (defaults to 16 when dim <= 0).
func NewMockProvider(dim int) *MockProvider {
	if dim <= 0 {
		dim = 16
	}
	return &MockProvider{Dim: dim}
}

func (m *MockProvider) Get(ctx context.Context, word, language string) (models.WordEmbedding, error) {
	word = strings.ToLower(word)
	seed := seedFromString(word + "|" + strings.ToLower(language))
	v := make(models.Vector, m.Dim)
	for i := range v {
		// Each component is a sinusoid of the seed and its index, so
		// the same (word, language, dim) always yields the same
		// vector across processes and platforms.
		phase := float64(seed%1000) / 1000 * 2 * math.Pi
		v[i] = math.Sin(phase + float64(i)*0.37 + float64(seed%(i+7)))
	}
	norm := 0.0
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range v {
			v[i] /= norm
		}
	}
	return models.WordEmbedding{Word: word, Language: language, Vector: v}, nil
}

func (m *MockProvider) Has(ctx context.Context, word, language string) bool { return true }

// seedFromString is a small FNV-1a style hash; it only needs to be
// stable, not cryptographic.
func seedFromString(s string) uint64 {
	var h uint64 = 1469598103934665603
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}
