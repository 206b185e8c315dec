// Package embeddings implements the keyed (word, language) -> unit
// vector lookup (spec §4.2): three pluggable providers behind a
// shared, bounded, single-flight LRU cache.
package embeddings

import (
	"context"

	"github.com/herald-lol/brainprint/backend/internal/apierr"
	"github.com/herald-lol/brainprint/backend/internal/models"
)

// Provider is the polymorphic contract every embedding source
// satisfies. Get returns an *apierr.Error with Kind
// apierr.KindEmbeddingNotFound when the word is absent — that is the
// terminal result, never a panic or a sentinel zero value the caller
// has to guess at.
type Provider interface {
	Get(ctx context.Context, word, language string) (models.WordEmbedding, error)
	Has(ctx context.Context, word, language string) bool
}

// BulkStorer is implemented by providers that can persist many
// embeddings at once (the DB-backed provider).
type BulkStorer interface {
	StoreMany(ctx context.Context, embeddings []models.WordEmbedding) (int, error)
}

// SimilaritySearcher is implemented by providers that can run a
// vector-similarity RPC server-side rather than scanning client-side.
type SimilaritySearcher interface {
	FindSimilar(ctx context.Context, v models.Vector, language string, k int) ([]ScoredWord, error)
}

// ScoredWord is one hit from a similarity search.
type ScoredWord struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

func notFound(word, language string) error {
	return apierr.New(apierr.KindEmbeddingNotFound, "no embedding for \""+word+"\" ("+language+")")
}
