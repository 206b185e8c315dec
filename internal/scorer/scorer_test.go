package scorer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herald-lol/brainprint/backend/internal/embeddings"
	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/herald-lol/brainprint/backend/internal/scorer"
)

func newTestScorer() *scorer.Scorer {
	return scorer.New(embeddings.NewService(embeddings.NewMockProvider(16), 1000))
}

func TestSimilarity_SelfIsOne(t *testing.T) {
	s := newTestScorer()
	got := s.Similarity(context.Background(), "ocean", "ocean", "en")
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestSimilarity_MissingEmbeddingScoresZero(t *testing.T) {
	fp := embeddings.NewFileProvider("en", 2, 0, false)
	s := scorer.New(embeddings.NewService(fp, 10))
	got := s.Similarity(context.Background(), "ghost", "phantom", "en")
	assert.Equal(t, 0.0, got)
}

func TestFindMostSimilar_SkipsAbsentCandidates(t *testing.T) {
	fp := embeddings.NewFileProvider("en", 2, 0, false)
	_, err := fp.Load(strings.NewReader("anchor 1 0\ngood 1 0\n"))
	require.NoError(t, err)
	s := scorer.New(embeddings.NewService(fp, 10))

	best := s.FindMostSimilar(context.Background(), "anchor", []string{"missing", "good"}, "en")
	assert.Equal(t, "good", best.Word)
}

func TestFindMostSimilar_TargetAbsentIsBestUnknown(t *testing.T) {
	fp := embeddings.NewFileProvider("en", 2, 0, false)
	_, err := fp.Load(strings.NewReader("good 1 0\n"))
	require.NoError(t, err)
	s := scorer.New(embeddings.NewService(fp, 10))

	best := s.FindMostSimilar(context.Background(), "missing", []string{"good"}, "en")
	assert.Equal(t, 0.0, best.Score)
}

func TestClusterCenter_EmptyFailsEmptyCluster(t *testing.T) {
	fp := embeddings.NewFileProvider("en", 2, 0, false)
	s := scorer.New(embeddings.NewService(fp, 10))
	_, err := s.ClusterCenter(context.Background(), []string{"missing1", "missing2"}, "en")
	require.Error(t, err)
}

func TestProjectOntoGradient_Bounds(t *testing.T) {
	fp := embeddings.NewFileProvider("en", 2, 0, false)
	_, err := fp.Load(strings.NewReader("a 0 0\nb 10 0\nmid 5 0\n"))
	require.NoError(t, err)
	s := scorer.New(embeddings.NewService(fp, 10))
	ctx := context.Background()

	assert.InDelta(t, 0.0, s.ProjectOntoGradient(ctx, "a", "a", "b", "en"), 1e-9)
	assert.InDelta(t, 1.0, s.ProjectOntoGradient(ctx, "b", "a", "b", "en"), 1e-9)
	assert.Equal(t, 0.5, s.ProjectOntoGradient(ctx, "missing", "a", "b", "en"))
}

func TestPivotScore_Range(t *testing.T) {
	fp := embeddings.NewFileProvider("en", 2, 0, false)
	_, err := fp.Load(strings.NewReader("p 1 0\na 1 0\nb 1 0\n"))
	require.NoError(t, err)
	s := scorer.New(embeddings.NewService(fp, 10))
	got := s.PivotScore(context.Background(), "p", "a", "b", "en")
	assert.InDelta(t, 2.0, got, 1e-9)
}

func TestRarity_PatternScenario(t *testing.T) {
	// "cat" with frequency 2000: base = 100*(1-log10(2001)/6) ~= 44.98;
	// pattern CVC matches -> *1.2 ~= 53.98 -> rounds to 54.
	fp := embeddings.NewFileProvider("en", 2, 0, false)
	_, err := fp.Load(strings.NewReader("cat 1 0\n"))
	require.NoError(t, err)

	withFreq := &fixedFrequencyProvider{inner: fp, freq: 2000}
	s := scorer.New(embeddings.NewService(withFreq, 10))

	got := s.Rarity(context.Background(), "cat", "en", "CVC")
	assert.Equal(t, 54, got.Rarity)
	assert.True(t, got.PatternMatch)

	mismatch := s.Rarity(context.Background(), "cat", "en", "CVV")
	assert.Equal(t, 0, mismatch.Rarity)
	assert.False(t, mismatch.PatternMatch)
}

func TestRarity_LengthFallbackWhenNoFrequency(t *testing.T) {
	fp := embeddings.NewFileProvider("en", 2, 0, false)
	_, err := fp.Load(strings.NewReader("ab 1 0\n"))
	require.NoError(t, err)
	s := scorer.New(embeddings.NewService(fp, 10))
	got := s.Rarity(context.Background(), "ab", "en", "")
	assert.Equal(t, 20, got.Rarity)
}

// fixedFrequencyProvider wraps a Provider and injects a constant
// frequency metadata value, used only to exercise the frequency branch
// of Rarity without a full DB-backed provider in this test.
type fixedFrequencyProvider struct {
	inner *embeddings.FileProvider
	freq  float64
}

func (f *fixedFrequencyProvider) Get(ctx context.Context, word, language string) (models.WordEmbedding, error) {
	e, err := f.inner.Get(ctx, word, language)
	if err != nil {
		return e, err
	}
	e.Metadata = map[string]interface{}{models.MetaFrequency: f.freq}
	return e, nil
}

func (f *fixedFrequencyProvider) Has(ctx context.Context, word, language string) bool {
	return f.inner.Has(ctx, word, language)
}
