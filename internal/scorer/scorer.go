// Package scorer implements the named semantic scoring operations of
// spec §4.3, built entirely on top of internal/embeddings (C1) and
// internal/vectorops (C2). Every operation is async-capable (may
// suspend on an embedding load) by virtue of taking a context.Context;
// there is no separate coroutine modeling needed in Go.
package scorer

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/herald-lol/brainprint/backend/internal/apierr"
	"github.com/herald-lol/brainprint/backend/internal/embeddings"
	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/herald-lol/brainprint/backend/internal/vectorops"
)

// Scorer holds an embedding service and is otherwise stateless; every
// method is safe to call concurrently.
type Scorer struct {
	embeddings *embeddings.Service
}

func New(svc *embeddings.Service) *Scorer {
	return &Scorer{embeddings: svc}
}

// ScoredWord is the {word, score} pair returned by FindMostSimilar and
// FindBestMidpoint.
type ScoredWord struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// HeatResult is ClusterHeat's {heat, distance} pair.
type HeatResult struct {
	Heat     float64 `json:"heat"`
	Distance float64 `json:"distance"`
}

// RankedHeat is one entry of RankByClusterHeat's descending output.
type RankedHeat struct {
	Word string  `json:"word"`
	Heat float64 `json:"heat"`
}

// MidpointResult is MidpointScore's {score, dA, dB} triple.
type MidpointResult struct {
	Score float64 `json:"score"`
	DA    float64 `json:"dA"`
	DB    float64 `json:"dB"`
}

// RarityResult is Rarity's {rarity, patternMatch} pair.
type RarityResult struct {
	Rarity       int  `json:"rarity"`
	PatternMatch bool `json:"patternMatch"`
}

func (s *Scorer) vec(ctx context.Context, word, language string) (models.Vector, bool) {
	e, err := s.embeddings.Get(ctx, word, language)
	if err != nil {
		return nil, false
	}
	return e.Vector, true
}

// Similarity returns the cosine similarity of two words. A missing
// embedding for either word scores 0.
func (s *Scorer) Similarity(ctx context.Context, a, b, language string) float64 {
	va, ok := s.vec(ctx, a, language)
	if !ok {
		return 0
	}
	vb, ok := s.vec(ctx, b, language)
	if !ok {
		return 0
	}
	cos, err := vectorops.Cosine(va, vb)
	if err != nil {
		return 0
	}
	return cos
}

// SimilarityToVector returns the cosine similarity of a word against
// an already-resolved vector. A missing embedding for the word scores
// 0.
func (s *Scorer) SimilarityToVector(ctx context.Context, word string, v models.Vector, language string) float64 {
	vw, ok := s.vec(ctx, word, language)
	if !ok {
		return 0
	}
	cos, err := vectorops.Cosine(vw, v)
	if err != nil {
		return 0
	}
	return cos
}

// AverageSimilarity returns the mean similarity of word against each
// entry of words; missing terms (on either side) contribute 0 to the
// sum, not a skip, so the denominator is always len(words).
func (s *Scorer) AverageSimilarity(ctx context.Context, word string, words []string, language string) float64 {
	if len(words) == 0 {
		return 0
	}
	var sum float64
	for _, w := range words {
		sum += s.Similarity(ctx, word, w, language)
	}
	return sum / float64(len(words))
}

// FindMostSimilar returns the candidate most similar to word. If word
// itself is absent, every candidate scores 0 and the first candidate
// is returned as "BestUnknown" (score 0); candidates that are
// individually absent are skipped entirely (excluded from
// consideration, not scored 0), matching spec §4.3.
func (s *Scorer) FindMostSimilar(ctx context.Context, word string, candidates []string, language string) ScoredWord {
	vw, ok := s.vec(ctx, word, language)
	if !ok {
		if len(candidates) == 0 {
			return ScoredWord{Word: "", Score: 0}
		}
		return ScoredWord{Word: candidates[0], Score: 0}
	}

	best := ScoredWord{Score: -1}
	found := false
	for _, c := range candidates {
		vc, ok := s.vec(ctx, c, language)
		if !ok {
			continue
		}
		cos, err := vectorops.Cosine(vw, vc)
		if err != nil {
			continue
		}
		if !found || cos > best.Score {
			best = ScoredWord{Word: c, Score: cos}
			found = true
		}
	}
	if !found {
		return ScoredWord{Word: "", Score: 0}
	}
	return best
}

// ClusterCenter returns the unit-vector centroid of the resolvable
// subset of words; absent words are skipped. An empty resolvable set
// fails EmptyCluster.
func (s *Scorer) ClusterCenter(ctx context.Context, words []string, language string) (models.Vector, error) {
	vecs := make([]models.Vector, 0, len(words))
	for _, w := range words {
		if v, ok := s.vec(ctx, w, language); ok {
			vecs = append(vecs, v)
		}
	}
	if len(vecs) == 0 {
		return nil, apierr.New(apierr.KindEmptyCluster, "no resolvable embeddings in cluster")
	}
	return vectorops.Centroid(vecs)
}

// ClusterHeat returns the closeness of word to center: heat is the
// cosine similarity, distance is 1-heat. A missing word scores heat 0
// (distance 1).
func (s *Scorer) ClusterHeat(ctx context.Context, word string, center models.Vector, language string) HeatResult {
	vw, ok := s.vec(ctx, word, language)
	if !ok {
		return HeatResult{Heat: 0, Distance: 1}
	}
	cos, err := vectorops.Cosine(vw, center)
	if err != nil {
		return HeatResult{Heat: 0, Distance: 1}
	}
	return HeatResult{Heat: cos, Distance: 1 - cos}
}

// RankByClusterHeat ranks words by descending heat to center, stable
// by input order on ties.
func (s *Scorer) RankByClusterHeat(ctx context.Context, words []string, center models.Vector, language string) []RankedHeat {
	ranked := make([]RankedHeat, len(words))
	for i, w := range words {
		ranked[i] = RankedHeat{Word: w, Heat: s.ClusterHeat(ctx, w, center, language).Heat}
	}
	stableSortDescByHeat(ranked)
	return ranked
}

func stableSortDescByHeat(ranked []RankedHeat) {
	// Insertion sort: stable, and the inputs here are always small
	// (one game round's candidate list), so O(n^2) is not a concern.
	for i := 1; i < len(ranked); i++ {
		j := i
		for j > 0 && ranked[j].Heat > ranked[j-1].Heat {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
			j--
		}
	}
}

// MidpointScore scores how well word bridges anchors A and B: dA/dB
// are 1-cos distances to each anchor, and score averages the two
// cosines. Any missing embedding scores 0 (dA, dB also 0).
func (s *Scorer) MidpointScore(ctx context.Context, word, a, b, language string) MidpointResult {
	vw, ok := s.vec(ctx, word, language)
	if !ok {
		return MidpointResult{}
	}
	va, ok := s.vec(ctx, a, language)
	if !ok {
		return MidpointResult{}
	}
	vb, ok := s.vec(ctx, b, language)
	if !ok {
		return MidpointResult{}
	}
	cosA, _ := vectorops.Cosine(vw, va)
	cosB, _ := vectorops.Cosine(vw, vb)
	return MidpointResult{
		Score: (cosA + cosB) / 2,
		DA:    1 - cosA,
		DB:    1 - cosB,
	}
}

// BalanceScore measures how evenly word sits between anchors A and B:
// 1 - |cos(w,A) - cos(w,B)|. Any missing embedding scores 0.
func (s *Scorer) BalanceScore(ctx context.Context, word, a, b, language string) float64 {
	vw, ok := s.vec(ctx, word, language)
	if !ok {
		return 0
	}
	va, ok := s.vec(ctx, a, language)
	if !ok {
		return 0
	}
	vb, ok := s.vec(ctx, b, language)
	if !ok {
		return 0
	}
	cosA, _ := vectorops.Cosine(vw, va)
	cosB, _ := vectorops.Cosine(vw, vb)
	diff := cosA - cosB
	if diff < 0 {
		diff = -diff
	}
	return 1 - diff
}

// FindBestMidpoint returns the candidate with the highest MidpointScore
// against anchors A and B, skipping candidates whose own embedding is
// missing. When an anchor is missing, every remaining candidate scores
// 0 and the first of them is returned.
func (s *Scorer) FindBestMidpoint(ctx context.Context, candidates []string, a, b, language string) ScoredWord {
	best := ScoredWord{}
	found := false
	for _, c := range candidates {
		if _, ok := s.vec(ctx, c, language); !ok {
			continue
		}
		mp := s.MidpointScore(ctx, c, a, b, language)
		if !found || mp.Score > best.Score {
			best = ScoredWord{Word: c, Score: mp.Score}
			found = true
		}
	}
	return best
}

// InterpolateVectors returns the normalized point alpha of the way from
// word A to word B. Any missing embedding returns EmbeddingNotFound.
func (s *Scorer) InterpolateVectors(ctx context.Context, a, b string, alpha float64, language string) (models.Vector, error) {
	va, ok := s.vec(ctx, a, language)
	if !ok {
		return nil, apierr.New(apierr.KindEmbeddingNotFound, "missing embedding for "+a)
	}
	vb, ok := s.vec(ctx, b, language)
	if !ok {
		return nil, apierr.New(apierr.KindEmbeddingNotFound, "missing embedding for "+b)
	}
	return vectorops.Interpolate(va, vb, alpha)
}

// CalculateGradientDirection returns the unit vector from word A to
// word B. Any missing embedding returns EmbeddingNotFound.
func (s *Scorer) CalculateGradientDirection(ctx context.Context, a, b, language string) (models.Vector, error) {
	va, ok := s.vec(ctx, a, language)
	if !ok {
		return nil, apierr.New(apierr.KindEmbeddingNotFound, "missing embedding for "+a)
	}
	vb, ok := s.vec(ctx, b, language)
	if !ok {
		return nil, apierr.New(apierr.KindEmbeddingNotFound, "missing embedding for "+b)
	}
	return vectorops.GradientDirection(va, vb)
}

// ProjectOntoGradient returns word's position along the A->B line in
// [0,1]. Any missing embedding returns 0.5.
func (s *Scorer) ProjectOntoGradient(ctx context.Context, word, a, b, language string) float64 {
	vw, ok := s.vec(ctx, word, language)
	if !ok {
		return 0.5
	}
	va, ok := s.vec(ctx, a, language)
	if !ok {
		return 0.5
	}
	vb, ok := s.vec(ctx, b, language)
	if !ok {
		return 0.5
	}
	pos, err := vectorops.ProjectOnto(vw, va, vb)
	if err != nil {
		return 0.5
	}
	return pos
}

// TriangleScore returns the mean of the three pairwise cosines among
// anchor, w1, and w2. Any missing embedding scores 0.
func (s *Scorer) TriangleScore(ctx context.Context, anchor, w1, w2, language string) float64 {
	va, ok := s.vec(ctx, anchor, language)
	if !ok {
		return 0
	}
	v1, ok := s.vec(ctx, w1, language)
	if !ok {
		return 0
	}
	v2, ok := s.vec(ctx, w2, language)
	if !ok {
		return 0
	}
	c1, _ := vectorops.Cosine(va, v1)
	c2, _ := vectorops.Cosine(va, v2)
	c3, _ := vectorops.Cosine(v1, v2)
	return (c1 + c2 + c3) / 3
}

// PivotScore returns cos(p,A) + cos(p,B), in [0,2]. Any missing
// embedding scores 0.
func (s *Scorer) PivotScore(ctx context.Context, pivot, a, b, language string) float64 {
	vp, ok := s.vec(ctx, pivot, language)
	if !ok {
		return 0
	}
	va, ok := s.vec(ctx, a, language)
	if !ok {
		return 0
	}
	vb, ok := s.vec(ctx, b, language)
	if !ok {
		return 0
	}
	cosA, _ := vectorops.Cosine(vp, va)
	cosB, _ := vectorops.Cosine(vp, vb)
	return cosA + cosB
}

// Rarity scores word per spec §4.3: base rarity from frequency
// metadata (falling back to a length table when frequency is absent),
// multiplied 1.2x and clamped to 100 when an optional V/C pattern is
// supplied and matches.
func (s *Scorer) Rarity(ctx context.Context, word, language string, pattern string) RarityResult {
	e, err := s.embeddings.Get(ctx, word, language)

	var base float64
	if err == nil {
		if freq, ok := e.Frequency(); ok {
			base = clamp0100(100 * (1 - math.Log10(freq+1)/6))
		} else {
			base = lengthFallback(word)
		}
	} else {
		base = lengthFallback(word)
	}

	if pattern == "" {
		return RarityResult{Rarity: roundHalfAwayFromZero(base), PatternMatch: false}
	}

	if !matchesPattern(word, pattern) {
		return RarityResult{Rarity: 0, PatternMatch: false}
	}
	boosted := clamp0100(base * 1.2)
	return RarityResult{Rarity: roundHalfAwayFromZero(boosted), PatternMatch: true}
}

func lengthFallback(word string) float64 {
	n := len([]rune(word))
	switch {
	case n <= 3:
		return 20
	case n <= 5:
		return 30
	case n <= 7:
		return 50
	case n <= 10:
		return 70
	default:
		return 90
	}
}

// matchesPattern checks word against a V/C pattern, case-folded and
// ASCII-only per spec §9's open question: V matches a/e/i/o/u, C
// matches any other ASCII letter; any other rune, or a length
// mismatch, fails the match.
func matchesPattern(word, pattern string) bool {
	w := []rune(strings.ToLower(word))
	p := []rune(strings.ToUpper(pattern))
	if len(w) != len(p) {
		return false
	}
	for i, pc := range p {
		wc := w[i]
		if !unicode.IsLetter(wc) || wc > unicode.MaxASCII {
			return false
		}
		isVowel := wc == 'a' || wc == 'e' || wc == 'i' || wc == 'o' || wc == 'u'
		switch pc {
		case 'V':
			if !isVowel {
				return false
			}
		case 'C':
			if isVowel {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func clamp0100(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}
