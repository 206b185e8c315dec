package brainprint

import (
	"math"
	"sort"

	"github.com/herald-lol/brainprint/backend/internal/clock"
	"github.com/herald-lol/brainprint/backend/internal/models"
)

// Aggregator implements the Batch and Incremental algorithms of spec
// §4.8. It is stateless apart from its injected clock.
type Aggregator struct {
	Clock clock.Clock
}

func New(c clock.Clock) *Aggregator {
	if c == nil {
		c = clock.SystemClock{}
	}
	return &Aggregator{Clock: c}
}

// Batch computes a brainprint from scratch over a full session
// history: the arithmetic mean of each skill's collected values,
// rounded to the nearest integer.
func (a *Aggregator) Batch(userID string, sessions []models.GameResultSummary) models.Brainprint {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, s := range sessions {
		for skill, v := range s.SkillSignals {
			if isReserved(skill) {
				continue
			}
			sums[skill] += v
			counts[skill]++
		}
	}

	skills := make(map[string]float64, len(sums))
	for skill, sum := range sums {
		mean := sum / float64(counts[skill])
		skills[skill] = math.Round(mean)
	}

	return models.Brainprint{
		UserID:          userID,
		Skills:          skills,
		TotalGames:      len(sessions),
		ConfidenceScore: confidence(len(sessions)),
		LastUpdated:     a.Clock.Now(),
	}
}

// Incremental folds one new session into an existing brainprint using
// an exponential moving average with α = min(0.3, 1/√total_games), a
// skill absent from the existing profile defaults to 50 before the
// update is applied.
func (a *Aggregator) Incremental(existing models.Brainprint, session models.GameResultSummary) models.Brainprint {
	out := existing.Clone()
	out.TotalGames = existing.TotalGames + 1
	alpha := math.Min(0.3, 1/math.Sqrt(float64(out.TotalGames)))

	if out.Skills == nil {
		out.Skills = make(map[string]float64)
	}
	for skill, v := range session.SkillSignals {
		if isReserved(skill) {
			continue
		}
		current, ok := out.Skills[skill]
		if !ok {
			current = 50
		}
		out.Skills[skill] = current*(1-alpha) + v*alpha
	}

	out.ConfidenceScore = confidence(out.TotalGames)
	out.LastUpdated = a.Clock.Now()
	return out
}

// confidence implements clamp(round(30 + 20·log10(games)), 0, 95),
// with the degenerate games=0 case pinned to 0 (log10(0) is undefined).
func confidence(games int) float64 {
	if games <= 0 {
		return 0
	}
	c := math.Round(30 + 20*math.Log10(float64(games)))
	if c < 0 {
		c = 0
	}
	if c > 95 {
		c = 95
	}
	return c
}

// SkillScore is one entry of a TopK report.
type SkillScore struct {
	Skill string  `json:"skill"`
	Value float64 `json:"value"`
}

// TopK returns the k highest-valued skills, ties broken by ascending
// skill name, deterministic across runs.
func TopK(bp models.Brainprint, k int) []SkillScore {
	out := make([]SkillScore, 0, len(bp.Skills))
	for skill, v := range bp.Skills {
		out = append(out, SkillScore{Skill: skill, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Skill < out[j].Skill
	})
	if k < len(out) {
		out = out[:k]
	}
	return out
}

// CategoryDistribution returns, for each of the four fixed categories,
// the arithmetic mean of its present member skills (0 when none are
// present in bp).
func CategoryDistribution(bp models.Brainprint) map[string]float64 {
	dist := make(map[string]float64, len(categoryMembers))
	for cat, members := range categoryMembers {
		var sum float64
		var n int
		for _, skill := range members {
			if v, ok := bp.Skills[skill]; ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			dist[cat] = 0
			continue
		}
		dist[cat] = sum / float64(n)
	}
	return dist
}

// Insights is the derived report of spec §4.8: strengths, growth
// areas, and up to three recommended games drawn from a static
// skill-to-game lookup.
type Insights struct {
	Strengths        []string `json:"strengths"`
	GrowthAreas      []string `json:"growth_areas"`
	RecommendedGames []string `json:"recommended_games"`
}

func BuildInsights(bp models.Brainprint) Insights {
	ranked := TopK(bp, len(bp.Skills))

	strengths := take(ranked, 0, 3)
	growth := take(reverse(ranked), 0, 3)

	games := make([]string, 0, 3)
	seen := make(map[string]bool, 3)
	for _, s := range growth {
		game, ok := recommendedGameBySkill[s.Skill]
		if !ok || seen[game] {
			continue
		}
		games = append(games, game)
		seen[game] = true
		if len(games) == 3 {
			break
		}
	}

	return Insights{
		Strengths:        names(strengths),
		GrowthAreas:      names(growth),
		RecommendedGames: games,
	}
}

func take(scores []SkillScore, from, count int) []SkillScore {
	if from >= len(scores) {
		return nil
	}
	end := from + count
	if end > len(scores) {
		end = len(scores)
	}
	return scores[from:end]
}

func reverse(scores []SkillScore) []SkillScore {
	out := make([]SkillScore, len(scores))
	for i, s := range scores {
		out[len(scores)-1-i] = s
	}
	return out
}

func names(scores []SkillScore) []string {
	out := make([]string, len(scores))
	for i, s := range scores {
		out[i] = s.Skill
	}
	return out
}
