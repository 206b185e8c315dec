package brainprint

import (
	"testing"
	"time"

	"github.com/herald-lol/brainprint/backend/internal/clock"
	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBatch_MeansAndRoundsEachSkill(t *testing.T) {
	agg := New(clock.Fixed{At: time.Unix(1000, 0)})
	sessions := []models.GameResultSummary{
		{SkillSignals: map[string]float64{"precision": 80, "inference": 60}},
		{SkillSignals: map[string]float64{"precision": 70, "inference": 90}},
		{SkillSignals: map[string]float64{"precision": 61}},
	}

	bp := agg.Batch("u1", sessions)
	assert.Equal(t, float64(70), bp.Skills["precision"]) // (80+70+61)/3 = 70.33 -> 70
	assert.Equal(t, float64(75), bp.Skills["inference"])
	assert.Equal(t, 3, bp.TotalGames)
}

func TestBatch_ZeroGamesHasZeroConfidence(t *testing.T) {
	agg := New(clock.Fixed{At: time.Unix(0, 0)})
	bp := agg.Batch("u1", nil)
	assert.Equal(t, float64(0), bp.ConfidenceScore)
}

func TestBatch_ConfidenceClampsAt95(t *testing.T) {
	agg := New(clock.Fixed{At: time.Unix(0, 0)})
	sessions := make([]models.GameResultSummary, 100000)
	bp := agg.Batch("u1", sessions)
	assert.Equal(t, float64(95), bp.ConfidenceScore)
}

func TestIncremental_DefaultsAbsentSkillTo50(t *testing.T) {
	agg := New(clock.Fixed{At: time.Unix(0, 0)})
	existing := models.Brainprint{UserID: "u1", Skills: map[string]float64{}, TotalGames: 0}

	next := agg.Incremental(existing, models.GameResultSummary{SkillSignals: map[string]float64{"precision": 80}})
	// alpha = min(0.3, 1/sqrt(1)) = 0.3; new_val = 50*0.7 + 80*0.3 = 59
	assert.InDelta(t, 59, next.Skills["precision"], 0.0001)
	assert.Equal(t, 1, next.TotalGames)
}

func TestIncremental_SkipsReservedKeys(t *testing.T) {
	agg := New(clock.Fixed{At: time.Unix(0, 0)})
	existing := models.Brainprint{UserID: "u1", Skills: map[string]float64{}, TotalGames: 0}

	next := agg.Incremental(existing, models.GameResultSummary{SkillSignals: map[string]float64{
		"precision":        80,
		"confidence_score": 99,
		"total_games":      5,
	}})
	_, hasConfidence := next.Skills["confidence_score"]
	_, hasTotalGames := next.Skills["total_games"]
	assert.False(t, hasConfidence)
	assert.False(t, hasTotalGames)
}

func TestTopK_BreaksTiesByNameAscending(t *testing.T) {
	bp := models.Brainprint{Skills: map[string]float64{
		"zeta":  80,
		"alpha": 80,
		"beta":  60,
	}}
	top := TopK(bp, 2)
	assert.Equal(t, "alpha", top[0].Skill)
	assert.Equal(t, "zeta", top[1].Skill)
}

func TestCategoryDistribution_MeansPresentMembers(t *testing.T) {
	bp := models.Brainprint{Skills: map[string]float64{
		"precision": 80,
		"inference": 60,
	}}
	dist := CategoryDistribution(bp)
	assert.Equal(t, float64(70), dist[CategoryExecutive])
	assert.Equal(t, float64(0), dist[CategoryAffective])
}

func TestBuildInsights_RecommendsUpToThreeUniqueGames(t *testing.T) {
	bp := models.Brainprint{Skills: map[string]float64{
		"semantic_matching": 90,
		"vocabulary_depth":  85,
		"precision":         20,
		"inference":         15,
		"pattern_recognition": 10,
	}}
	insights := BuildInsights(bp)
	assert.Len(t, insights.Strengths, 3)
	assert.LessOrEqual(t, len(insights.RecommendedGames), 3)
}
