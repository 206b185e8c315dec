package runner

import (
	"context"
	"testing"
	"time"

	"github.com/herald-lol/brainprint/backend/internal/apierr"
	"github.com/herald-lol/brainprint/backend/internal/clock"
	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFor(games map[string]*scriptedGame) ChildLookup {
	return func(gameID string) (Game, bool) {
		g, ok := games[gameID]
		return g, ok
	}
}

func TestEndurance_AggregatesScoreAndMergesSignals(t *testing.T) {
	games := map[string]*scriptedGame{
		"a": {score: 60, signals: map[string]float64{"precision": 80}},
		"b": {score: 70, signals: map[string]float64{"precision": 60, "inference": 90}},
		"c": {score: 80, signals: map[string]float64{"inference": 70}},
	}
	r := NewEndurance(clock.Fixed{At: time.Unix(0, 0)}, lookupFor(games))

	defs := []models.EnduranceGameDef{
		{GameID: "a", Actions: []models.PlayerAction{{Kind: models.ActionTap}}},
		{GameID: "b", Actions: []models.PlayerAction{{Kind: models.ActionTap}}},
		{GameID: "c", Actions: []models.PlayerAction{{Kind: models.ActionTap}}},
	}

	res, err := r.Run(context.Background(), testCtx(), defs)
	require.NoError(t, err)

	assert.Equal(t, float64(210), res.Metadata["total_score"])
	assert.Equal(t, float64(70), res.Metadata["average_score"])
	assert.Equal(t, float64(70), res.Summary.SkillSignals["precision"])
	assert.Equal(t, float64(80), res.Summary.SkillSignals["inference"])
}

func TestEndurance_RejectsOutOfRangeLength(t *testing.T) {
	games := map[string]*scriptedGame{
		"a": {score: 60},
		"b": {score: 70},
	}
	r := NewEndurance(clock.Fixed{At: time.Unix(0, 0)}, lookupFor(games))

	defs := []models.EnduranceGameDef{
		{GameID: "a"},
		{GameID: "b"},
	}

	_, err := r.Run(context.Background(), testCtx(), defs)
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.KindEnduranceBadLength))
}

func TestEndurance_UnknownChildGame(t *testing.T) {
	games := map[string]*scriptedGame{
		"a": {score: 60},
		"b": {score: 70},
		"c": {score: 80},
	}
	r := NewEndurance(clock.Fixed{At: time.Unix(0, 0)}, lookupFor(games))

	defs := []models.EnduranceGameDef{
		{GameID: "a"},
		{GameID: "missing"},
		{GameID: "c"},
	}

	_, err := r.Run(context.Background(), testCtx(), defs)
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.KindBadAction))
}
