package plugins

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterSort_SupportsEndurance(t *testing.T) {
	g := NewClusterSort(newTestScorer())
	assert.Contains(t, g.SupportedModes(), models.ModeEndurance)
	assert.Contains(t, g.SupportedModes(), models.ModeJourney)
}

func TestClusterSort_TapManyScoresHeat(t *testing.T) {
	g := NewClusterSort(newTestScorer())
	ctx := context.Background()
	gctx := models.GameContext{Seed: "cluster-1", Language: "en", Mode: models.ModeJourney}

	state, err := g.Init(ctx, gctx)
	require.NoError(t, err)

	var data clusterSortData
	require.NoError(t, json.Unmarshal(state.Data, &data))

	next, err := g.Update(ctx, gctx, state, models.PlayerAction{Kind: models.ActionTapMany, WordIDs: data.ThemeWords})
	require.NoError(t, err)

	summary, err := g.Summarize(ctx, gctx, next)
	require.NoError(t, err)
	assert.Contains(t, summary.SkillSignals, "pattern_recognition")
	assert.Contains(t, summary.SkillSignals, "categorization_precision")
	assert.Greater(t, summary.Score, 0.0)
}

func TestClusterSort_IgnoresSelectionsOutsideCandidates(t *testing.T) {
	g := NewClusterSort(newTestScorer())
	ctx := context.Background()
	gctx := models.GameContext{Seed: "cluster-2", Language: "en", Mode: models.ModeJourney}

	state, err := g.Init(ctx, gctx)
	require.NoError(t, err)

	next, err := g.Update(ctx, gctx, state, models.PlayerAction{Kind: models.ActionTapMany, WordIDs: []string{"not-a-candidate"}})
	require.NoError(t, err)
	assert.Equal(t, state.Data, next.Data)
}
