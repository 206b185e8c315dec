package plugins

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/herald-lol/brainprint/backend/internal/embeddings"
	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/herald-lol/brainprint/backend/internal/scorer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScorer() *scorer.Scorer {
	svc := embeddings.NewService(embeddings.NewMockProvider(16), 100)
	return scorer.New(svc)
}

func TestSynonymRush_RegistersAsCatalogCompatible(t *testing.T) {
	g := NewSynonymRush(newTestScorer())
	assert.Equal(t, "synonym_rush", g.ID())
	assert.NotEmpty(t, g.Name())
	assert.Contains(t, g.SupportedModes(), models.ModeJourney)
	assert.Contains(t, g.SupportedModes(), models.ModeArena)
}

func TestSynonymRush_TappingUnknownWordIsANoop(t *testing.T) {
	g := NewSynonymRush(newTestScorer())
	ctx := context.Background()
	gctx := models.GameContext{Seed: "seed-1", Language: "en", Mode: models.ModeJourney}

	state, err := g.Init(ctx, gctx)
	require.NoError(t, err)

	next, err := g.Update(ctx, gctx, state, models.PlayerAction{Kind: models.ActionTap, WordID: "not-a-candidate"})
	require.NoError(t, err)
	assert.Equal(t, state.Data, next.Data)
}

func TestSynonymRush_Deterministic(t *testing.T) {
	ctx := context.Background()
	gctx := models.GameContext{Seed: "seed-42", Language: "en", Mode: models.ModeJourney}

	run := func() models.GameResultSummary {
		g := NewSynonymRush(newTestScorer())
		state, err := g.Init(ctx, gctx)
		require.NoError(t, err)

		var data synonymRushData
		require.NoError(t, json.Unmarshal(state.Data, &data))

		state, err = g.Update(ctx, gctx, state, models.PlayerAction{Kind: models.ActionTap, WordID: data.Candidates[0]})
		require.NoError(t, err)

		summary, err := g.Summarize(ctx, gctx, state)
		require.NoError(t, err)
		return summary
	}

	s1 := run()
	s2 := run()
	assert.Equal(t, s1.Score, s2.Score)
	assert.Equal(t, s1.SkillSignals, s2.SkillSignals)
}
