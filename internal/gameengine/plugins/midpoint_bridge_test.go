package plugins

import (
	"context"
	"testing"

	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMidpointBridge_SubmissionAccumulatesScore(t *testing.T) {
	g := NewMidpointBridge(newTestScorer())
	ctx := context.Background()
	gctx := models.GameContext{Seed: "bridge-1", Language: "en", Mode: models.ModeOneShot}

	state, err := g.Init(ctx, gctx)
	require.NoError(t, err)

	next, err := g.Update(ctx, gctx, state, models.PlayerAction{Kind: models.ActionSubmitWord, Text: "river"})
	require.NoError(t, err)

	summary, err := g.Summarize(ctx, gctx, next)
	require.NoError(t, err)
	assert.Contains(t, summary.SkillSignals, "conceptual_bridging")
	assert.Contains(t, summary.SkillSignals, "semantic_balance")
}

func TestMidpointBridge_BlankSubmissionIsANoop(t *testing.T) {
	g := NewMidpointBridge(newTestScorer())
	ctx := context.Background()
	gctx := models.GameContext{Seed: "bridge-2", Language: "en", Mode: models.ModeOneShot}

	state, err := g.Init(ctx, gctx)
	require.NoError(t, err)

	next, err := g.Update(ctx, gctx, state, models.PlayerAction{Kind: models.ActionSubmitWord, Text: ""})
	require.NoError(t, err)
	assert.Equal(t, state.Data, next.Data)
}

func TestMidpointBridge_DistinctAnchors(t *testing.T) {
	g := NewMidpointBridge(newTestScorer())
	data := g.buildRound("any-seed", 0)
	assert.NotEqual(t, data.AnchorA, data.AnchorB)
}
