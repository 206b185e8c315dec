package runner

import (
	"context"
	"testing"
	"time"

	"github.com/herald-lol/brainprint/backend/internal/clock"
	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJourney_EarlyCompletion(t *testing.T) {
	r := NewJourney(clock.Fixed{At: time.Unix(0, 0)}, 5)
	g := &scriptedGame{doneAtStep: 3, score: 55}

	actions := make([]models.PlayerAction, 5)
	for i := range actions {
		actions[i] = models.PlayerAction{Kind: models.ActionTap}
	}

	res, err := r.Run(context.Background(), g, testCtx(), actions)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Metadata["actual_steps"])
	assert.Equal(t, 3, res.Summary.Metadata["attempts"])
	assert.Len(t, res.History, 4)
	assert.True(t, res.History[3].State.Done)
}

func TestJourney_ForcesDoneWhenStepsExhausted(t *testing.T) {
	r := NewJourney(clock.Fixed{At: time.Unix(0, 0)}, 2)
	g := &scriptedGame{score: 10}

	actions := []models.PlayerAction{{Kind: models.ActionTap}, {Kind: models.ActionTap}}
	res, err := r.Run(context.Background(), g, testCtx(), actions)
	require.NoError(t, err)

	assert.True(t, res.Summary.Metadata != nil)
	assert.Equal(t, 2, res.Metadata["actual_steps"])
	assert.Len(t, res.History, 3)
	assert.True(t, g.summarized.Done)
}

func TestJourney_CapsAtMaxSteps(t *testing.T) {
	r := NewJourney(clock.Fixed{At: time.Unix(0, 0)}, 2)
	g := &scriptedGame{score: 10}

	actions := make([]models.PlayerAction, 5)
	for i := range actions {
		actions[i] = models.PlayerAction{Kind: models.ActionTap}
	}
	res, err := r.Run(context.Background(), g, testCtx(), actions)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Metadata["actual_steps"])
	assert.Len(t, res.History, 3)
}
