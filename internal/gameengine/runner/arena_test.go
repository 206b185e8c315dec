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

func TestArena_CutoffIsInclusiveOfDeadline(t *testing.T) {
	r := NewArena(clock.Fixed{At: time.Unix(0, 0)}, 5000)
	g := &scriptedGame{score: 20}

	timed := []models.TimedAction{
		{Action: models.PlayerAction{Kind: models.ActionTap}, TimestampMS: 100},
		{Action: models.PlayerAction{Kind: models.ActionTap}, TimestampMS: 1100},
		{Action: models.PlayerAction{Kind: models.ActionTap}, TimestampMS: 3100},
		{Action: models.PlayerAction{Kind: models.ActionTap}, TimestampMS: 5100},
		{Action: models.PlayerAction{Kind: models.ActionTap}, TimestampMS: 6100},
	}

	res, err := r.Run(context.Background(), g, testCtx(), timed)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Metadata["action_count"])
}

func TestArena_StopsOnPluginDone(t *testing.T) {
	r := NewArena(clock.Fixed{At: time.Unix(0, 0)}, 5000)
	g := &scriptedGame{doneAtStep: 2, score: 20}

	timed := []models.TimedAction{
		{Action: models.PlayerAction{Kind: models.ActionTap}, TimestampMS: 100},
		{Action: models.PlayerAction{Kind: models.ActionTap}, TimestampMS: 200},
		{Action: models.PlayerAction{Kind: models.ActionTap}, TimestampMS: 300},
	}

	res, err := r.Run(context.Background(), g, testCtx(), timed)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Metadata["action_count"])
}

func TestArena_DefaultsDurationWhenNonPositive(t *testing.T) {
	r := NewArena(clock.Fixed{At: time.Unix(0, 0)}, 0)
	assert.Equal(t, int64(defaultDurationMS), r.DurationMS)
}
