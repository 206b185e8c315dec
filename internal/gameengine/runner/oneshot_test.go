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

// scriptedGame is a test double whose Update counts calls and whose
// Summarize reports whatever the test configured, letting each runner
// test assert on call counts and history shape without a real plugin.
// It implements only the narrow runner.Game contract.
type scriptedGame struct {
	doneAtStep int // 0 means never force done
	score      float64
	signals    map[string]float64
	summarized models.GameState // state last passed to Summarize
}

func (g *scriptedGame) Init(ctx context.Context, gctx models.GameContext) (models.GameState, error) {
	return models.GameState{Step: 0}, nil
}

func (g *scriptedGame) Update(ctx context.Context, gctx models.GameContext, state models.GameState, action models.PlayerAction) (models.GameState, error) {
	next := state.Step + 1
	done := g.doneAtStep != 0 && next >= g.doneAtStep
	return models.GameState{Step: next, Done: done}, nil
}

func (g *scriptedGame) Summarize(ctx context.Context, gctx models.GameContext, state models.GameState) (models.GameResultSummary, error) {
	g.summarized = state
	signals := make(map[string]float64, len(g.signals))
	for k, v := range g.signals {
		signals[k] = v
	}
	return models.GameResultSummary{Score: g.score, SkillSignals: signals}, nil
}

func testCtx() models.GameContext {
	return models.GameContext{UserID: "u1", Language: "en", Seed: "seed-1", Mode: models.ModeOneShot, NowMS: 0}
}

func TestOneShot_RequiresExactlyOneAction(t *testing.T) {
	r := NewOneShot(clock.Fixed{At: time.Unix(0, 0)})
	g := &scriptedGame{score: 10}

	_, err := r.Run(context.Background(), g, testCtx(), nil)
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.KindOneShotRequiresOneAction))

	_, err = r.Run(context.Background(), g, testCtx(), []models.PlayerAction{{Kind: models.ActionTap}, {Kind: models.ActionTap}})
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.KindOneShotRequiresOneAction))
}

func TestOneShot_ForcesDoneAndTwoStepHistory(t *testing.T) {
	r := NewOneShot(clock.Fixed{At: time.Unix(0, 0)})
	g := &scriptedGame{score: 42, signals: map[string]float64{"precision": 50}}

	res, err := r.Run(context.Background(), g, testCtx(), []models.PlayerAction{{Kind: models.ActionTap}})
	require.NoError(t, err)
	assert.Len(t, res.History, 2)
	assert.True(t, res.History[1].State.Done)
	assert.Equal(t, float64(42), res.Summary.Score)
}

func TestOneShot_Deterministic(t *testing.T) {
	g := &scriptedGame{score: 7, signals: map[string]float64{"inference": 33}}
	actions := []models.PlayerAction{{Kind: models.ActionSubmitWord, Text: "cat"}}

	r1 := NewOneShot(clock.Fixed{At: time.Unix(0, 0)})
	res1, err := r1.Run(context.Background(), g, testCtx(), actions)
	require.NoError(t, err)

	r2 := NewOneShot(clock.Fixed{At: time.Unix(100, 0)})
	res2, err := r2.Run(context.Background(), g, testCtx(), actions)
	require.NoError(t, err)

	assert.Equal(t, res1.Summary.Score, res2.Summary.Score)
	assert.Equal(t, res1.Summary.SkillSignals, res2.Summary.SkillSignals)
}
