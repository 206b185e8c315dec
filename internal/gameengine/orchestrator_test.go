package gameengine

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

type fakePlugin struct {
	id    string
	modes []models.Mode
}

func (g *fakePlugin) ID() string                  { return g.id }
func (g *fakePlugin) Name() string                { return g.id }
func (g *fakePlugin) ShortDescription() string     { return "" }
func (g *fakePlugin) SupportedModes() []models.Mode { return g.modes }
func (g *fakePlugin) UISchema() UISchema           { return UISchema{} }

func (g *fakePlugin) Init(ctx context.Context, gctx models.GameContext) (models.GameState, error) {
	return models.GameState{}, nil
}

func (g *fakePlugin) Update(ctx context.Context, gctx models.GameContext, state models.GameState, action models.PlayerAction) (models.GameState, error) {
	state.Step++
	state.Done = true
	return state, nil
}

func (g *fakePlugin) Summarize(ctx context.Context, gctx models.GameContext, state models.GameState) (models.GameResultSummary, error) {
	return models.GameResultSummary{Score: 88, SkillSignals: map[string]float64{"precision": 70}}, nil
}

func newTestOrchestrator(modes ...models.Mode) (*Orchestrator, *fakePlugin) {
	catalog := NewCatalog()
	g := &fakePlugin{id: "word-game", modes: modes}
	_ = catalog.Register(g)
	o := NewOrchestrator(catalog, clock.Fixed{At: time.Unix(0, 0)})
	return o, g
}

func TestOrchestrator_RejectsUnsupportedMode(t *testing.T) {
	o, _ := newTestOrchestrator(models.ModeOneShot)

	_, err := o.RunGame(context.Background(), models.SessionRequest{
		GameID: "word-game",
		Mode:   models.ModeJourney,
	})
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.KindModeUnsupported))
}

func TestOrchestrator_RejectsUnknownGame(t *testing.T) {
	o, _ := newTestOrchestrator(models.ModeOneShot)

	_, err := o.RunGame(context.Background(), models.SessionRequest{
		GameID: "does-not-exist",
		Mode:   models.ModeOneShot,
	})
	require.Error(t, err)
}

func TestOrchestrator_DispatchesOneShot(t *testing.T) {
	o, _ := newTestOrchestrator(models.ModeOneShot)

	res, err := o.RunGame(context.Background(), models.SessionRequest{
		GameID:  "word-game",
		Mode:    models.ModeOneShot,
		Context: models.GameContext{UserID: "u1", Seed: "s1"},
		Actions: []models.PlayerAction{{Kind: models.ActionTap}},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(88), res.Summary.Score)
	assert.Len(t, res.History, 2)
}

func TestOrchestrator_ForcesContextMode(t *testing.T) {
	o, _ := newTestOrchestrator(models.ModeOneShot)

	res, err := o.RunGame(context.Background(), models.SessionRequest{
		GameID:  "word-game",
		Mode:    models.ModeOneShot,
		Context: models.GameContext{UserID: "u1", Seed: "s1", Mode: models.ModeArena},
		Actions: []models.PlayerAction{{Kind: models.ActionTap}},
	})
	require.NoError(t, err)
	assert.NotNil(t, res)
}

func TestOrchestrator_DispatchesEndurance(t *testing.T) {
	catalog := NewCatalog()
	child := &fakePlugin{id: "child", modes: []models.Mode{models.ModeEndurance, models.ModeJourney}}
	endurance := &fakePlugin{id: "endurance-parent", modes: []models.Mode{models.ModeEndurance}}
	_ = catalog.Register(child)
	_ = catalog.Register(endurance)
	o := NewOrchestrator(catalog, clock.Fixed{At: time.Unix(0, 0)})

	res, err := o.RunGame(context.Background(), models.SessionRequest{
		GameID: "endurance-parent",
		Mode:   models.ModeEndurance,
		Context: models.GameContext{UserID: "u1", Seed: "s1"},
		ModeConfig: models.ModeConfig{
			EnduranceGames: []models.EnduranceGameDef{
				{GameID: "child", Actions: []models.PlayerAction{{Kind: models.ActionTap}}},
				{GameID: "child", Actions: []models.PlayerAction{{Kind: models.ActionTap}}},
				{GameID: "child", Actions: []models.PlayerAction{{Kind: models.ActionTap}}},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(264), res.Metadata["total_score"])
}
