package runner

import (
	"context"

	"github.com/herald-lol/brainprint/backend/internal/clock"
	"github.com/herald-lol/brainprint/backend/internal/models"
)

const defaultMaxSteps = 5

// Journey drives a plugin through up to MaxSteps actions, stopping
// early when the plugin sets Done. If every step is consumed without
// Done, the runner forces Done=true before summarizing. History is a
// snapshot after Init plus one after each applied action.
type Journey struct {
	Clock    clock.Clock
	MaxSteps int
}

func NewJourney(c clock.Clock, maxSteps int) *Journey {
	if c == nil {
		c = clock.SystemClock{}
	}
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}
	return &Journey{Clock: c, MaxSteps: maxSteps}
}

func (r *Journey) Run(ctx context.Context, g Game, gctx models.GameContext, actions []models.PlayerAction) (Result, error) {
	t0 := r.Clock.Now().UnixMilli()

	if err := checkCancelled(ctx); err != nil {
		return Result{}, err
	}
	state, err := g.Init(ctx, gctx)
	if err != nil {
		return Result{}, err
	}
	history := []models.GameStateSnapshot{{State: state.Clone()}}

	limit := len(actions)
	if limit > r.MaxSteps {
		limit = r.MaxSteps
	}

	actualSteps := 0
	for i := 0; i < limit; i++ {
		if err := checkCancelled(ctx); err != nil {
			return Result{}, err
		}
		state, err = g.Update(ctx, gctx, state, actions[i])
		if err != nil {
			return Result{}, err
		}
		state.Step = i + 1
		actualSteps = i + 1
		history = append(history, models.GameStateSnapshot{State: state.Clone()})
		if state.Done {
			break
		}
	}

	if !state.Done {
		state.Done = true
	}

	if err := checkCancelled(ctx); err != nil {
		return Result{}, err
	}
	summary, err := g.Summarize(ctx, gctx, state)
	if err != nil {
		return Result{}, err
	}
	summary.ClampSignals()
	summary.DurationMS = durationSince(r.Clock, t0)

	metadata := map[string]interface{}{
		"actual_steps": actualSteps,
		"attempts":     actualSteps,
	}
	mergeMetadata(&summary, metadata)

	return Result{Summary: summary, History: history, Metadata: metadata}, nil
}
