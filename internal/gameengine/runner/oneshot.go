package runner

import (
	"context"

	"github.com/herald-lol/brainprint/backend/internal/apierr"
	"github.com/herald-lol/brainprint/backend/internal/clock"
	"github.com/herald-lol/brainprint/backend/internal/models"
)

// OneShot accepts exactly one action, forces Done=true after applying
// it (even if the plugin didn't set it), and emits a two-step history:
// [initial, final].
type OneShot struct {
	Clock clock.Clock
}

func NewOneShot(c clock.Clock) *OneShot {
	if c == nil {
		c = clock.SystemClock{}
	}
	return &OneShot{Clock: c}
}

func (r *OneShot) Run(ctx context.Context, g Game, gctx models.GameContext, actions []models.PlayerAction) (Result, error) {
	if len(actions) != 1 {
		return Result{}, apierr.New(apierr.KindOneShotRequiresOneAction, "one-shot mode requires exactly one action")
	}

	t0 := r.Clock.Now().UnixMilli()

	if err := checkCancelled(ctx); err != nil {
		return Result{}, err
	}
	initial, err := g.Init(ctx, gctx)
	if err != nil {
		return Result{}, err
	}
	history := []models.GameStateSnapshot{{State: initial.Clone()}}

	if err := checkCancelled(ctx); err != nil {
		return Result{}, err
	}
	final, err := g.Update(ctx, gctx, initial, actions[0])
	if err != nil {
		return Result{}, err
	}
	final.Done = true
	history = append(history, models.GameStateSnapshot{State: final.Clone()})

	if err := checkCancelled(ctx); err != nil {
		return Result{}, err
	}
	summary, err := g.Summarize(ctx, gctx, final)
	if err != nil {
		return Result{}, err
	}
	summary.ClampSignals()
	summary.DurationMS = durationSince(r.Clock, t0)

	return Result{Summary: summary, History: history}, nil
}
