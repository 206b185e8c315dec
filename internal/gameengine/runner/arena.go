package runner

import (
	"context"

	"github.com/herald-lol/brainprint/backend/internal/clock"
	"github.com/herald-lol/brainprint/backend/internal/models"
)

const defaultDurationMS = 60000

// Arena feeds a stream of timestamped actions, applying every action
// whose timestamp (milliseconds since t0, the run's start) is at most
// DurationMS, stopping at the first out-of-window action or when the
// plugin sets Done.
// Percentile is intentionally left unset here if the plugin didn't set
// one: normalizing score into a percentile is a leaderboard-store
// concern, not something this runner can compute in isolation (spec
// §4.4.3, §9 open question).
type Arena struct {
	Clock      clock.Clock
	DurationMS int64
}

func NewArena(c clock.Clock, durationMS int64) *Arena {
	if c == nil {
		c = clock.SystemClock{}
	}
	if durationMS <= 0 {
		durationMS = defaultDurationMS
	}
	return &Arena{Clock: c, DurationMS: durationMS}
}

func (r *Arena) Run(ctx context.Context, g Game, gctx models.GameContext, timed []models.TimedAction) (Result, error) {
	t0 := r.Clock.Now().UnixMilli()

	if err := checkCancelled(ctx); err != nil {
		return Result{}, err
	}
	state, err := g.Init(ctx, gctx)
	if err != nil {
		return Result{}, err
	}
	history := []models.GameStateSnapshot{{State: state.Clone()}}

	actionCount := 0
	for _, ta := range timed {
		if ta.TimestampMS > r.DurationMS {
			break
		}
		if err := checkCancelled(ctx); err != nil {
			return Result{}, err
		}
		state, err = g.Update(ctx, gctx, state, ta.Action)
		if err != nil {
			return Result{}, err
		}
		actionCount++
		state.Step = actionCount
		history = append(history, models.GameStateSnapshot{State: state.Clone()})
		if state.Done {
			break
		}
	}

	if err := checkCancelled(ctx); err != nil {
		return Result{}, err
	}
	summary, err := g.Summarize(ctx, gctx, state)
	if err != nil {
		return Result{}, err
	}
	summary.ClampSignals()

	actualDuration := durationSince(r.Clock, t0)
	summary.DurationMS = actualDuration

	var actionsPerSecond float64
	if r.DurationMS > 0 {
		actionsPerSecond = float64(actionCount) / float64(r.DurationMS) * 1000
	}

	metadata := map[string]interface{}{
		"actual_duration":    actualDuration,
		"action_count":       actionCount,
		"actions_per_second": actionsPerSecond,
	}
	mergeMetadata(&summary, metadata)

	return Result{Summary: summary, History: history, Metadata: metadata}, nil
}
