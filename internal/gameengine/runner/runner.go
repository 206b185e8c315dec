// Package runner implements the four mode runners of spec §4.4:
// OneShot, Journey, Arena, and Endurance. Each shares the skeleton
// "t0 := clock.Now(); state := plugin.Init(ctx); ...; summary.DurationMS
// = clock.Now() - t0" and differs only in termination rule and which
// events it feeds to Update.
package runner

import (
	"context"

	"github.com/herald-lol/brainprint/backend/internal/apierr"
	"github.com/herald-lol/brainprint/backend/internal/clock"
	"github.com/herald-lol/brainprint/backend/internal/models"
)

// Result is what every runner returns: the final summary (the runner
// has already merged its mode-specific metadata into the summary's own
// Metadata), the state history snapshots taken along the way, and that
// metadata on its own, which the orchestrator copies into its result.
type Result struct {
	Summary  models.GameResultSummary
	History  []models.GameStateSnapshot
	Metadata map[string]interface{}
}

// Game is the subset of the plugin contract a runner actually drives:
// init/update/summarize. Declared narrow and independent of the
// gameengine package (rather than as an alias to its full Game
// interface) so that package can import this one without a cycle;
// any gameengine.Game satisfies this interface structurally.
type Game interface {
	Init(ctx context.Context, gctx models.GameContext) (models.GameState, error)
	Update(ctx context.Context, gctx models.GameContext, state models.GameState, action models.PlayerAction) (models.GameState, error)
	Summarize(ctx context.Context, gctx models.GameContext, state models.GameState) (models.GameResultSummary, error)
}

func mergeMetadata(into *models.GameResultSummary, extra map[string]interface{}) {
	if len(extra) == 0 {
		return
	}
	if into.Metadata == nil {
		into.Metadata = make(map[string]interface{}, len(extra))
	}
	for k, v := range extra {
		into.Metadata[k] = v
	}
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return apierr.Wrap(apierr.KindCancelled, "session cancelled", ctx.Err())
	default:
		return nil
	}
}

// durationSince returns the elapsed wall-clock time in milliseconds
// between t0 and clock.Now(). Wall-clock duration is advisory and
// excluded from the determinism contract (spec §4.4.5).
func durationSince(c clock.Clock, t0 int64) int64 {
	return c.Now().UnixMilli() - t0
}
