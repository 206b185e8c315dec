package gameengine

import (
	"context"

	"github.com/herald-lol/brainprint/backend/internal/apierr"
	"github.com/herald-lol/brainprint/backend/internal/clock"
	"github.com/herald-lol/brainprint/backend/internal/gameengine/runner"
	"github.com/herald-lol/brainprint/backend/internal/models"
)

// SessionAuditor records session lifecycle events; *audit.SessionLogger
// satisfies it. Optional — a nil Auditor on Orchestrator disables
// logging entirely rather than requiring a no-op stub.
type SessionAuditor interface {
	SessionStarted(ctx context.Context, userID, gameID string, mode models.Mode)
	SessionFinished(ctx context.Context, userID, gameID string, mode models.Mode, outcome string)
	SessionCanceled(ctx context.Context, userID, gameID string, mode models.Mode, reason string)
}

// Orchestrator is the single entry point named in spec §4.7: it
// validates mode compatibility, dispatches to the runner that
// implements the requested mode, and packages the result. It holds no
// per-session state of its own.
type Orchestrator struct {
	Catalog *Catalog
	Clock   clock.Clock
	Auditor SessionAuditor
}

func NewOrchestrator(catalog *Catalog, c clock.Clock) *Orchestrator {
	if c == nil {
		c = clock.SystemClock{}
	}
	return &Orchestrator{Catalog: catalog, Clock: c}
}

// RunGame dispatches req to the runner matching req.Mode, after
// confirming the target game declares support for it. context.Mode is
// forced to req.Mode regardless of what the caller supplied there, per
// the orchestrator's contract.
func (o *Orchestrator) RunGame(ctx context.Context, req models.SessionRequest) (models.ModeResult, error) {
	game, ok := o.Catalog.Get(req.GameID)
	if !ok {
		return models.ModeResult{}, apierr.New(apierr.KindMissingField, "unknown game id: "+req.GameID)
	}
	if !SupportsMode(game, req.Mode) {
		return models.ModeResult{}, apierr.New(apierr.KindModeUnsupported,
			"game "+req.GameID+" does not support mode "+string(req.Mode))
	}

	gctx := req.Context
	gctx.Mode = req.Mode

	if o.Auditor != nil {
		o.Auditor.SessionStarted(ctx, gctx.UserID, req.GameID, req.Mode)
	}

	var (
		res runner.Result
		err error
	)

	switch req.Mode {
	case models.ModeOneShot:
		res, err = runner.NewOneShot(o.Clock).Run(ctx, game, gctx, req.Actions)
	case models.ModeJourney:
		res, err = runner.NewJourney(o.Clock, req.ModeConfig.MaxSteps).Run(ctx, game, gctx, req.Actions)
	case models.ModeArena:
		res, err = runner.NewArena(o.Clock, req.ModeConfig.DurationMS).Run(ctx, game, gctx, req.Timed)
	case models.ModeEndurance:
		lookup := func(id string) (runner.Game, bool) { return o.Catalog.Get(id) }
		res, err = runner.NewEndurance(o.Clock, lookup).Run(ctx, gctx, req.ModeConfig.EnduranceGames)
	default:
		return models.ModeResult{}, apierr.New(apierr.KindModeUnsupported, "unrecognized mode: "+string(req.Mode))
	}
	if err != nil {
		if o.Auditor != nil {
			if apierr.Is(err, apierr.KindCancelled) {
				o.Auditor.SessionCanceled(ctx, gctx.UserID, req.GameID, req.Mode, err.Error())
			} else {
				o.Auditor.SessionFinished(ctx, gctx.UserID, req.GameID, req.Mode, "error")
			}
		}
		return models.ModeResult{}, err
	}

	if o.Auditor != nil {
		o.Auditor.SessionFinished(ctx, gctx.UserID, req.GameID, req.Mode, "ok")
	}
	return models.ModeResult{Summary: res.Summary, History: res.History, Metadata: res.Metadata}, nil
}
