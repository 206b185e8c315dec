package runner

import (
	"context"
	"fmt"

	"github.com/herald-lol/brainprint/backend/internal/apierr"
	"github.com/herald-lol/brainprint/backend/internal/clock"
	"github.com/herald-lol/brainprint/backend/internal/models"
)

const (
	enduranceMinGames = 3
	enduranceMaxGames = 5
)

// ChildLookup resolves a child game_id to its plugin, letting
// Endurance span multiple distinct games in one aggregate session.
type ChildLookup func(gameID string) (Game, bool)

// Endurance runs an ordered sequence of 3-5 (game, actions) pairs as
// independent Journey sub-sessions (max_steps=5 each), then aggregates
// their scores and skill signals per spec §4.4.4.
type Endurance struct {
	Clock   clock.Clock
	Lookup  ChildLookup
}

func NewEndurance(c clock.Clock, lookup ChildLookup) *Endurance {
	if c == nil {
		c = clock.SystemClock{}
	}
	return &Endurance{Clock: c, Lookup: lookup}
}

func (r *Endurance) Run(ctx context.Context, parent models.GameContext, defs []models.EnduranceGameDef) (Result, error) {
	n := len(defs)
	if n < enduranceMinGames || n > enduranceMaxGames {
		return Result{}, apierr.New(apierr.KindEnduranceBadLength,
			fmt.Sprintf("endurance requires 3-5 games, got %d", n))
	}

	t0 := r.Clock.Now().UnixMilli()

	journey := NewJourney(r.Clock, 5)

	type childOutcome struct {
		gameID string
		score  float64
		signals map[string]float64
	}
	outcomes := make([]childOutcome, 0, n)

	mergedSignals := make(map[string]float64)
	var totalScore float64

	for i, def := range defs {
		if err := checkCancelled(ctx); err != nil {
			return Result{}, err
		}
		child, ok := r.Lookup(def.GameID)
		if !ok {
			return Result{}, apierr.New(apierr.KindBadAction, "unknown endurance child game: "+def.GameID)
		}
		childCtx := models.GameContext{
			UserID:   parent.UserID,
			Language: parent.Language,
			Seed:     fmt.Sprintf("%s-%d", parent.Seed, i),
			Mode:     models.ModeEndurance,
			NowMS:    parent.NowMS,
		}
		res, err := journey.Run(ctx, child, childCtx, def.Actions)
		if err != nil {
			return Result{}, err
		}

		totalScore += res.Summary.Score
		for k, v := range res.Summary.SkillSignals {
			if existing, ok := mergedSignals[k]; ok {
				mergedSignals[k] = (existing + v) / 2
			} else {
				mergedSignals[k] = v
			}
		}
		outcomes = append(outcomes, childOutcome{gameID: def.GameID, score: res.Summary.Score, signals: res.Summary.SkillSignals})
	}

	for k, v := range mergedSignals {
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		mergedSignals[k] = v
	}

	perGame := make([]map[string]interface{}, 0, n)
	for _, o := range outcomes {
		perGame = append(perGame, map[string]interface{}{
			"game_id": o.gameID,
			"score":   o.score,
		})
	}

	summary := models.GameResultSummary{
		Score:        totalScore,
		SkillSignals: mergedSignals,
		DurationMS:   durationSince(r.Clock, t0),
	}
	metadata := map[string]interface{}{
		"total_score":   totalScore,
		"average_score": totalScore / float64(n),
		"games":         perGame,
	}
	mergeMetadata(&summary, metadata)

	return Result{Summary: summary, Metadata: metadata}, nil
}
