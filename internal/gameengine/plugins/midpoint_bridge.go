package plugins

import (
	"context"
	"encoding/json"

	"github.com/herald-lol/brainprint/backend/internal/gameengine"
	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/herald-lol/brainprint/backend/internal/scorer"
)

type midpointBridgeData struct {
	Round       int     `json:"round"`
	AnchorA     string  `json:"anchor_a"`
	AnchorB     string  `json:"anchor_b"`
	Submissions int     `json:"submissions"`
	ScoreSum    float64 `json:"score_sum"`
	BalanceSum  float64 `json:"balance_sum"`
}

// MidpointBridge gives the player two anchor words and asks them to
// submit a word that bridges the two concepts; scored by how close the
// submission sits to the semantic midpoint of the anchors.
type MidpointBridge struct {
	Scorer *scorer.Scorer
}

func NewMidpointBridge(s *scorer.Scorer) *MidpointBridge {
	return &MidpointBridge{Scorer: s}
}

func (g *MidpointBridge) ID() string              { return "midpoint_bridge" }
func (g *MidpointBridge) Name() string            { return "Midpoint Bridge" }
func (g *MidpointBridge) ShortDescription() string { return "Submit a word that bridges the two anchors." }

func (g *MidpointBridge) SupportedModes() []models.Mode {
	return []models.Mode{models.ModeOneShot, models.ModeJourney}
}

func (g *MidpointBridge) UISchema() gameengine.UISchema {
	return gameengine.UISchema{
		Layout:   "dual_anchor",
		Input:    "text",
		Feedback: "end_of_round",
	}
}

func (g *MidpointBridge) Init(ctx context.Context, gctx models.GameContext) (models.GameState, error) {
	data := g.buildRound(gctx.Seed, 0)
	raw, err := json.Marshal(data)
	if err != nil {
		return models.GameState{}, err
	}
	return models.GameState{Step: 0, Data: raw}, nil
}

func (g *MidpointBridge) Update(ctx context.Context, gctx models.GameContext, state models.GameState, action models.PlayerAction) (models.GameState, error) {
	if action.Kind != models.ActionSubmitWord || action.Text == "" {
		return state, nil
	}
	var data midpointBridgeData
	if err := json.Unmarshal(state.Data, &data); err != nil {
		return state, nil
	}

	mp := g.Scorer.MidpointScore(ctx, action.Text, data.AnchorA, data.AnchorB, gctx.Language)
	bal := g.Scorer.BalanceScore(ctx, action.Text, data.AnchorA, data.AnchorB, gctx.Language)
	data.Submissions++
	data.ScoreSum += mp.Score
	data.BalanceSum += bal

	next := g.buildRound(gctx.Seed, data.Round+1)
	data.Round = next.Round
	data.AnchorA = next.AnchorA
	data.AnchorB = next.AnchorB

	raw, err := json.Marshal(data)
	if err != nil {
		return state, nil
	}
	return models.GameState{Data: raw}, nil
}

func (g *MidpointBridge) Summarize(ctx context.Context, gctx models.GameContext, state models.GameState) (models.GameResultSummary, error) {
	var data midpointBridgeData
	_ = json.Unmarshal(state.Data, &data)

	score := 0.0
	balance := 0.0
	if data.Submissions > 0 {
		score = 100 * data.ScoreSum / float64(data.Submissions)
		balance = 100 * data.BalanceSum / float64(data.Submissions)
	}

	return models.GameResultSummary{
		Score: score,
		SkillSignals: map[string]float64{
			"conceptual_bridging": score,
			"semantic_balance":    balance,
		},
	}, nil
}

func (g *MidpointBridge) buildRound(seed string, round int) midpointBridgeData {
	n := len(wordBank)
	idxA := int(seedHash(seed, "anchorA", round) % uint64(n))
	idxB := int(seedHash(seed, "anchorB", round) % uint64(n))
	if idxB == idxA {
		idxB = (idxB + 1) % n
	}
	return midpointBridgeData{Round: round, AnchorA: wordBank[idxA], AnchorB: wordBank[idxB]}
}
