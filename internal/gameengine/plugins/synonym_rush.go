// Package plugins ships the reference micro-games that exercise the
// scorer and catalog end to end: synonym_rush, midpoint_bridge, and
// cluster_sort.
package plugins

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/herald-lol/brainprint/backend/internal/gameengine"
	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/herald-lol/brainprint/backend/internal/scorer"
)

// wordBank is the shared vocabulary the reference plugins draw rounds
// from. It is small and fixed so round selection stays deterministic
// and reviewable; a production catalog would load this from the same
// embedding source the scorer queries.
var wordBank = []string{
	"happy", "joyful", "sad", "angry", "calm",
	"quick", "fast", "slow", "bright", "dark",
	"river", "ocean", "mountain", "forest", "desert",
	"brave", "timid", "bold", "gentle", "fierce",
	"king", "queen", "knight", "castle", "dragon",
}

const synonymRushCandidatesPerRound = 4

type synonymRushData struct {
	Round      int      `json:"round"`
	Target     string   `json:"target"`
	Candidates []string `json:"candidates"`
	Correct    int      `json:"correct"`
	Total      int      `json:"total"`
	RaritySum  int      `json:"rarity_sum"`
}

// SynonymRush presents a target word each round; the player taps the
// candidate the scorer judges most similar to it.
type SynonymRush struct {
	Scorer *scorer.Scorer
}

func NewSynonymRush(s *scorer.Scorer) *SynonymRush {
	return &SynonymRush{Scorer: s}
}

func (g *SynonymRush) ID() string              { return "synonym_rush" }
func (g *SynonymRush) Name() string            { return "Synonym Rush" }
func (g *SynonymRush) ShortDescription() string { return "Tap the word closest in meaning to the target." }

func (g *SynonymRush) SupportedModes() []models.Mode {
	return []models.Mode{models.ModeJourney, models.ModeArena}
}

func (g *SynonymRush) UISchema() gameengine.UISchema {
	return gameengine.UISchema{
		Layout:    "grid",
		Input:     "tap",
		Feedback:  "instant",
		Animation: "pulse",
	}
}

func (g *SynonymRush) Init(ctx context.Context, gctx models.GameContext) (models.GameState, error) {
	data := g.buildRound(gctx.Seed, 0)
	raw, err := json.Marshal(data)
	if err != nil {
		return models.GameState{}, err
	}
	return models.GameState{Step: 0, Data: raw}, nil
}

func (g *SynonymRush) Update(ctx context.Context, gctx models.GameContext, state models.GameState, action models.PlayerAction) (models.GameState, error) {
	if action.Kind != models.ActionTap {
		return state, nil
	}
	var data synonymRushData
	if err := json.Unmarshal(state.Data, &data); err != nil {
		return state, nil
	}
	if !containsWord(data.Candidates, action.WordID) {
		return state, nil
	}

	best := g.Scorer.FindMostSimilar(ctx, data.Target, data.Candidates, gctx.Language)
	data.Total++
	if action.WordID == best.Word {
		data.Correct++
	}
	rarity := g.Scorer.Rarity(ctx, data.Target, gctx.Language, "")
	data.RaritySum += rarity.Rarity

	next := g.buildRound(gctx.Seed, data.Round+1)
	data.Round = next.Round
	data.Target = next.Target
	data.Candidates = next.Candidates

	raw, err := json.Marshal(data)
	if err != nil {
		return state, nil
	}
	return models.GameState{Data: raw}, nil
}

func (g *SynonymRush) Summarize(ctx context.Context, gctx models.GameContext, state models.GameState) (models.GameResultSummary, error) {
	var data synonymRushData
	_ = json.Unmarshal(state.Data, &data)

	score := 0.0
	avgRarity := 0.0
	if data.Total > 0 {
		score = 100 * float64(data.Correct) / float64(data.Total)
		avgRarity = float64(data.RaritySum) / float64(data.Total)
	}

	return models.GameResultSummary{
		Score: score,
		SkillSignals: map[string]float64{
			"semantic_matching": score,
			"vocabulary_depth":  avgRarity,
		},
	}, nil
}

// buildRound derives the round's target and candidate set from the
// session seed and the round index, so repeated sessions with the same
// seed always present the same sequence.
func (g *SynonymRush) buildRound(seed string, round int) synonymRushData {
	n := len(wordBank)
	targetIdx := int(seedHash(seed, "target", round) % uint64(n))
	target := wordBank[targetIdx]

	candidates := []string{target}
	seen := map[string]bool{target: true}
	offset := 1
	for len(candidates) < synonymRushCandidatesPerRound {
		idx := int(seedHash(seed, "cand", round*100+offset) % uint64(n))
		w := wordBank[idx]
		if !seen[w] {
			candidates = append(candidates, w)
			seen[w] = true
		}
		offset++
	}
	// Deterministically interleave so the target isn't always first.
	shiftBy := int(seedHash(seed, "shift", round) % uint64(len(candidates)))
	candidates = append(candidates[shiftBy:], candidates[:shiftBy]...)

	return synonymRushData{Round: round, Target: target, Candidates: candidates}
}

func containsWord(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

// seedHash is a small FNV-1a style hash over the session seed and a
// component label, stable across processes and platforms.
func seedHash(seed, label string, n int) uint64 {
	s := seed + "|" + label + "|" + strconv.Itoa(n)
	var h uint64 = 1469598103934665603
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}
