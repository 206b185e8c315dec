package plugins

import (
	"context"
	"encoding/json"

	"github.com/herald-lol/brainprint/backend/internal/gameengine"
	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/herald-lol/brainprint/backend/internal/scorer"
)

const (
	clusterThemeSize      = 3
	clusterCandidateSize  = 6
	clusterTopMatchWindow = 3
)

type clusterSortData struct {
	Round          int      `json:"round"`
	ThemeWords     []string `json:"theme_words"`
	CandidateWords []string `json:"candidate_words"`
	SelectedCount  int      `json:"selected_count"`
	HeatSum        float64  `json:"heat_sum"`
	TopMatches     int      `json:"top_matches"`
}

// ClusterSort presents a themed set of candidate words each round; the
// player taps the ones they believe belong to the theme's cluster.
// Endurance-eligible: its rounds are short enough to run as an
// endurance child under Journey with max_steps=5.
type ClusterSort struct {
	Scorer *scorer.Scorer
}

func NewClusterSort(s *scorer.Scorer) *ClusterSort {
	return &ClusterSort{Scorer: s}
}

func (g *ClusterSort) ID() string              { return "cluster_sort" }
func (g *ClusterSort) Name() string            { return "Cluster Sort" }
func (g *ClusterSort) ShortDescription() string { return "Tap the words that belong to the theme." }

func (g *ClusterSort) SupportedModes() []models.Mode {
	return []models.Mode{models.ModeJourney, models.ModeEndurance}
}

func (g *ClusterSort) UISchema() gameengine.UISchema {
	return gameengine.UISchema{
		Layout:   "grid",
		Input:    "tap_many",
		Feedback: "end_of_round",
	}
}

func (g *ClusterSort) Init(ctx context.Context, gctx models.GameContext) (models.GameState, error) {
	data := g.buildRound(gctx.Seed, 0)
	raw, err := json.Marshal(data)
	if err != nil {
		return models.GameState{}, err
	}
	return models.GameState{Step: 0, Data: raw}, nil
}

func (g *ClusterSort) Update(ctx context.Context, gctx models.GameContext, state models.GameState, action models.PlayerAction) (models.GameState, error) {
	if action.Kind != models.ActionTapMany {
		return state, nil
	}
	var data clusterSortData
	if err := json.Unmarshal(state.Data, &data); err != nil {
		return state, nil
	}

	selected := make([]string, 0, len(action.WordIDs))
	for _, w := range action.WordIDs {
		if containsWord(data.CandidateWords, w) {
			selected = append(selected, w)
		}
	}
	if len(selected) == 0 {
		return state, nil
	}

	center, err := g.Scorer.ClusterCenter(ctx, data.ThemeWords, gctx.Language)
	if err != nil {
		return state, nil
	}

	ranked := g.Scorer.RankByClusterHeat(ctx, data.CandidateWords, center, gctx.Language)
	window := clusterTopMatchWindow
	if window > len(ranked) {
		window = len(ranked)
	}
	topSet := make(map[string]bool, window)
	for i := 0; i < window; i++ {
		topSet[ranked[i].Word] = true
	}

	for _, w := range selected {
		heat := g.Scorer.ClusterHeat(ctx, w, center, gctx.Language)
		data.HeatSum += heat.Heat
		data.SelectedCount++
		if topSet[w] {
			data.TopMatches++
		}
	}

	next := g.buildRound(gctx.Seed, data.Round+1)
	data.Round = next.Round
	data.ThemeWords = next.ThemeWords
	data.CandidateWords = next.CandidateWords

	raw, err := json.Marshal(data)
	if err != nil {
		return state, nil
	}
	return models.GameState{Data: raw}, nil
}

func (g *ClusterSort) Summarize(ctx context.Context, gctx models.GameContext, state models.GameState) (models.GameResultSummary, error) {
	var data clusterSortData
	_ = json.Unmarshal(state.Data, &data)

	avgHeat := 0.0
	precision := 0.0
	if data.SelectedCount > 0 {
		avgHeat = 100 * data.HeatSum / float64(data.SelectedCount)
		precision = 100 * float64(data.TopMatches) / float64(data.SelectedCount)
	}

	return models.GameResultSummary{
		Score: avgHeat,
		SkillSignals: map[string]float64{
			"pattern_recognition":    avgHeat,
			"categorization_precision": precision,
		},
	}, nil
}

func (g *ClusterSort) buildRound(seed string, round int) clusterSortData {
	n := len(wordBank)
	theme := make([]string, 0, clusterThemeSize)
	seen := map[string]bool{}
	offset := 0
	for len(theme) < clusterThemeSize {
		idx := int(seedHash(seed, "theme", round*100+offset) % uint64(n))
		w := wordBank[idx]
		if !seen[w] {
			theme = append(theme, w)
			seen[w] = true
		}
		offset++
	}

	candidates := append([]string{}, theme...)
	offset = 0
	for len(candidates) < clusterCandidateSize {
		idx := int(seedHash(seed, "pool", round*100+offset) % uint64(n))
		w := wordBank[idx]
		if !seen[w] {
			candidates = append(candidates, w)
			seen[w] = true
		}
		offset++
	}

	return clusterSortData{Round: round, ThemeWords: theme, CandidateWords: candidates}
}
