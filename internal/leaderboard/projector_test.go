package leaderboard

import (
	"testing"

	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRankEntries_DenseRankingByDescendingScore(t *testing.T) {
	entries := []models.LeaderboardEntry{
		{UserID: "a", BestScore: 50},
		{UserID: "b", BestScore: 90},
		{UserID: "c", BestScore: 90},
	}
	ranked := RankEntries(entries)
	assert.Equal(t, "b", ranked[0].UserID)
	assert.Equal(t, 1, *ranked[0].Rank)
	assert.Equal(t, "c", ranked[1].UserID)
	assert.Equal(t, 2, *ranked[1].Rank)
	assert.Equal(t, "a", ranked[2].UserID)
	assert.Equal(t, 3, *ranked[2].Rank)
}

func TestPercentile_EmptyPopulationIsFifty(t *testing.T) {
	assert.Equal(t, float64(50), Percentile(70, nil))
}

func TestPercentile_SubmissionScenario(t *testing.T) {
	population := []float64{50, 60, 70, 80, 90}
	assert.Equal(t, float64(100), Percentile(95, population))
}

func TestTierByPercentile_Thresholds(t *testing.T) {
	assert.Equal(t, models.TierDiamond, TierByPercentile(95))
	assert.Equal(t, models.TierPlatinum, TierByPercentile(85))
	assert.Equal(t, models.TierGold, TierByPercentile(70))
	assert.Equal(t, models.TierSilver, TierByPercentile(50))
	assert.Equal(t, models.TierBronze, TierByPercentile(49))
}

func TestTierByRank_Thresholds(t *testing.T) {
	assert.Equal(t, models.TierLegendary, TierByRank(1))
	assert.Equal(t, models.TierMaster, TierByRank(10))
	assert.Equal(t, models.TierExpert, TierByRank(50))
	assert.Equal(t, models.TierAdvanced, TierByRank(200))
	assert.Equal(t, models.TierIntermediate, TierByRank(1000))
	assert.Equal(t, models.TierNovice, TierByRank(1001))
}

func TestPage_ConcatenationEqualsFullList(t *testing.T) {
	entries := make([]models.LeaderboardEntry, 0, 10)
	for i := 0; i < 10; i++ {
		entries = append(entries, models.LeaderboardEntry{UserID: string(rune('a' + i))})
	}
	var reassembled []models.LeaderboardEntry
	for offset := 0; offset < len(entries); offset += 3 {
		page := Page(entries, 3, offset)
		reassembled = append(reassembled, page.Entries...)
	}
	assert.Equal(t, entries, reassembled)
}

func TestPage_HasMore(t *testing.T) {
	entries := make([]models.LeaderboardEntry, 5)
	page := Page(entries, 2, 0)
	assert.True(t, page.HasMore)
	page = Page(entries, 2, 4)
	assert.False(t, page.HasMore)
}

func TestFriendsView_RestrictsToSelfAndFriends(t *testing.T) {
	entries := []models.LeaderboardEntry{
		{UserID: "me"}, {UserID: "friend1"}, {UserID: "stranger"},
	}
	view := FriendsView(entries, "me", []string{"friend1"})
	assert.Len(t, view, 2)
}

func TestMergeSubmission_Scenario(t *testing.T) {
	existing := models.LeaderboardEntry{BestScore: 85, AverageScore: 80, GamesPlayed: 3, BestSessionID: "old"}
	merged := MergeSubmission(existing, 95, "new")
	assert.Equal(t, float64(95), merged.BestScore)
	assert.Equal(t, 83.75, merged.AverageScore)
	assert.Equal(t, 4, merged.GamesPlayed)
	assert.Equal(t, "new", merged.BestSessionID)
}

func TestMergeSubmission_KeepsBestWhenNewScoreIsLower(t *testing.T) {
	existing := models.LeaderboardEntry{BestScore: 85, AverageScore: 80, GamesPlayed: 3, BestSessionID: "old"}
	merged := MergeSubmission(existing, 10, "new")
	assert.Equal(t, float64(85), merged.BestScore)
	assert.Equal(t, "old", merged.BestSessionID)
}

func TestDailyStatsFor_LowerMedianOnEvenCount(t *testing.T) {
	stats := DailyStatsFor([]float64{10, 20, 30, 40})
	assert.Equal(t, float64(20), stats.Median)
	assert.Equal(t, 4, stats.TotalPlayers)
	assert.Equal(t, float64(40), stats.Top)
	assert.Equal(t, float64(10), stats.Bottom)
}
