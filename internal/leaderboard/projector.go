// Package leaderboard implements the leaderboard projector of spec
// §4.9: pure ranking/percentile/tier/pagination functions plus a
// redis-backed sorted-set cache for the live per-(game,mode) board.
package leaderboard

import (
	"math"
	"sort"

	"github.com/herald-lol/brainprint/backend/internal/models"
)

// RankEntries assigns 1-based ranks by descending score. Rank numbering
// advances by one per entry, so tied entries do not share a rank: they
// get consecutive ranks in their input order (stable sort). This is
// not competition ranking (spec §4.9/§9).
func RankEntries(entries []models.LeaderboardEntry) []models.LeaderboardEntry {
	out := make([]models.LeaderboardEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].BestScore > out[j].BestScore })
	for i := range out {
		rank := i + 1
		out[i].Rank = &rank
	}
	return out
}

// Percentile returns round((N-betterCount)/N*100), where betterCount is
// the number of population scores strictly greater than score. An
// empty population yields 50 (spec §4.9).
func Percentile(score float64, population []float64) float64 {
	n := len(population)
	if n == 0 {
		return 50
	}
	better := 0
	for _, p := range population {
		if p > score {
			better++
		}
	}
	return math.Round(float64(n-better) / float64(n) * 100)
}

// TierByPercentile maps a percentile (spec's primary tier scheme) to a
// named band: diamond>=95, platinum>=85, gold>=70, silver>=50, else
// bronze.
func TierByPercentile(percentile float64) models.Tier {
	switch {
	case percentile >= 95:
		return models.TierDiamond
	case percentile >= 85:
		return models.TierPlatinum
	case percentile >= 70:
		return models.TierGold
	case percentile >= 50:
		return models.TierSilver
	default:
		return models.TierBronze
	}
}

// TierByRank maps a 1-based rank to the alternate by-rank tier scheme:
// rank 1 is legendary; the spec preserves both schemes and leaves which
// applies per endpoint to the integration (spec §9).
func TierByRank(rank int) models.Tier {
	switch {
	case rank == 1:
		return models.TierLegendary
	case rank <= 10:
		return models.TierMaster
	case rank <= 50:
		return models.TierExpert
	case rank <= 200:
		return models.TierAdvanced
	case rank <= 1000:
		return models.TierIntermediate
	default:
		return models.TierNovice
	}
}

// Page returns the window of entries starting at offset sized limit,
// along with whether more entries follow.
func Page(entries []models.LeaderboardEntry, limit, offset int) models.LeaderboardPage {
	total := len(entries)
	if limit <= 0 {
		limit = total
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + limit
	if offset >= total {
		return models.LeaderboardPage{Entries: []models.LeaderboardEntry{}, Total: total, Limit: limit, Offset: offset, HasMore: false}
	}
	if end > total {
		end = total
	}
	window := entries[offset:end]
	return models.LeaderboardPage{
		Entries: window,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+len(window) < total,
	}
}

// FriendsView restricts entries to the caller plus their friends.
func FriendsView(entries []models.LeaderboardEntry, userID string, friendIDs []string) []models.LeaderboardEntry {
	allowed := make(map[string]bool, len(friendIDs)+1)
	allowed[userID] = true
	for _, f := range friendIDs {
		allowed[f] = true
	}
	out := make([]models.LeaderboardEntry, 0, len(allowed))
	for _, e := range entries {
		if allowed[e.UserID] {
			out = append(out, e)
		}
	}
	return out
}

// MergeSubmission folds a new score into an existing leaderboard entry
// per spec §4.9's submission math, rounding best/average to two
// decimal places.
func MergeSubmission(existing models.LeaderboardEntry, newScore float64, newSessionID string) models.LeaderboardEntry {
	out := existing
	out.AverageScore = round2((existing.AverageScore*float64(existing.GamesPlayed) + newScore) / float64(existing.GamesPlayed+1))
	out.GamesPlayed = existing.GamesPlayed + 1
	if newScore > existing.BestScore {
		out.BestScore = round2(newScore)
		out.BestSessionID = newSessionID
	}
	return out
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// DailyStatsFor summarizes a population of scores for a single day.
// Median uses the lower of the two middle values on even counts.
func DailyStatsFor(scores []float64) models.DailyStats {
	if len(scores) == 0 {
		return models.DailyStats{}
	}
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	var sum float64
	for _, s := range sorted {
		sum += s
	}
	n := len(sorted)
	median := sorted[(n-1)/2]

	return models.DailyStats{
		TotalPlayers: n,
		AvgScore:     round2(sum / float64(n)),
		Median:       median,
		Top:          sorted[n-1],
		Bottom:       sorted[0],
	}
}
