package models

// LeaderboardEntry is the all-time, per-(user, game, mode) projection.
type LeaderboardEntry struct {
	UserID        string  `json:"user_id" gorm:"primaryKey;size:64"`
	GameID        string  `json:"game_id" gorm:"primaryKey;size:64"`
	Mode          Mode    `json:"mode" gorm:"primaryKey;size:32"`
	BestScore     float64 `json:"best_score"`
	AverageScore  float64 `json:"average_score"`
	GamesPlayed   int     `json:"games_played"`
	BestSessionID string  `json:"best_session_id"`
	Rank          *int    `json:"rank,omitempty" gorm:"-"`
}

// DailyLeaderboardEntry is the per-(user, game, mode, date) projection
// used for the last-24h ranking.
type DailyLeaderboardEntry struct {
	UserID    string  `json:"user_id" gorm:"primaryKey;size:64"`
	GameID    string  `json:"game_id" gorm:"primaryKey;size:64"`
	Mode      Mode    `json:"mode" gorm:"primaryKey;size:32"`
	Date      string  `json:"date" gorm:"primaryKey;size:10"` // YYYY-MM-DD
	Score     float64 `json:"score"`
	SessionID string  `json:"session_id"`
}

// Tier is a named band derived from either rank or percentile,
// depending on which scheme a call site documents (spec §4.9).
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
	TierDiamond  Tier = "diamond"

	TierNovice       Tier = "novice"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
	TierExpert       Tier = "expert"
	TierMaster       Tier = "master"
	TierLegendary    Tier = "legendary"
)

// LeaderboardPage is the paginated result of a leaderboard query.
type LeaderboardPage struct {
	Entries  []LeaderboardEntry `json:"entries"`
	Total    int                `json:"total"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
	HasMore  bool               `json:"has_more"`
}

// DailyStats summarizes a single day's scoring population for a
// (game, mode) pair.
type DailyStats struct {
	TotalPlayers int     `json:"total_players"`
	AvgScore     float64 `json:"avg_score"`
	Median       float64 `json:"median"`
	Top          float64 `json:"top"`
	Bottom       float64 `json:"bottom"`
}
