package models

import "time"

// SeasonTier is the season-scoped tier band, distinct from the
// leaderboard Tier bands (spec §3's UserSeasonProgress enumerates its
// own six-value set).
type SeasonTier string

const (
	SeasonNovice   SeasonTier = "novice"
	SeasonBronze   SeasonTier = "bronze"
	SeasonSilver   SeasonTier = "silver"
	SeasonGold     SeasonTier = "gold"
	SeasonPlatinum SeasonTier = "platinum"
	SeasonDiamond  SeasonTier = "diamond"
)

// Milestone is a claimable reward gated on a total-score threshold.
type Milestone struct {
	ID          string `json:"id"`
	Requirement int    `json:"requirement"`
	Reward      string `json:"reward"`
}

// SeasonConfig names the games in scope for a season, its milestone
// ladder, and the total-score thresholds used to derive SeasonTier.
type SeasonConfig struct {
	Games           []string             `json:"games"`
	Milestones      []Milestone          `json:"milestones"`
	TierThresholds  map[SeasonTier]int   `json:"tier_thresholds"`
}

// Season is a fixed window of play with at most one active instance at
// any given time (start <= now <= end).
type Season struct {
	ID        string       `json:"id" gorm:"primaryKey;size:64"`
	Number    int          `json:"number" gorm:"uniqueIndex"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	Active    bool         `json:"active"`
	Config    SeasonConfig `json:"config" gorm:"-"`
}

// UserSeasonProgress is the per-(user, season) accumulator.
type UserSeasonProgress struct {
	UserID              string     `json:"user_id" gorm:"primaryKey;size:64"`
	SeasonID            string     `json:"season_id" gorm:"primaryKey;size:64"`
	TotalScore          int        `json:"total_score"`
	GamesPlayed         int        `json:"games_played"`
	Tier                SeasonTier `json:"tier"`
	MilestonesCompleted []string   `json:"milestones_completed" gorm:"-"`
	BadgesEarned        []string   `json:"badges_earned" gorm:"-"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// HasClaimed reports whether the given milestone id has already been
// recorded in MilestonesCompleted.
func (p UserSeasonProgress) HasClaimed(milestoneID string) bool {
	for _, id := range p.MilestonesCompleted {
		if id == milestoneID {
			return true
		}
	}
	return false
}
