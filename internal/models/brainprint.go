package models

import "time"

// Brainprint is the per-user cognitive profile: a skill_name -> [0,100]
// mapping plus aggregation metadata. Skills is stored as JSON text by
// the repository layer; in memory it is a plain map.
type Brainprint struct {
	UserID          string             `json:"user_id" gorm:"primaryKey;size:64"`
	Skills          map[string]float64 `json:"skills" gorm:"-"`
	TotalGames      int                `json:"total_games"`
	ConfidenceScore float64            `json:"confidence_score"`
	LastUpdated     time.Time          `json:"last_updated"`
}

// Clone returns a Brainprint with an independent Skills map.
func (b Brainprint) Clone() Brainprint {
	out := b
	out.Skills = make(map[string]float64, len(b.Skills))
	for k, v := range b.Skills {
		out.Skills[k] = v
	}
	return out
}
