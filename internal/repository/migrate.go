package repository

import (
	"gorm.io/gorm"

	"github.com/herald-lol/brainprint/backend/internal/models"
)

// Migrate creates every table this package's repositories read and
// write. It covers sessions, brainprints, leaderboard entries (all-time
// and daily), and seasonal progression; the embedding store's own
// table is migrated separately by embeddings.Migrate since it belongs
// to a different collaborator interface.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.PersistedSession{},
		&brainprintRow{},
		&models.LeaderboardEntry{},
		&models.DailyLeaderboardEntry{},
		&seasonRow{},
		&progressRow{},
	)
}
