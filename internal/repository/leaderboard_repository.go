package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/herald-lol/brainprint/backend/internal/models"
)

// LeaderboardRepository persists all-time and daily leaderboard
// entries. The live ranked view is computed by internal/leaderboard's
// pure functions over rows this repository returns; this type never
// ranks anything itself.
type LeaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) GetEntry(ctx context.Context, userID, gameID string, mode models.Mode) (models.LeaderboardEntry, error) {
	var entry models.LeaderboardEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND game_id = ? AND mode = ?", userID, gameID, mode).
		First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return models.LeaderboardEntry{UserID: userID, GameID: gameID, Mode: mode}, nil
	}
	return entry, err
}

func (r *LeaderboardRepository) SaveEntry(ctx context.Context, entry models.LeaderboardEntry) error {
	return r.db.WithContext(ctx).Save(&entry).Error
}

func (r *LeaderboardRepository) ListEntries(ctx context.Context, gameID string, mode models.Mode) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := r.db.WithContext(ctx).
		Where("game_id = ? AND mode = ?", gameID, mode).
		Find(&entries).Error
	return entries, err
}

func (r *LeaderboardRepository) SaveDailyEntry(ctx context.Context, entry models.DailyLeaderboardEntry) error {
	return r.db.WithContext(ctx).Save(&entry).Error
}

func (r *LeaderboardRepository) ListDailyEntries(ctx context.Context, gameID string, mode models.Mode, date string) ([]models.DailyLeaderboardEntry, error) {
	var entries []models.DailyLeaderboardEntry
	err := r.db.WithContext(ctx).
		Where("game_id = ? AND mode = ? AND date = ?", gameID, mode, date).
		Find(&entries).Error
	return entries, err
}
