package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/herald-lol/brainprint/backend/internal/models"
)

// seasonRow is Season's persisted shape: Config is a nested struct the
// spec leaves schema-free, so it is stored as JSON text, mirroring the
// teacher's own analysis-blob columns.
type seasonRow struct {
	ID         string `gorm:"primaryKey;size:64"`
	Number     int    `gorm:"uniqueIndex"`
	StartDate  time.Time
	EndDate    time.Time
	Active     bool
	ConfigJSON string `gorm:"type:text"`
}

func (seasonRow) TableName() string { return "seasons" }

type progressRow struct {
	UserID                  string `gorm:"primaryKey;size:64"`
	SeasonID                string `gorm:"primaryKey;size:64"`
	TotalScore              int
	GamesPlayed             int
	Tier                    string `gorm:"size:32"`
	MilestonesCompletedJSON string `gorm:"type:text"`
	BadgesEarnedJSON        string `gorm:"type:text"`
	UpdatedAt               time.Time
}

func (progressRow) TableName() string { return "user_season_progress" }

// SeasonRepository persists seasons and per-user season progress,
// satisfying the season.Store contract.
type SeasonRepository struct {
	db *gorm.DB
}

func NewSeasonRepository(db *gorm.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) ActiveSeasons(ctx context.Context, now time.Time) ([]models.Season, error) {
	var rows []seasonRow
	err := r.db.WithContext(ctx).
		Where("active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.Season, 0, len(rows))
	for _, row := range rows {
		s, err := rowToSeason(row)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// SaveSeason upserts a season row. It exists alongside the narrower
// season.Store contract (which only needs ActiveSeasons) for
// operational/seeding use by cmd/migrate.
func (r *SeasonRepository) SaveSeason(ctx context.Context, s models.Season) error {
	row, err := seasonToRow(s)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&row).Error
}

func seasonToRow(s models.Season) (seasonRow, error) {
	cfg, err := json.Marshal(s.Config)
	if err != nil {
		return seasonRow{}, err
	}
	return seasonRow{
		ID:         s.ID,
		Number:     s.Number,
		StartDate:  s.StartDate,
		EndDate:    s.EndDate,
		Active:     s.Active,
		ConfigJSON: string(cfg),
	}, nil
}

func (r *SeasonRepository) GetProgress(ctx context.Context, userID, seasonID string) (models.UserSeasonProgress, error) {
	var row progressRow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND season_id = ?", userID, seasonID).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return models.UserSeasonProgress{UserID: userID, SeasonID: seasonID}, nil
	}
	if err != nil {
		return models.UserSeasonProgress{}, err
	}
	return rowToProgress(row)
}

func (r *SeasonRepository) SaveProgress(ctx context.Context, p models.UserSeasonProgress) error {
	row, err := progressToRow(p)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&row).Error
}

func rowToSeason(row seasonRow) (models.Season, error) {
	var cfg models.SeasonConfig
	if row.ConfigJSON != "" {
		if err := json.Unmarshal([]byte(row.ConfigJSON), &cfg); err != nil {
			return models.Season{}, err
		}
	}
	return models.Season{
		ID:        row.ID,
		Number:    row.Number,
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
		Active:    row.Active,
		Config:    cfg,
	}, nil
}

func rowToProgress(row progressRow) (models.UserSeasonProgress, error) {
	var milestones, badges []string
	if row.MilestonesCompletedJSON != "" {
		if err := json.Unmarshal([]byte(row.MilestonesCompletedJSON), &milestones); err != nil {
			return models.UserSeasonProgress{}, err
		}
	}
	if row.BadgesEarnedJSON != "" {
		if err := json.Unmarshal([]byte(row.BadgesEarnedJSON), &badges); err != nil {
			return models.UserSeasonProgress{}, err
		}
	}
	return models.UserSeasonProgress{
		UserID:              row.UserID,
		SeasonID:            row.SeasonID,
		TotalScore:          row.TotalScore,
		GamesPlayed:         row.GamesPlayed,
		Tier:                models.SeasonTier(row.Tier),
		MilestonesCompleted: milestones,
		BadgesEarned:        badges,
		UpdatedAt:           row.UpdatedAt,
	}, nil
}

func progressToRow(p models.UserSeasonProgress) (progressRow, error) {
	milestones, err := json.Marshal(p.MilestonesCompleted)
	if err != nil {
		return progressRow{}, err
	}
	badges, err := json.Marshal(p.BadgesEarned)
	if err != nil {
		return progressRow{}, err
	}
	return progressRow{
		UserID:                  p.UserID,
		SeasonID:                p.SeasonID,
		TotalScore:              p.TotalScore,
		GamesPlayed:             p.GamesPlayed,
		Tier:                    string(p.Tier),
		MilestonesCompletedJSON: string(milestones),
		BadgesEarnedJSON:        string(badges),
		UpdatedAt:               p.UpdatedAt,
	}, nil
}
