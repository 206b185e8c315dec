package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/herald-lol/brainprint/backend/internal/clock"
	"github.com/herald-lol/brainprint/backend/internal/models"
)

// SessionRepository persists finished sessions (PersistedSession) and
// per-user brainprints.
type SessionRepository struct {
	db    *gorm.DB
	Clock clock.Clock
}

func NewSessionRepository(db *gorm.DB, c clock.Clock) *SessionRepository {
	if c == nil {
		c = clock.SystemClock{}
	}
	return &SessionRepository{db: db, Clock: c}
}

func (r *SessionRepository) Save(ctx context.Context, sessionID, userID, gameID string, mode models.Mode, summary models.GameResultSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	record := models.PersistedSession{
		SessionID: sessionID,
		UserID:    userID,
		GameID:    gameID,
		Mode:      mode,
		Score:     summary.Score,
		Summary:   raw,
		CreatedAt: r.Clock.Now().Unix(),
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]models.PersistedSession, error) {
	var rows []models.PersistedSession
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at asc").Find(&rows).Error
	return rows, err
}

// brainprintRow is Brainprint's persisted shape: Skills is a flat map
// stored as JSON text, per the model's own doc comment.
type brainprintRow struct {
	UserID          string `gorm:"primaryKey;size:64"`
	SkillsJSON      string `gorm:"type:text"`
	TotalGames      int
	ConfidenceScore float64
	LastUpdated     int64
}

func (brainprintRow) TableName() string { return "brainprints" }

type BrainprintRepository struct {
	db *gorm.DB
}

func NewBrainprintRepository(db *gorm.DB) *BrainprintRepository {
	return &BrainprintRepository{db: db}
}

func (r *BrainprintRepository) Get(ctx context.Context, userID string) (models.Brainprint, error) {
	var row brainprintRow
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return models.Brainprint{UserID: userID, Skills: map[string]float64{}}, nil
	}
	if err != nil {
		return models.Brainprint{}, err
	}
	skills := map[string]float64{}
	if row.SkillsJSON != "" {
		if err := json.Unmarshal([]byte(row.SkillsJSON), &skills); err != nil {
			return models.Brainprint{}, err
		}
	}
	return models.Brainprint{
		UserID:          row.UserID,
		Skills:          skills,
		TotalGames:      row.TotalGames,
		ConfidenceScore: row.ConfidenceScore,
		LastUpdated:     time.Unix(row.LastUpdated, 0),
	}, nil
}

func (r *BrainprintRepository) Save(ctx context.Context, bp models.Brainprint) error {
	skills, err := json.Marshal(bp.Skills)
	if err != nil {
		return err
	}
	row := brainprintRow{
		UserID:          bp.UserID,
		SkillsJSON:      string(skills),
		TotalGames:      bp.TotalGames,
		ConfidenceScore: bp.ConfidenceScore,
		LastUpdated:     bp.LastUpdated.Unix(),
	}
	return r.db.WithContext(ctx).Save(&row).Error
}
