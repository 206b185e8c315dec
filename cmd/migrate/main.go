package main

import (
	"context"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/herald-lol/brainprint/backend/internal/config"
	"github.com/herald-lol/brainprint/backend/internal/embeddings"
	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/herald-lol/brainprint/backend/internal/repository"
)

func main() {
	log.Println("Starting brainprint database migration...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := connectDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB: %v", err)
	}
	defer sqlDB.Close()

	log.Println("Running core migrations...")
	if err := repository.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if cfg.Embeddings.Provider == "db" {
		log.Println("Running embedding store migration...")
		if err := embeddings.Migrate(db); err != nil {
			log.Fatalf("Failed to migrate embedding store: %v", err)
		}
	}

	if cfg.IsDevelopment() {
		seedDevSeason(db, cfg)
	}

	log.Println("Database migration completed successfully")
}

func connectDatabase(cfg *config.Config) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	switch cfg.Database.Driver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{})
	default:
		db, err = gorm.Open(sqlite.Open(cfg.GetDatabaseDSN()), &gorm.Config{})
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// seedDevSeason inserts a single active season covering today, sized
// by the configured default duration, so a fresh development database
// has something for /seasons/active to return.
func seedDevSeason(db *gorm.DB, cfg *config.Config) {
	seasonRepo := repository.NewSeasonRepository(db)
	ctx := context.Background()
	now := time.Now()
	existing, err := seasonRepo.ActiveSeasons(ctx, now)
	if err == nil && len(existing) > 0 {
		log.Println("Development season already active, skipping seed")
		return
	}

	s := models.Season{
		ID:        "season-dev-1",
		Number:    1,
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now.Add(time.Duration(cfg.Season.DefaultDurationDays) * 24 * time.Hour),
		Active:    true,
		Config: models.SeasonConfig{
			Games: []string{"synonym_rush", "midpoint_bridge", "cluster_sort"},
			Milestones: []models.Milestone{
				{ID: "first_100", Requirement: 100, Reward: "badge:first_100"},
				{ID: "grinder_500", Requirement: 500, Reward: "badge:grinder"},
			},
			TierThresholds: map[models.SeasonTier]int{
				models.SeasonBronze:   100,
				models.SeasonSilver:   300,
				models.SeasonGold:     600,
				models.SeasonPlatinum: 1000,
				models.SeasonDiamond:  2000,
			},
		},
	}

	if err := seasonRepo.SaveSeason(ctx, s); err != nil {
		log.Printf("Failed to seed development season: %v", err)
		return
	}
	log.Println("Development season seeded")
}
