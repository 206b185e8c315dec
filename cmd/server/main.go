package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/herald-lol/brainprint/backend/internal/audit"
	"github.com/herald-lol/brainprint/backend/internal/auth"
	"github.com/herald-lol/brainprint/backend/internal/brainprint"
	"github.com/herald-lol/brainprint/backend/internal/clock"
	"github.com/herald-lol/brainprint/backend/internal/config"
	"github.com/herald-lol/brainprint/backend/internal/embeddings"
	"github.com/herald-lol/brainprint/backend/internal/gameengine"
	"github.com/herald-lol/brainprint/backend/internal/gameengine/plugins"
	"github.com/herald-lol/brainprint/backend/internal/handlers"
	"github.com/herald-lol/brainprint/backend/internal/leaderboard"
	"github.com/herald-lol/brainprint/backend/internal/middleware"
	"github.com/herald-lol/brainprint/backend/internal/repository"
	"github.com/herald-lol/brainprint/backend/internal/scorer"
	"github.com/herald-lol/brainprint/backend/internal/season"
	"github.com/herald-lol/brainprint/backend/internal/wsgateway"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := connectDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.Embeddings.Provider == "db" {
		if err := embeddings.Migrate(db); err != nil {
			log.Fatalf("Failed to migrate embedding store: %v", err)
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	systemClock := clock.SystemClock{}

	provider, err := buildEmbeddingProvider(cfg, db)
	if err != nil {
		log.Fatalf("Failed to build embedding provider: %v", err)
	}
	embeddingSvc := embeddings.NewService(provider, cfg.Embeddings.CacheSize)
	semanticScorer := scorer.New(embeddingSvc)

	catalog := gameengine.NewCatalog()
	registerGames(catalog, semanticScorer)

	auditLogger := audit.New(redisClient, audit.DefaultRetentionDays)

	orchestrator := gameengine.NewOrchestrator(catalog, systemClock)
	orchestrator.Auditor = auditLogger

	sessionRepo := repository.NewSessionRepository(db, systemClock)
	brainprintRepo := repository.NewBrainprintRepository(db)
	brainprintAggregator := brainprint.New(systemClock)
	leaderboardRepo := repository.NewLeaderboardRepository(db)
	leaderboardCache := leaderboard.NewRedisCache(redisClient)
	seasonRepo := repository.NewSeasonRepository(db)
	friendStore := repository.NewStaticFriendshipStore()

	seasonManager := season.New(seasonRepo, systemClock)
	seasonManager.Auditor = auditLogger

	identity := auth.NewIdentityResolver([]byte(cfg.JWT.Secret), "herald")

	hub := wsgateway.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	sessionHandler := handlers.NewSessionHandler(catalog, orchestrator, sessionRepo, brainprintRepo, brainprintAggregator, systemClock)
	semanticsHandler := handlers.NewSemanticsHandler(semanticScorer)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardRepo, leaderboardCache, friendStore, systemClock)
	seasonHandler := handlers.NewSeasonHandler(seasonManager, seasonRepo)

	rateLimiter := middleware.NewSessionRateLimiter(redisClient, nil)
	circuitBreaker := middleware.NewEmbeddingCircuitBreaker(redisClient, nil)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(corsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"version":   "1.0.0",
		})
	})

	r.GET("/ws", identity.RequireIdentity(), hub.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		sess := api.Group("/session")
		sess.Use(identity.RequireIdentity(), rateLimiter.SessionLimit())
		{
			sess.POST("/init", sessionHandler.Init)
			sess.POST("/update", sessionHandler.Update)
			sess.POST("/run", sessionHandler.Run)
		}

		sem := api.Group("/semantics")
		sem.Use(identity.RequireIdentity(), rateLimiter.SemanticsLimit(), circuitBreaker.Guard())
		{
			sem.POST("/similarity", semanticsHandler.Similarity)
			sem.POST("/rarity", semanticsHandler.Rarity)
			sem.POST("/midpoint", semanticsHandler.Midpoint)
			sem.POST("/clusterHeat", semanticsHandler.ClusterHeat)
		}

		lb := api.Group("/leaderboards")
		{
			lb.GET("/:game/:mode", leaderboardHandler.Get)
			lb.GET("/:game/:mode/daily", leaderboardHandler.Daily)
			lb.POST("/:game/:mode/submit", identity.RequireIdentity(), leaderboardHandler.Submit)
		}

		seasons := api.Group("/seasons")
		{
			seasons.GET("/active", seasonHandler.Active)
			seasons.GET("/list", seasonHandler.List)
			seasons.GET("/:id", seasonHandler.Get)
			seasons.GET("/:id/progress/:user", seasonHandler.Progress)
			seasons.GET("/:id/leaderboard", seasonHandler.Leaderboard)
			seasons.POST("/:id/milestones/claim", identity.RequireIdentity(), seasonHandler.ClaimMilestone)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("herald brainprint API server starting on :%s", cfg.Server.Port)
	log.Printf("environment: %s", cfg.Server.Environment)
	log.Printf("database: %s", cfg.Database.Driver)
	log.Printf("embedding provider: %s", cfg.Embeddings.Provider)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// registerGames wires the three shipped micro-game plugins into the
// catalog. A registration failure here is a startup bug, not a runtime
// condition, so it is fatal.
func registerGames(catalog *gameengine.Catalog, s *scorer.Scorer) {
	games := []gameengine.Game{
		plugins.NewSynonymRush(s),
		plugins.NewMidpointBridge(s),
		plugins.NewClusterSort(s),
	}
	for _, g := range games {
		if err := catalog.Register(g); err != nil {
			log.Fatalf("Failed to register game %s: %v", g.ID(), err)
		}
	}
}

// buildEmbeddingProvider selects the Provider implementation named by
// cfg.Embeddings.Provider: "file" loads a static word-vector file, "db"
// reads from the same database the rest of the app uses, and "mock"
// (the default) deterministically synthesizes vectors for local
// development and tests without any external data dependency.
func buildEmbeddingProvider(cfg *config.Config, db *gorm.DB) (embeddings.Provider, error) {
	switch cfg.Embeddings.Provider {
	case "file":
		f, err := os.Open(cfg.Embeddings.FilePath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		fp := embeddings.NewFileProvider("en", cfg.Embeddings.Dimension, cfg.Embeddings.MaxWords, cfg.Embeddings.Renormalize)
		if _, err := fp.Load(f); err != nil {
			return nil, err
		}
		return fp, nil
	case "db":
		return embeddings.NewDBProvider(db), nil
	default:
		return embeddings.NewMockProvider(cfg.Embeddings.Dimension), nil
	}
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

func corsMiddleware() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowedOrigins := []string{
			"http://localhost:3000",
			"http://localhost:80",
			"https://herald.lol",
			"https://www.herald.lol",
		}

		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
}
