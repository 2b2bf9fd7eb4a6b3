package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/wcrlabs/lineup-engine/internal/api/handlers"
	"github.com/wcrlabs/lineup-engine/internal/fatigue"
	"github.com/wcrlabs/lineup-engine/internal/game"
	"github.com/wcrlabs/lineup-engine/internal/recommend"
	"github.com/wcrlabs/lineup-engine/internal/store"
	"github.com/wcrlabs/lineup-engine/internal/strategy"
	"github.com/wcrlabs/lineup-engine/internal/websocket"
	"github.com/wcrlabs/lineup-engine/pkg/cache"
	"github.com/wcrlabs/lineup-engine/pkg/config"
	"github.com/wcrlabs/lineup-engine/pkg/database"
	"github.com/wcrlabs/lineup-engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logger with service context
	structuredLogger := logger.InitLogger("info", cfg.IsDevelopment())
	logger.WithService("lineup-engine").WithFields(logrus.Fields{
		"environment": cfg.Env,
		"port":        cfg.Port,
	}).Info("Starting Lineup Engine")

	// Setup Gin mode
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logger.WithService("lineup-engine").Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := store.NewRepository(db)
	if err := repo.Migrate(); err != nil {
		logger.WithService("lineup-engine").Fatalf("Failed to migrate schema: %v", err)
	}

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.WithService("lineup-engine").Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.WithService("lineup-engine").Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize cache service for recommendation results
	cacheService := cache.NewRecommendationCacheService(redisClient, structuredLogger)

	// Load the player value table computed by the valuation job
	values, err := repo.ListValues()
	if err != nil {
		logger.WithService("lineup-engine").Fatalf("Failed to load player value table: %v", err)
	}
	if len(values) == 0 {
		logger.WithService("lineup-engine").Warn("Player value table is empty; run the valuation job first")
	}

	recommender := recommend.NewService(values, recommend.Config{
		Fatigue:              fatigue.Config{Rate: cfg.FatigueRate, MaxPenalty: cfg.FatigueMaxPenalty},
		Strategy:             strategy.Config{MaxDiff: cfg.GameStateMaxDiff},
		RosterSize:           cfg.RosterSize,
		LineupSize:           cfg.LineupSize,
		ClassificationBudget: cfg.ClassificationBudget,
	}, structuredLogger)

	// Initialize WebSocket hub for live game feeds
	wsHub := websocket.NewHub(structuredLogger)
	go wsHub.Run()

	gameManager := game.NewManager()

	// Initialize router
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// Initialize handlers
	gameHandler := handlers.NewGameHandler(gameManager, recommender, cacheService, wsHub, cfg, structuredLogger)
	valuationHandler := handlers.NewValuationHandler(repo, recommender, cfg, structuredLogger)
	healthHandler := handlers.NewHealthHandler(db, cacheService, structuredLogger)

	// Setup API routes
	apiV1 := router.Group("/api/v1")
	{
		// Live game tracking
		apiV1.POST("/games", gameHandler.CreateGame)
		apiV1.GET("/games/:id", gameHandler.GetGame)
		apiV1.POST("/games/:id/stints", gameHandler.RecordStint)
		apiV1.POST("/games/:id/recommend", gameHandler.RecommendLineup)
		apiV1.DELETE("/games/:id", gameHandler.EndGame)

		// Player value table
		apiV1.GET("/players/values", valuationHandler.GetValues)
		apiV1.GET("/teams", valuationHandler.GetTeams)
		apiV1.POST("/valuate", valuationHandler.RunValuation)
	}

	// WebSocket endpoint for live game feeds
	router.GET("/ws/games/:id", wsHub.HandleWebSocket)

	// Health check endpoints
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.WithService("lineup-engine").WithField("port", cfg.Port).Info("Lineup engine started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithService("lineup-engine").Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.WithService("lineup-engine").Info("Shutting down lineup engine...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithService("lineup-engine").Fatalf("Lineup engine forced to shutdown: %v", err)
	}

	logger.WithService("lineup-engine").Info("Lineup engine exited")
}
