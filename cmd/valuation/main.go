package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wcrlabs/lineup-engine/internal/store"
	"github.com/wcrlabs/lineup-engine/internal/valuation"
	"github.com/wcrlabs/lineup-engine/pkg/config"
	"github.com/wcrlabs/lineup-engine/pkg/database"
	"github.com/wcrlabs/lineup-engine/pkg/logger"
)

// Batch job that recomputes the player value table from the full stint
// history and replaces the persisted table in one transaction.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger("info", cfg.IsDevelopment())

	runID := uuid.New().String()
	log := logger.WithService("valuation-job").WithField("run_id", runID)
	log.Info("Starting valuation run")

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := store.NewRepository(db)
	if err := repo.Migrate(); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	players, err := repo.ListPlayers()
	if err != nil {
		log.Fatalf("Failed to load players: %v", err)
	}
	stints, err := repo.ListStints()
	if err != nil {
		log.Fatalf("Failed to load stints: %v", err)
	}

	logger.WithValuationContext(runID, len(stints), len(players)).Info("Loaded valuation inputs")

	start := time.Now()
	values, err := valuation.ComputeValueTable(
		players,
		stints,
		valuation.EngineConfig{RidgeAlpha: cfg.RidgeAlpha},
		valuation.BlendConfig{PriorWeight: cfg.PriorWeight, SpecialistRatio: cfg.SpecialistRatio},
		log,
	)
	if err != nil {
		log.Fatalf("Valuation run failed: %v", err)
	}

	if err := repo.ReplaceValues(values); err != nil {
		log.Fatalf("Failed to persist player value table: %v", err)
	}

	log.WithFields(logrus.Fields{
		"players":    len(values),
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Info("Valuation run complete")
}
