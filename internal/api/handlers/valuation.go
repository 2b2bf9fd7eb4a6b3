package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wcrlabs/lineup-engine/internal/recommend"
	"github.com/wcrlabs/lineup-engine/internal/store"
	"github.com/wcrlabs/lineup-engine/internal/valuation"
	"github.com/wcrlabs/lineup-engine/pkg/config"
	"github.com/wcrlabs/lineup-engine/pkg/logger"
	"github.com/wcrlabs/lineup-engine/pkg/types"
)

// ValuationHandler exposes the player value table and the valuation run
type ValuationHandler struct {
	repo        *store.Repository
	recommender *recommend.Service
	config      *config.Config
	logger      *logrus.Logger
}

// NewValuationHandler creates a new valuation handler
func NewValuationHandler(
	repo *store.Repository,
	recommender *recommend.Service,
	cfg *config.Config,
	logger *logrus.Logger,
) *ValuationHandler {
	return &ValuationHandler{
		repo:        repo,
		recommender: recommender,
		config:      cfg,
		logger:      logger,
	}
}

// GetValues returns the player value table, optionally filtered by team
func (h *ValuationHandler) GetValues(c *gin.Context) {
	team := c.Query("team")

	var (
		values []types.PlayerValue
		err    error
	)
	if team != "" {
		values, err = h.repo.ListTeamValues(team)
	} else {
		values, err = h.repo.ListValues()
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(values),
		"values": values,
	})
}

// GetTeams returns the teams present in the value table
func (h *ValuationHandler) GetTeams(c *gin.Context) {
	teams, err := h.repo.ListTeams()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// RunValuation recomputes the value table from the stored stint corpus and
// swaps it into the live recommendation service
func (h *ValuationHandler) RunValuation(c *gin.Context) {
	runID := uuid.New().String()
	start := time.Now()

	players, err := h.repo.ListPlayers()
	if err != nil {
		respondError(c, err)
		return
	}
	stints, err := h.repo.ListStints()
	if err != nil {
		respondError(c, err)
		return
	}

	log := logger.WithValuationContext(runID, len(stints), len(players))
	log.Info("Starting valuation run")

	values, err := valuation.ComputeValueTable(
		players,
		stints,
		valuation.EngineConfig{RidgeAlpha: h.config.RidgeAlpha},
		valuation.BlendConfig{PriorWeight: h.config.PriorWeight, SpecialistRatio: h.config.SpecialistRatio},
		log,
	)
	if err != nil {
		log.WithError(err).Error("Valuation run failed")
		respondError(c, err)
		return
	}

	if err := h.repo.ReplaceValues(values); err != nil {
		respondError(c, err)
		return
	}
	h.recommender.ReplaceValues(values)

	log.WithFields(logrus.Fields{
		"players_valued": len(values),
		"elapsed":        time.Since(start),
	}).Info("Valuation run completed")

	c.JSON(http.StatusOK, types.SuccessResponse{
		Message: "Valuation completed",
		Data: map[string]interface{}{
			"valuation_run_id": runID,
			"players_valued":   len(values),
			"stints_used":      len(stints),
			"elapsed_ms":       time.Since(start).Milliseconds(),
		},
	})
}
