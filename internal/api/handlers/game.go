package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wcrlabs/lineup-engine/internal/game"
	"github.com/wcrlabs/lineup-engine/internal/recommend"
	"github.com/wcrlabs/lineup-engine/internal/websocket"
	"github.com/wcrlabs/lineup-engine/pkg/cache"
	"github.com/wcrlabs/lineup-engine/pkg/config"
	"github.com/wcrlabs/lineup-engine/pkg/types"
)

// GameHandler handles live game tracking and recommendation endpoints
type GameHandler struct {
	manager     *game.Manager
	recommender *recommend.Service
	cache       *cache.RecommendationCacheService
	wsHub       *websocket.Hub
	config      *config.Config
	logger      *logrus.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(
	manager *game.Manager,
	recommender *recommend.Service,
	cacheService *cache.RecommendationCacheService,
	wsHub *websocket.Hub,
	cfg *config.Config,
	logger *logrus.Logger,
) *GameHandler {
	return &GameHandler{
		manager:     manager,
		recommender: recommender,
		cache:       cacheService,
		wsHub:       wsHub,
		config:      cfg,
		logger:      logger,
	}
}

// CreateGame starts live tracking for a game between two valued teams
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req types.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if req.HomeTeam == req.AwayTeam {
		respondError(c, types.NewDataIntegrityError("a team cannot play itself"))
		return
	}

	rosters := make(map[string][]string, 2)
	ratings := make(map[string]float64)
	for _, team := range []string{req.HomeTeam, req.AwayTeam} {
		values := h.recommender.TeamValues(team)
		if len(values) != h.config.RosterSize {
			respondError(c, types.NewDataIntegrityError("team %s has %d valued players, want exactly %d", team, len(values), h.config.RosterSize))
			return
		}
		roster := make([]string, 0, len(values))
		for _, v := range values {
			roster = append(roster, v.PlayerID)
			ratings[v.PlayerID] = v.MobilityRating
		}
		sort.Strings(roster)
		rosters[team] = roster
	}

	session := game.NewSession(req.HomeTeam, req.AwayTeam, rosters, ratings, h.config.LineupSize, h.config.ClassificationBudget)
	h.manager.Add(session)

	h.logger.WithFields(logrus.Fields{
		"game_id":   session.ID,
		"home_team": req.HomeTeam,
		"away_team": req.AwayTeam,
	}).Info("Live game session created")

	c.JSON(http.StatusCreated, session.State())
}

// GetGame returns the current state of a live game
func (h *GameHandler) GetGame(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.State())
}

// RecordStint appends one stint to a live game and updates player minutes
func (h *GameHandler) RecordStint(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req types.RecordStintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	record, err := session.RecordStint(req.Team, req.Lineup, req.GoalsFor, req.GoalsAgainst, req.Minutes)
	if err != nil {
		respondError(c, err)
		return
	}

	// Minutes changed, so previously cached recommendations are stale.
	if err := h.cache.InvalidateGame(c.Request.Context(), session.ID); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate recommendation cache")
	}

	h.wsHub.BroadcastToGame(session.ID, websocket.Event{
		Type:    "stint_recorded",
		GameID:  session.ID,
		Payload: record,
	})

	h.logger.WithFields(logrus.Fields{
		"game_id":   session.ID,
		"team":      req.Team,
		"stint_num": record.Number,
		"minutes":   record.Minutes,
	}).Info("Stint recorded")

	c.JSON(http.StatusCreated, record)
}

// RecommendLineup computes the optimal legal lineup for one team
func (h *GameHandler) RecommendLineup(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req types.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	snapshot := session.Snapshot(req.Team)
	cacheKey := cache.Key(snapshot, req.Team)

	if cached, err := h.cache.GetRecommendation(c.Request.Context(), cacheKey); err == nil && cached != nil {
		h.logger.WithField("cache_key", cacheKey).Info("Returning cached recommendation")
		c.JSON(http.StatusOK, cached)
		return
	}

	recommendation, err := h.recommender.Recommend(snapshot, req.Team)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.cache.SetRecommendation(c.Request.Context(), cacheKey, recommendation, h.config.RecommendationCacheTTL); err != nil {
		h.logger.WithError(err).Warn("Failed to cache recommendation")
	}

	h.wsHub.BroadcastToGame(session.ID, websocket.Event{
		Type:    "recommendation",
		GameID:  session.ID,
		Payload: recommendation,
	})

	c.JSON(http.StatusOK, recommendation)
}

// EndGame stops tracking a live game
func (h *GameHandler) EndGame(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	h.manager.Remove(session.ID)
	if err := h.cache.InvalidateGame(c.Request.Context(), session.ID); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate recommendation cache")
	}

	c.JSON(http.StatusOK, types.SuccessResponse{
		Message: "Game session ended",
		Data:    session.State(),
	})
}
