package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wcrlabs/lineup-engine/pkg/cache"
	"github.com/wcrlabs/lineup-engine/pkg/database"
)

// HealthStatus reports the service and its dependency checks.
type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db     *database.DB
	cache  *cache.RecommendationCacheService
	logger *logrus.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(
	db *database.DB,
	cacheService *cache.RecommendationCacheService,
	logger *logrus.Logger,
) *HealthHandler {
	return &HealthHandler{
		db:     db,
		cache:  cacheService,
		logger: logger,
	}
}

// GetHealth returns the basic health status
func (h *HealthHandler) GetHealth(c *gin.Context) {
	response := HealthStatus{
		Status:    "ok",
		Service:   "lineup-engine",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	// Database backs the value table; losing it degrades but does not stop
	// recommendations, which run off the in-memory table.
	if h.db != nil {
		if err := h.db.HealthCheck(); err != nil {
			response.Status = "degraded"
			response.Checks["database"] = "failed: " + err.Error()
		} else {
			response.Checks["database"] = "ok"
		}
	} else {
		response.Checks["database"] = "not_configured"
	}

	if err := h.cache.Ping(c.Request.Context()); err != nil {
		response.Status = "degraded"
		response.Checks["redis"] = "failed: " + err.Error()
	} else {
		response.Checks["redis"] = "ok"
	}

	statusCode := http.StatusOK
	if response.Status == "degraded" {
		statusCode = http.StatusPartialContent
	}

	c.JSON(statusCode, response)
}

// GetReady returns the readiness status
func (h *HealthHandler) GetReady(c *gin.Context) {
	response := HealthStatus{
		Status:    "ready",
		Service:   "lineup-engine",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	if err := h.cache.Ping(c.Request.Context()); err != nil {
		response.Status = "not_ready"
		response.Checks["redis"] = "failed: " + err.Error()
	} else {
		response.Checks["redis"] = "ok"
	}

	if h.db != nil {
		if err := h.db.HealthCheck(); err != nil {
			response.Checks["database"] = "failed: " + err.Error()
		} else {
			response.Checks["database"] = "ok"
		}
	}

	statusCode := http.StatusOK
	if response.Status != "ready" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}
