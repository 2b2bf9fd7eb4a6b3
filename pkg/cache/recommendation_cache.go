package cache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/wcrlabs/lineup-engine/pkg/types"
)

// RecommendationCacheService handles caching for recommendation results
type RecommendationCacheService struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRecommendationCacheService creates a new recommendation cache service
func NewRecommendationCacheService(client *redis.Client, logger *logrus.Logger) *RecommendationCacheService {
	return &RecommendationCacheService{
		client: client,
		logger: logger,
	}
}

// Key derives a cache key from the game snapshot and requesting team. Two
// requests share a key only when the pipeline inputs are identical, so a
// cached result is always the exact optimum for the request.
func Key(snapshot types.GameStateSnapshot, team string) string {
	hash := md5.New()
	payload, _ := json.Marshal(snapshot)
	hash.Write(payload)
	hash.Write([]byte(team))
	return fmt.Sprintf("%s:%x", snapshot.GameID, hash.Sum(nil))
}

// SetRecommendation stores a recommendation result in cache
func (c *RecommendationCacheService) SetRecommendation(ctx context.Context, key string, recommendation *types.Recommendation, expiration time.Duration) error {
	data, err := json.Marshal(recommendation)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendation: %w", err)
	}

	fullKey := fmt.Sprintf("recommendation:%s", key)
	if err := c.client.Set(ctx, fullKey, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set recommendation in cache: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key":  fullKey,
		"expiration": expiration,
		"team":       recommendation.Team,
	}).Debug("Cached recommendation result")

	return nil
}

// GetRecommendation retrieves a recommendation result from cache
func (c *RecommendationCacheService) GetRecommendation(ctx context.Context, key string) (*types.Recommendation, error) {
	fullKey := fmt.Sprintf("recommendation:%s", key)
	data, err := c.client.Get(ctx, fullKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("recommendation not found in cache")
		}
		return nil, fmt.Errorf("failed to get recommendation from cache: %w", err)
	}

	var recommendation types.Recommendation
	if err := json.Unmarshal([]byte(data), &recommendation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendation: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key": fullKey,
		"team":      recommendation.Team,
	}).Debug("Retrieved recommendation from cache")

	return &recommendation, nil
}

// InvalidateGame drops every cached recommendation for a game. Called after
// each recorded stint, since new minutes change the pipeline inputs.
func (c *RecommendationCacheService) InvalidateGame(ctx context.Context, gameID string) error {
	pattern := fmt.Sprintf("recommendation:%s:*", gameID)
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		return fmt.Errorf("failed to list recommendation keys: %w", err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete recommendation keys: %w", err)
		}
	}

	c.logger.WithFields(logrus.Fields{
		"game_id":      gameID,
		"deleted_keys": len(keys),
	}).Debug("Invalidated game recommendation cache")
	return nil
}

// GetStatus returns cache statistics
func (c *RecommendationCacheService) GetStatus(ctx context.Context) map[string]interface{} {
	dbSize := c.client.DBSize(ctx)

	status := map[string]interface{}{
		"service":   "recommendation-cache",
		"timestamp": time.Now(),
		"connected": true,
	}

	if dbSize.Err() == nil {
		status["db_size"] = dbSize.Val()
	}

	recommendationKeys, err := c.client.Keys(ctx, "recommendation:*").Result()
	if err == nil {
		status["recommendation_keys"] = len(recommendationKeys)
	}

	return status
}

// Ping reports whether the cache backend is reachable.
func (c *RecommendationCacheService) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
