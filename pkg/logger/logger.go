package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// InitLogger initializes the structured logger with proper configuration
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	log := logrus.New()

	// Override with environment if not provided
	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			if isDevelopment {
				logLevel = "debug"
			} else {
				logLevel = "info"
			}
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	// Set formatter based on environment
	if !isDevelopment || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	log.SetOutput(os.Stdout)

	// Store global logger reference
	Logger = log

	return log
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("info", false)
	}
	return Logger
}

// WithService creates a logger with service context
func WithService(serviceName string) *logrus.Entry {
	return GetLogger().WithField("service", serviceName)
}

// WithGameContext creates a logger with live game context
func WithGameContext(gameID, team string) *logrus.Entry {
	fields := logrus.Fields{}
	if gameID != "" {
		fields["game_id"] = gameID
	}
	if team != "" {
		fields["team"] = team
	}
	return GetLogger().WithFields(fields)
}

// WithRecommendationID creates a logger with recommendation tracing context
func WithRecommendationID(recommendationID string) *logrus.Entry {
	return GetLogger().WithField("recommendation_id", recommendationID)
}

// WithValuationContext creates a logger with valuation run context
func WithValuationContext(runID string, stintCount, playerCount int) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"valuation_run_id": runID,
		"stint_count":      stintCount,
		"player_count":     playerCount,
	})
}
