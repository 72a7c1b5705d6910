package main

import (
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap"
)

// GetRedisURL returns the remote cache URL with the following priority:
// 1. REDIS_URL environment variable
// 2. CACHE_REDIS_URL_FILE file content
// 3. Default value
func GetRedisURL(logger *zap.Logger) string {
	// Priority 1: Environment variable
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		logger.Debug("Using Redis URL from environment variable")
		return redisURL
	}

	// Priority 2: Configurable connection file path
	connectionFile := os.Getenv("CACHE_REDIS_URL_FILE")
	if connectionFile == "" {
		connectionFile = "/app/.redis-url"
	}

	if content, err := os.ReadFile(connectionFile); err == nil {
		redisURL := strings.TrimSpace(string(content))
		if len(redisURL) > 0 {
			logger.Debug("Using Redis URL from connection file", zap.String("file", connectionFile))
			return redisURL
		}
	} else {
		logger.Debug("Redis connection file not found or empty", zap.String("file", connectionFile))
	}

	// Priority 3: Default
	logger.Debug("Using default Redis URL")
	return "redis://redis:6379"
}

// redactURL hides the password of a connection URL before logging it
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}
