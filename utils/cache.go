// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"podgoro/config"
	"time"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionCacheClient is the dedicated client for conversation session state.
	SessionCacheClient *redis.Client
)

// InitSessionCache initializes the Redis client for conversation sessions
// (using DB from AppConfig for session storage).
func InitSessionCache() {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := SessionCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Sessions): %v", err)
	}
}

// GetSessionCacheClient returns the Redis client for conversation sessions.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}

// InitRedis initializes all Redis clients used by the service.
func InitRedis() {
	InitSessionCache()
}
