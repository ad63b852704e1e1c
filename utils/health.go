package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the snapshot the /health endpoint serves. KnowledgeDocs is
// the size of the loaded retrieval corpus; zero means the assistant answers
// nothing but reservations.
type HealthStatus struct {
	Mongo         bool      `json:"mongo"`
	Redis         []bool    `json:"redis"`
	KnowledgeDocs int       `json:"knowledgeDocs"`
	CheckedAt     time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor checks the backing stores once immediately and then
// every minute, keeping the in-memory snapshot current.
func StartHealthMonitor(redisClients []*redis.Client, mongoClient *mongo.Client, knowledgeDocs int) {
	check := func(ctx context.Context) {
		redisHealth := make([]bool, 0, len(redisClients))
		for _, client := range redisClients {
			redisHealth = append(redisHealth, client.Ping(ctx).Err() == nil)
		}
		mongoHealthy := mongoClient.Ping(ctx, nil) == nil

		healthMu.Lock()
		currentHealth = HealthStatus{
			Mongo:         mongoHealthy,
			Redis:         redisHealth,
			KnowledgeDocs: knowledgeDocs,
			CheckedAt:     time.Now(),
		}
		healthMu.Unlock()
	}

	go func() {
		ctx := context.Background()
		check(ctx)

		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			check(ctx)
		}
	}()
}
