// File: services/chat/sessionStore.go
package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"podgoro/models"
	"podgoro/utils"

	"github.com/go-redis/redis/v8"
)

// SessionStore persists conversation state between turns.
type SessionStore interface {
	// Get returns the session, or a fresh empty one when the id is unknown
	// or expired.
	Get(ctx context.Context, sessionID string) (*models.ChatSession, error)
	Set(ctx context.Context, session *models.ChatSession) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps sessions as JSON blobs with a TTL, so abandoned
// conversations expire on their own.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	key := utils.SessionCachePrefix + sessionID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return &models.ChatSession{SessionID: sessionID}, nil
	}
	if err != nil {
		return nil, err
	}
	var session models.ChatSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Set(ctx context.Context, session *models.ChatSession) error {
	key := utils.SessionCachePrefix + session.SessionID
	session.UpdatedAt = time.Now()
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisSessionStore) Clear(ctx context.Context, sessionID string) error {
	key := utils.SessionCachePrefix + sessionID
	return s.client.Del(ctx, key).Err()
}

// sessionLocks serializes turns per session id. Two requests racing on one
// conversation run one after the other; different sessions never contend.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *sessionLocks) get(sessionID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[sessionID] = m
	}
	return m
}
