package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"villagestay/models"
	"villagestay/utils"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "session:"

// RedisStore keeps sessions in Redis so multiple bot instances can share
// them. Each save refreshes the key TTL to the idle limit.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	clock  utils.Clock
}

// NewRedisStore creates a Store backed by the given Redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration, clock utils.Clock) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, clock: clock}
}

// GetOrCreate returns the session for an identity, creating one if needed.
func (r *RedisStore) GetOrCreate(ctx context.Context, id string) (*models.Session, error) {
	data, err := r.client.Get(ctx, sessionPrefix+id).Result()
	if err == redis.Nil {
		return models.NewSession(id, r.clock.Now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	var s models.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", id, err)
	}
	return &s, nil
}

// Save persists the session and resets its idle TTL.
func (r *RedisStore) Save(ctx context.Context, s *models.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", s.ID, err)
	}
	if err := r.client.Set(ctx, sessionPrefix+s.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session %s: %w", s.ID, err)
	}
	return nil
}

// EvictIdleOlderThan is a no-op for the Redis store: idle eviction is
// delegated to the per-key TTL applied on every Save.
func (r *RedisStore) EvictIdleOlderThan(context.Context, time.Duration) (int, error) {
	return 0, nil
}
