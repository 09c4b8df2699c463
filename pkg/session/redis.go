package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis with a TTL matching the session expiry.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a new session store with Redis backend.
func NewRedisStore(redisClient *redis.Client) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		redis: redisClient,
	}
}

// Get retrieves a session by id.
// Returns ErrNotFound if the key doesn't exist or the session is expired.
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.redis.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			SessionLookups.WithLabelValues("miss").Inc()
			return nil, ErrNotFound
		}
		SessionErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		SessionErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if s.IsExpired() {
		_ = r.Delete(ctx, id)
		SessionLookups.WithLabelValues("miss").Inc()
		return nil, ErrNotFound
	}

	SessionLookups.WithLabelValues("hit").Inc()
	return &s, nil
}

// Set stores a session. Already expired sessions are not stored.
func (r *RedisStore) Set(ctx context.Context, s *Session) error {
	if s == nil {
		return fmt.Errorf("session cannot be nil")
	}

	ttl := s.TTL()
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		SessionErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := r.redis.Set(ctx, Key(s.ID), data, ttl).Err(); err != nil {
		SessionErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Delete removes a session.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.redis.Del(ctx, Key(id)).Err(); err != nil {
		SessionErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}

// Ping checks the Redis connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.redis.Ping(ctx).Err()
}
