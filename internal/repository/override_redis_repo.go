package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/emojitopng/emojitopng-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisOverrideRepository keeps the override under one Redis key
type RedisOverrideRepository struct {
	client *redis.Client
	key    string
}

// NewRedisOverrideRepository creates a new RedisOverrideRepository
func NewRedisOverrideRepository(client *redis.Client, key string) *RedisOverrideRepository {
	if key == "" {
		key = domain.DefaultOverrideSlot
	}
	return &RedisOverrideRepository{client: client, key: key}
}

// Get reads the key
func (r *RedisOverrideRepository) Get(ctx context.Context) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get override: %w", err)
	}
	return val, true, nil
}

// Put sets the key without expiry
func (r *RedisOverrideRepository) Put(ctx context.Context, raw string) error {
	if err := r.client.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set override: %w", err)
	}
	return nil
}

// Delete removes the key
func (r *RedisOverrideRepository) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del override: %w", err)
	}
	return nil
}
